package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerBeginIssuesUniqueActiveTokens(t *testing.T) {
	m := NewManager(nil)

	first := m.Begin()
	second := m.Begin()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
	assert.True(t, m.IsActive(first))
	assert.True(t, m.IsActive(second))
}

func TestManagerEndSpendsToken(t *testing.T) {
	m := NewManager(nil)
	token := m.Begin()

	m.End(token)

	assert.False(t, m.IsActive(token), "spent token must not stay active")

	// Ending again, or ending a token that was never issued, is a no-op.
	m.End(token)
	m.End(Token("never-issued"))
	assert.False(t, m.IsActive(token))
}

func TestManagerIsActiveUnknownToken(t *testing.T) {
	m := NewManager(nil)

	assert.False(t, m.IsActive(Token("")))
	assert.False(t, m.IsActive(Token("not-a-token")))
}

func TestManagerConcurrentUse(t *testing.T) {
	m := NewManager(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token := m.Begin()
			assert.True(t, m.IsActive(token))
			m.End(token)
			assert.False(t, m.IsActive(token))
		}()
	}
	wg.Wait()
}

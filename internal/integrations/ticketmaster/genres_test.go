package ticketmaster

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenreIDs(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "preserves input order",
			input:    []string{"Pop", "Rock"},
			expected: []string{"KnvZfZ7vAev", "KnvZfZ7vAeA"},
		},
		{
			name:     "skips unknown names",
			input:    []string{"Rock", "Polka", "Jazz"},
			expected: []string{"KnvZfZ7vAeA", "KnvZfZ7vAvE"},
		},
		{
			name:     "empty input",
			input:    nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenreIDs(tt.input))
		})
	}
}

func TestKnownGenre(t *testing.T) {
	assert.True(t, KnownGenre("Hip-Hop/Rap"))
	assert.True(t, KnownGenre("R&B"))
	assert.False(t, KnownGenre("rock"), "lookup is case sensitive")
	assert.False(t, KnownGenre(""))
}

func TestGenreNames(t *testing.T) {
	names := GenreNames()

	assert.Len(t, names, 17)
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "Dance/Electronic")
}

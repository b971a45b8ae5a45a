package preferences

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mfstratton/concertfindr/internal/app/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetGenres(ctx context.Context, deviceID string) ([]string, error) {
	args := m.Called(ctx, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRepository) SetGenres(ctx context.Context, deviceID string, genres []string) error {
	args := m.Called(ctx, deviceID, genres)
	return args.Error(0)
}

func TestServiceGetGenres(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetGenres", mock.Anything, "device-1").Return([]string{"Rock"}, nil)

	svc := NewService(repo, zap.NewNop())
	got, err := svc.GetGenres(context.Background(), "device-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"Rock"}, got)
	repo.AssertExpectations(t)
}

func TestServiceGetGenresDefaultsToEmptySet(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetGenres", mock.Anything, "device-new").
		Return(nil, models.ErrNotFound)

	svc := NewService(repo, zap.NewNop())
	got, err := svc.GetGenres(context.Background(), "device-new")

	require.NoError(t, err, "missing preference is not an error")
	assert.Empty(t, got)
}

func TestServiceGetGenresRepositoryFailure(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetGenres", mock.Anything, "device-1").
		Return(nil, errors.New("connection reset"))

	svc := NewService(repo, zap.NewNop())
	_, err := svc.GetGenres(context.Background(), "device-1")

	assert.Error(t, err)
}

func TestServiceSetGenres(t *testing.T) {
	repo := new(MockRepository)
	repo.On("SetGenres", mock.Anything, "device-1", []string{"Rock", "Pop"}).Return(nil)

	svc := NewService(repo, zap.NewNop())
	err := svc.SetGenres(context.Background(), "device-1", []string{"Rock", "Pop"})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestServiceSetGenresRejectsUnknownGenre(t *testing.T) {
	repo := new(MockRepository)

	svc := NewService(repo, zap.NewNop())
	err := svc.SetGenres(context.Background(), "device-1", []string{"Rock", "Polka"})

	assert.ErrorIs(t, err, models.ErrValidation)
	repo.AssertNotCalled(t, "SetGenres")
}

func TestServiceSetGenresEmptySetClearsFilter(t *testing.T) {
	repo := new(MockRepository)
	repo.On("SetGenres", mock.Anything, "device-1", []string{}).Return(nil)

	svc := NewService(repo, zap.NewNop())
	err := svc.SetGenres(context.Background(), "device-1", []string{})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

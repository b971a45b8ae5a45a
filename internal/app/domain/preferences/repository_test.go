package preferences

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mfstratton/concertfindr/internal/app/models"
	"github.com/mfstratton/concertfindr/internal/app/observability/metrics"
)

func TestMain(m *testing.M) {
	metrics.InitAppMetrics()
	m.Run()
}

func newMockRepo(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewRepositoryImpl(mockPool, zap.NewNop()), mockPool
}

func TestRepositoryGetGenres(t *testing.T) {
	repo, mockPool := newMockRepo(t)

	mockPool.ExpectQuery(regexp.QuoteMeta(`SELECT genres FROM device_genre_preferences WHERE device_id = $1`)).
		WithArgs("device-1").
		WillReturnRows(pgxmock.NewRows([]string{"genres"}).AddRow([]string{"Rock", "Jazz"}))

	got, err := repo.GetGenres(context.Background(), "device-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rock", "Jazz"}, got)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositoryGetGenresNotFound(t *testing.T) {
	repo, mockPool := newMockRepo(t)

	mockPool.ExpectQuery(regexp.QuoteMeta(`SELECT genres FROM device_genre_preferences WHERE device_id = $1`)).
		WithArgs("device-unknown").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetGenres(context.Background(), "device-unknown")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepositorySetGenres(t *testing.T) {
	repo, mockPool := newMockRepo(t)

	mockPool.ExpectExec(regexp.QuoteMeta(`INSERT INTO device_genre_preferences`)).
		WithArgs("device-1", []string{"Pop"}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.SetGenres(context.Background(), "device-1", []string{"Pop"})
	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

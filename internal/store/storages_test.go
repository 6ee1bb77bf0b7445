package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/config"
	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStorages(t *testing.T, dsn string) *Storages {
	t.Helper()
	s, err := NewStorages(context.Background(), config.Storage{DSN: dsn}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStorages_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteStorages(t, ":memory:").PlayerRepository

	_, err := repo.Find(ctx, "Henry")
	require.ErrorIs(t, err, ErrPlayerNotFound)

	p := testPlayer()
	require.NoError(t, repo.Save(ctx, p))

	// second save hits the primary key and updates in place
	p.LastSeen = time.UnixMilli(9_000)
	p.FirstSeen = time.UnixMilli(8_000)
	p.Units[0].Position = models.Position{X: 0, Y: 1}
	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.Find(ctx, "Henry")
	require.NoError(t, err)
	assert.Equal(t, int64(1_000), found.FirstSeen.UnixMilli(), "first seen is kept")
	assert.Equal(t, int64(9_000), found.LastSeen.UnixMilli())
	scout, _ := found.Scout()
	assert.Equal(t, models.Position{X: 0, Y: 1}, scout.Position)

	require.NoError(t, repo.Touch(ctx, "Henry", time.UnixMilli(10_000)))
	require.NoError(t, repo.SavePosition(ctx, "Henry", models.NewScout(1).Moved(5, 5)))
	assert.ErrorIs(t, repo.Touch(ctx, "ghost", time.UnixMilli(1)), ErrPlayerNotFound)

	require.NoError(t, repo.Save(ctx, models.Player{Name: "Ada", FirstSeen: time.UnixMilli(1), LastSeen: time.UnixMilli(1)}))

	players, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Ada", players[0].Name)
	assert.Equal(t, "Henry", players[1].Name)
	assert.Equal(t, int64(10_000), players[1].LastSeen.UnixMilli())
	scout, _ = players[1].Scout()
	assert.Equal(t, models.Position{X: 55, Y: 55}, scout.Position)
}

func TestStorages_SQLiteFilePersists(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "roster.db")

	s, err := NewStorages(ctx, config.Storage{DSN: dsn}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, s.PlayerRepository.Save(ctx, testPlayer()))
	require.NoError(t, s.Close())

	reopened := newSQLiteStorages(t, dsn)
	p, err := reopened.PlayerRepository.Find(ctx, "Henry")
	require.NoError(t, err)
	assert.Equal(t, "Henry", p.Name)
}

func TestStorages_CloseNil(t *testing.T) {
	var s *Storages
	assert.NoError(t, s.Close())
}

func TestConnect_UnreachablePostgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, "postgres://nobody@127.0.0.1:1/none?connect_timeout=1", logger.Nop())
	assert.Error(t, err)
}

package store_test

import (
	"context"
	"testing"

	"github.com/primal-host/participation/internal/database"
	"github.com/primal-host/participation/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.SQLite {
	t.Helper()
	db, err := database.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	s := store.NewSQLite(db)
	t.Cleanup(s.Close)
	return s
}

var sample = []store.Validator{
	{ID: 1, PublicKey: "0xabc...", MissedAttestations: 5},
	{ID: 2, PublicKey: "0xdef...", MissedAttestations: 2},
}

func TestEmptyStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	sum, err := s.SumMissedAttestations(ctx)
	require.NoError(t, err)
	assert.Zero(t, sum)
}

func TestUpsertIgnoreAndRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.UpsertIgnore(ctx, sample))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	sum, err := s.SumMissedAttestations(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sum)

	v, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, sample[0], v)
}

func TestUpsertIgnoreIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.UpsertIgnore(ctx, sample))
	require.NoError(t, s.UpsertIgnore(ctx, sample))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestUpsertIgnoreKeepsExistingRow(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.UpsertIgnore(ctx, sample))
	require.NoError(t, s.UpsertIgnore(ctx, []store.Validator{
		{ID: 1, PublicKey: "0xnew", MissedAttestations: 99},
		{ID: 3, PublicKey: "0x123", MissedAttestations: 1},
	}))

	v, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "0xabc...", v.PublicKey)
	assert.Equal(t, int32(5), v.MissedAttestations)

	sum, err := s.SumMissedAttestations(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(8), sum)
}

func TestNegativeCounterRejected(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.UpsertIgnore(ctx, []store.Validator{{ID: 1, MissedAttestations: -1}})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrQuery)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NotErrorIs(t, err, store.ErrUnavailable)
	assert.Contains(t, err.Error(), "999")
}

func TestClosedStoreIsUnavailable(t *testing.T) {
	db, err := database.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	s := store.NewSQLite(db)
	s.Close()

	_, err = s.Get(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.NotErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.Ping(context.Background()), store.ErrUnavailable)
}

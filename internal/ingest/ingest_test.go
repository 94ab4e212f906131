package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/primal-host/participation/internal/database"
	"github.com/primal-host/participation/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	calls [][]store.Validator
	err   error
}

func (w *recordingWriter) UpsertIgnore(_ context.Context, rows []store.Validator) error {
	w.calls = append(w.calls, rows)
	return w.err
}

func TestRecordsDefaultsToSample(t *testing.T) {
	rows, err := Records("")
	require.NoError(t, err)
	assert.Equal(t, SampleValidators(), rows)
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
validators:
  - id: 7
    public_key: "0x777"
    missed_attestations: 3
  - id: 8
    public_key: "0x888"
    missed_attestations: 0
`), 0o644))

	rows, err := Records(path)
	require.NoError(t, err)
	assert.Equal(t, []store.Validator{
		{ID: 7, PublicKey: "0x777", MissedAttestations: 3},
		{ID: 8, PublicKey: "0x888", MissedAttestations: 0},
	}, rows)
}

func TestLoadSeedFileErrors(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read seed file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("validators: [{id: nope}]"), 0o644))
	_, err = LoadSeedFile(path)
	assert.ErrorContains(t, err, "parse seed file")
}

func TestRunRejectsInvalidRows(t *testing.T) {
	tests := []struct {
		name string
		rows []store.Validator
		want string
	}{
		{"negative counter", []store.Validator{{ID: 1, MissedAttestations: -2}}, "non-negative"},
		{"duplicate id", []store.Validator{{ID: 1}, {ID: 1}}, "duplicate id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &recordingWriter{}
			err := Run(context.Background(), w, tt.rows)
			assert.ErrorContains(t, err, tt.want)
			assert.Empty(t, w.calls)
		})
	}
}

func TestRunWrapsStoreError(t *testing.T) {
	w := &recordingWriter{err: &store.Error{Kind: store.ErrUnavailable, Op: "upsert validators", Err: errors.New("refused")}}

	err := Run(context.Background(), w, SampleValidators())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.Len(t, w.calls, 1)
}

func TestRunTwiceLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	s := store.NewSQLite(db)
	t.Cleanup(s.Close)

	require.NoError(t, Run(ctx, s, SampleValidators()))
	require.NoError(t, Run(ctx, s, SampleValidators()))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	sum, err := s.SumMissedAttestations(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sum)
}

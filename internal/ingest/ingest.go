// Package ingest seeds the validator store at startup. It stands in for a
// real feed from validator clients.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/primal-host/participation/internal/metrics"
	"github.com/primal-host/participation/internal/store"
	"gopkg.in/yaml.v3"
)

// Writer is the subset of store.Store ingestion needs.
type Writer interface {
	UpsertIgnore(ctx context.Context, rows []store.Validator) error
}

// SampleValidators returns the built-in seed records.
func SampleValidators() []store.Validator {
	return []store.Validator{
		{ID: 1, PublicKey: "0xabc...", MissedAttestations: 5},
		{ID: 2, PublicKey: "0xdef...", MissedAttestations: 2},
	}
}

// SeedFile is the YAML layout accepted by LoadSeedFile.
type SeedFile struct {
	Validators []store.Validator `yaml:"validators"`
}

// LoadSeedFile reads validator records from a YAML file.
func LoadSeedFile(path string) ([]store.Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return f.Validators, nil
}

// Records returns the seed file's records, or the built-in sample when path
// is empty.
func Records(path string) ([]store.Validator, error) {
	if path == "" {
		return SampleValidators(), nil
	}
	return LoadSeedFile(path)
}

// Validate rejects negative counters and duplicate ids.
func Validate(rows []store.Validator) error {
	seen := make(map[int32]struct{}, len(rows))
	for _, v := range rows {
		if v.MissedAttestations < 0 {
			return fmt.Errorf("validator %d: missed_attestations must be non-negative, got %d", v.ID, v.MissedAttestations)
		}
		if _, dup := seen[v.ID]; dup {
			return fmt.Errorf("validator %d: duplicate id", v.ID)
		}
		seen[v.ID] = struct{}{}
	}
	return nil
}

// Run validates rows and inserts those whose id is not yet stored.
func Run(ctx context.Context, w Writer, rows []store.Validator) error {
	if err := Validate(rows); err != nil {
		return err
	}
	if err := w.UpsertIgnore(ctx, rows); err != nil {
		return fmt.Errorf("ingest validators: %w", err)
	}
	metrics.IngestedValidators.Add(float64(len(rows)))
	slog.Info("validators ingested", "records", len(rows))
	return nil
}

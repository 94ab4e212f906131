// Package store persists validator rows and answers the aggregate reads the
// participation metrics are computed from.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Validator is one row of the validators table. MissedAttestations is the
// validator's cumulative miss count as last ingested.
type Validator struct {
	ID                 int32  `json:"id" yaml:"id"`
	PublicKey          string `json:"public_key" yaml:"public_key"`
	MissedAttestations int32  `json:"missed_attestations" yaml:"missed_attestations"`
}

// Store is the contract shared by the Postgres and SQLite backends.
type Store interface {
	// Count returns the number of validator rows.
	Count(ctx context.Context) (int64, error)
	// SumMissedAttestations returns the sum over all rows, 0 for an empty table.
	SumMissedAttestations(ctx context.Context) (int64, error)
	// Get returns the validator with the given id or an ErrNotFound error.
	Get(ctx context.Context, id int32) (Validator, error)
	// UpsertIgnore inserts rows whose id is absent and leaves existing rows untouched.
	UpsertIgnore(ctx context.Context, rows []Validator) error
	Ping(ctx context.Context) error
	Close()
}

// Error kinds. Match with errors.Is.
var (
	ErrNotFound    = errors.New("validator not found")
	ErrUnavailable = errors.New("store unavailable")
	ErrQuery       = errors.New("query failed")
)

// Error records the failed operation, its kind and the underlying cause.
type Error struct {
	Kind error
	Op   string
	ID   int32 // set for lookups
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == ErrNotFound {
		return fmt.Sprintf("%s: validator %d not found", e.Op, e.ID)
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func unavailable(op string, err error) error {
	return &Error{Kind: ErrUnavailable, Op: op, Err: err}
}

func queryFailed(op string, err error) error {
	return &Error{Kind: ErrQuery, Op: op, Err: err}
}

func notFound(op string, id int32) error {
	return &Error{Kind: ErrNotFound, Op: op, ID: id}
}

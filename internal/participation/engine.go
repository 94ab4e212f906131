// Package participation computes participation rates from validator store
// aggregates.
package participation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/primal-host/participation/internal/metrics"
	"github.com/primal-host/participation/internal/store"
)

// Reader is the subset of store.Store the engine needs.
type Reader interface {
	Count(ctx context.Context) (int64, error)
	SumMissedAttestations(ctx context.Context) (int64, error)
	Get(ctx context.Context, id int32) (store.Validator, error)
}

// Engine computes participation rates. It holds no state besides its
// parameters and is safe for concurrent use.
type Engine struct {
	store  Reader
	params Params
}

// New returns an Engine after validating params.
func New(r Reader, params Params) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("participation params: %w", err)
	}
	return &Engine{store: r, params: params}, nil
}

// Params returns the engine's formula parameters.
func (e *Engine) Params() Params {
	return e.params
}

// NetworkRate returns 1 - sum(missed)/(epochs*slots*setSize). With the
// fixed denominator the live row count is read and reported but does not
// enter the formula.
func (e *Engine) NetworkRate(ctx context.Context) (float64, error) {
	count, err := e.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	missed, err := e.store.SumMissedAttestations(ctx)
	if err != nil {
		return 0, err
	}
	metrics.ValidatorCount.Set(float64(count))

	setSize := e.params.ValidatorSetSize
	if e.params.Denominator == DenominatorLive {
		if count == 0 {
			return e.finish(1.0), nil
		}
		setSize = count
	} else if count != e.params.ValidatorSetSize {
		slog.Debug("validator rows differ from configured set size",
			"rows", count, "set_size", e.params.ValidatorSetSize)
	}

	rate := e.finish(Rate(missed, e.params.NetworkSlots(setSize)))
	metrics.NetworkParticipationRate.Set(rate)
	return rate, nil
}

// ValidatorRate returns 1 - missed/(epochs*slots) for one validator. An
// unknown id yields an error matching store.ErrNotFound.
func (e *Engine) ValidatorRate(ctx context.Context, id int32) (float64, error) {
	v, err := e.store.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return e.finish(Rate(int64(v.MissedAttestations), e.params.ValidatorSlots())), nil
}

func (e *Engine) finish(rate float64) float64 {
	if e.params.Clamp {
		return Clamp(rate)
	}
	return rate
}

// Rate is 1 - missed/total in floating point.
func Rate(missed, total int64) float64 {
	return 1.0 - float64(missed)/float64(total)
}

// Clamp restricts rate to [0, 1].
func Clamp(rate float64) float64 {
	switch {
	case rate < 0:
		return 0
	case rate > 1:
		return 1
	}
	return rate
}

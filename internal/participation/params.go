package participation

import "fmt"

// Denominator selects how many validators the network-wide rate assumes.
type Denominator string

const (
	// DenominatorFixed uses Params.ValidatorSetSize regardless of how many
	// rows the store holds.
	DenominatorFixed Denominator = "fixed"
	// DenominatorLive uses the current row count of the store.
	DenominatorLive Denominator = "live"
)

// Params are the assumptions of the participation formula.
type Params struct {
	Epochs           int64
	SlotsPerEpoch    int64
	ValidatorSetSize int64
	Denominator      Denominator
	// Clamp restricts results to [0, 1]. Off by default: rates outside that
	// range are reported as computed.
	Clamp bool
}

// DefaultParams returns 5 epochs of 32 slots across a 1024-validator set.
func DefaultParams() Params {
	return Params{
		Epochs:           5,
		SlotsPerEpoch:    32,
		ValidatorSetSize: 1024,
		Denominator:      DenominatorFixed,
	}
}

// Validate rejects parameters that would make the formula meaningless.
func (p Params) Validate() error {
	if p.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive, got %d", p.Epochs)
	}
	if p.SlotsPerEpoch <= 0 {
		return fmt.Errorf("slots per epoch must be positive, got %d", p.SlotsPerEpoch)
	}
	if p.ValidatorSetSize <= 0 {
		return fmt.Errorf("validator set size must be positive, got %d", p.ValidatorSetSize)
	}
	switch p.Denominator {
	case DenominatorFixed, DenominatorLive:
	default:
		return fmt.Errorf("unknown denominator %q", p.Denominator)
	}
	return nil
}

// ValidatorSlots is the number of attestation opportunities of one validator.
func (p Params) ValidatorSlots() int64 {
	return p.Epochs * p.SlotsPerEpoch
}

// NetworkSlots is the number of attestation opportunities across a set of
// setSize validators.
func (p Params) NetworkSlots(setSize int64) int64 {
	return p.ValidatorSlots() * setSize
}

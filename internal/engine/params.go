package engine

import (
	"fmt"
	"math"
)

// Mode selects which multipliers are evaluated.
type Mode string

const (
	// ModeStandard evaluates every StandardMultipliers scenario.
	ModeStandard Mode = "standard"

	// ModeCustom evaluates only the custom multiplier.
	ModeCustom Mode = "custom"
)

// Params are the user-adjustable inputs of a calculation.
type Params struct {
	// SimplesTax is the tax rate as a percentage of sales.
	SimplesTax float64

	// PaymentDiscount is the payment processor fee as a percentage of sales.
	PaymentDiscount float64

	Mode Mode

	// SelectedMultiplier picks the displayed scenario in standard mode.
	SelectedMultiplier float64

	// CustomMultiplier is the only scenario in custom mode.
	CustomMultiplier float64
}

// DefaultParams returns the parameters used when nothing is configured.
func DefaultParams() Params {
	return Params{
		SimplesTax:         DefaultSimplesTax,
		PaymentDiscount:    DefaultPaymentDiscount,
		Mode:               ModeStandard,
		SelectedMultiplier: DefaultMultiplier,
		CustomMultiplier:   DefaultMultiplier,
	}
}

// Multipliers returns the scenario multipliers to evaluate: the standard set
// in standard mode, or just the custom multiplier in custom mode.
func (p Params) Multipliers() []float64 {
	if p.Mode == ModeCustom {
		return []float64{p.CustomMultiplier}
	}
	return append([]float64(nil), StandardMultipliers...)
}

// Selected returns the multiplier whose scenario is displayed.
func (p Params) Selected() float64 {
	if p.Mode == ModeCustom {
		return p.CustomMultiplier
	}
	return p.SelectedMultiplier
}

// Validate checks the parameters before any computation starts.
func (p Params) Validate() error {
	switch p.Mode {
	case ModeStandard, ModeCustom:
	default:
		return fmt.Errorf("%w: unknown multiplier mode %q", ErrInvalidParameters, p.Mode)
	}
	if !isFinite(p.SimplesTax) || p.SimplesTax < 0 {
		return fmt.Errorf("%w: simples tax must be a non-negative percentage, got %v", ErrInvalidParameters, p.SimplesTax)
	}
	if !isFinite(p.PaymentDiscount) || p.PaymentDiscount < 0 {
		return fmt.Errorf("%w: payment discount must be a non-negative percentage, got %v", ErrInvalidParameters, p.PaymentDiscount)
	}
	if m := p.Selected(); !isFinite(m) || m <= 0 {
		return fmt.Errorf("%w: points multiplier must be positive, got %v", ErrInvalidParameters, m)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

package backtest

import "fmt"

// Params is the run configuration. It is fixed for a whole simulation.
type Params struct {
	InitialBudget float64
	TradeFraction float64
	Leverage      int
	ATRPeriod     int
	TPMultiplier  float64
	SLMultiplier  float64
}

func (p Params) Validate() error {
	if !(p.InitialBudget > 0) {
		return fmt.Errorf("%w: initial budget must be positive, got %v", ErrInvalidParameter, p.InitialBudget)
	}
	if !(p.TradeFraction > 0 && p.TradeFraction <= 1) {
		return fmt.Errorf("%w: trade fraction must be in (0, 1], got %v", ErrInvalidParameter, p.TradeFraction)
	}
	if p.Leverage < 1 {
		return fmt.Errorf("%w: leverage must be at least 1, got %d", ErrInvalidParameter, p.Leverage)
	}
	if p.ATRPeriod <= 0 {
		return fmt.Errorf("%w: atr period must be positive, got %d", ErrInvalidParameter, p.ATRPeriod)
	}
	if !(p.TPMultiplier > 0) {
		return fmt.Errorf("%w: take profit multiplier must be positive, got %v", ErrInvalidParameter, p.TPMultiplier)
	}
	if !(p.SLMultiplier > 0) {
		return fmt.Errorf("%w: stop loss multiplier must be positive, got %v", ErrInvalidParameter, p.SLMultiplier)
	}

	return nil
}

package indicator

import (
	"fmt"

	"github.com/gamma-omg/atr-backtester/internal/market"
)

type WeightedIndicator struct {
	Weight    float64
	Indicator SignalProducer
}

// EnsembleIndicator votes its children per bar; the sign of the weighted sum
// is the signal.
type EnsembleIndicator struct {
	Children []WeightedIndicator
}

func (i *EnsembleIndicator) Signals(bars []market.Bar) ([]market.Signal, error) {
	votes := make([]float64, len(bars))
	for n, c := range i.Children {
		s, err := c.Indicator.Signals(bars)
		if err != nil {
			return nil, fmt.Errorf("failed to get signals from child %d: %w", n, err)
		}
		if len(s) != len(bars) {
			return nil, fmt.Errorf("child %d returned %d signals for %d bars", n, len(s), len(bars))
		}

		for k, v := range s {
			sig, err := market.ParseSignal(int(v))
			if err != nil {
				return nil, fmt.Errorf("child %d at bar %d: %w", n, k, err)
			}
			votes[k] += float64(sig) * c.Weight
		}
	}

	res := make([]market.Signal, len(bars))
	for k, v := range votes {
		switch {
		case v > 0:
			res[k] = market.SignalLong
		case v < 0:
			res[k] = market.SignalShort
		}
	}

	return res, nil
}

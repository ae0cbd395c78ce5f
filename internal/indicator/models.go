package indicator

import (
	"github.com/gamma-omg/atr-backtester/internal/market"
)

// SignalProducer turns a bar series into one signal per bar.
type SignalProducer interface {
	Signals(bars []market.Bar) ([]market.Signal, error)
}

func closes(bars []market.Bar) []float64 {
	c := make([]float64, len(bars))
	for i, b := range bars {
		c[i] = b.Close
	}

	return c
}

// crossings emits long where a crosses above b and short where it crosses
// below. The first element has nothing to cross from and stays flat.
func crossings(a, b []float64) []market.Signal {
	s := make([]market.Signal, len(a))
	for i := 1; i < len(a); i++ {
		switch {
		case a[i-1] < b[i-1] && a[i] > b[i]:
			s[i] = market.SignalLong
		case a[i-1] > b[i-1] && a[i] < b[i]:
			s[i] = market.SignalShort
		}
	}

	return s
}

package indicator

import (
	"fmt"
	"math"

	"github.com/gamma-omg/atr-backtester/internal/config"
	"github.com/gamma-omg/atr-backtester/internal/market"
)

// BollingerIndicator trades reversals against the band in the direction of
// the EMA trend: long on a touch of the lower band in an uptrend, short on a
// touch of the upper band in a downtrend.
type BollingerIndicator struct {
	cfg config.Bollinger
}

func NewBollinger(cfg config.Bollinger) (*BollingerIndicator, error) {
	if cfg.EMAFast <= 0 || cfg.EMASlow <= 0 {
		return nil, fmt.Errorf("bollinger ema periods must be positive, got fast=%d slow=%d", cfg.EMAFast, cfg.EMASlow)
	}
	if cfg.Window < 2 {
		return nil, fmt.Errorf("bollinger window must be at least 2, got %d", cfg.Window)
	}
	if cfg.Std <= 0 {
		return nil, fmt.Errorf("bollinger std multiplier must be positive, got %v", cfg.Std)
	}
	if cfg.Backcandles < 0 {
		return nil, fmt.Errorf("bollinger backcandles must not be negative, got %d", cfg.Backcandles)
	}

	return &BollingerIndicator{cfg: cfg}, nil
}

func (i *BollingerIndicator) Signals(bars []market.Bar) ([]market.Signal, error) {
	c := closes(bars)
	fast := ema(c, i.cfg.EMAFast)
	slow := ema(c, i.cfg.EMASlow)
	mean, std := rollingMeanStd(c, i.cfg.Window)

	s := make([]market.Signal, len(bars))
	for n := range bars {
		if math.IsNaN(mean[n]) {
			continue
		}

		upper := mean[n] + std[n]*i.cfg.Std
		lower := mean[n] - std[n]*i.cfg.Std

		switch trend(fast, slow, n, i.cfg.Backcandles) {
		case market.SignalLong:
			if c[n] <= lower {
				s[n] = market.SignalLong
			}
		case market.SignalShort:
			if c[n] >= upper {
				s[n] = market.SignalShort
			}
		}
	}

	return s, nil
}

// trend looks at the bars before n. An empty lookback counts as an uptrend.
func trend(fast, slow []float64, n, lookback int) market.Signal {
	start := max(0, n-lookback)

	up, down := true, true
	for k := start; k < n; k++ {
		up = up && fast[k] > slow[k]
		down = down && fast[k] < slow[k]
	}

	switch {
	case up:
		return market.SignalLong
	case down:
		return market.SignalShort
	default:
		return market.SignalFlat
	}
}

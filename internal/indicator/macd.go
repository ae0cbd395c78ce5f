package indicator

import (
	"fmt"

	"github.com/gamma-omg/atr-backtester/internal/config"
	"github.com/gamma-omg/atr-backtester/internal/market"
)

type MACDIndicator struct {
	cfg config.MACD
}

func NewMACD(cfg config.MACD) (*MACDIndicator, error) {
	if cfg.Fast <= 0 || cfg.Slow <= 0 || cfg.Signal <= 0 {
		return nil, fmt.Errorf("macd periods must be positive, got fast=%d slow=%d signal=%d", cfg.Fast, cfg.Slow, cfg.Signal)
	}
	if cfg.Fast >= cfg.Slow {
		return nil, fmt.Errorf("macd fast period %d must be shorter than slow period %d", cfg.Fast, cfg.Slow)
	}

	return &MACDIndicator{cfg: cfg}, nil
}

// Signals goes long when MACD crosses above its signal line and short when
// it crosses below.
func (i *MACDIndicator) Signals(bars []market.Bar) ([]market.Signal, error) {
	macd, signal := calcMACD(closes(bars), i.cfg.Fast, i.cfg.Slow, i.cfg.Signal)
	return crossings(macd, signal), nil
}

func calcMACD(prices []float64, fast, slow, signal int) (macd, line []float64) {
	f := ema(prices, fast)
	s := ema(prices, slow)

	macd = make([]float64, len(prices))
	for i := range prices {
		macd[i] = f[i] - s[i]
	}

	return macd, ema(macd, signal)
}

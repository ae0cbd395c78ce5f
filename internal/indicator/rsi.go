package indicator

import (
	"fmt"
	"math"

	"github.com/gamma-omg/atr-backtester/internal/config"
	"github.com/gamma-omg/atr-backtester/internal/market"
)

type RSIIndictor struct {
	cfg config.RSI
}

func NewRSI(cfg config.RSI) (*RSIIndictor, error) {
	if cfg.Period <= 0 {
		return nil, fmt.Errorf("rsi period must be positive, got %d", cfg.Period)
	}
	if cfg.Overbought <= 0.5 || cfg.Overbought >= 1 {
		return nil, fmt.Errorf("rsi overbought level must be in (0.5, 1), got %v", cfg.Overbought)
	}

	return &RSIIndictor{cfg: cfg}, nil
}

func (i *RSIIndictor) Signals(bars []market.Bar) ([]market.Signal, error) {
	r := rsi(closes(bars), i.cfg.Period)

	s := make([]market.Signal, len(bars))
	for n, v := range r {
		switch {
		case math.IsNaN(v):
		case v >= i.cfg.Overbought:
			s[n] = market.SignalShort
		case v <= 1-i.cfg.Overbought:
			s[n] = market.SignalLong
		}
	}

	return s, nil
}

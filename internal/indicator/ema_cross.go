package indicator

import (
	"fmt"

	"github.com/gamma-omg/atr-backtester/internal/config"
	"github.com/gamma-omg/atr-backtester/internal/market"
)

// EMACrossIndicator signals when the close crosses its own EMA.
type EMACrossIndicator struct {
	cfg config.EMACross
}

func NewEMACross(cfg config.EMACross) (*EMACrossIndicator, error) {
	if cfg.Period <= 0 {
		return nil, fmt.Errorf("ema period must be positive, got %d", cfg.Period)
	}

	return &EMACrossIndicator{cfg: cfg}, nil
}

func (i *EMACrossIndicator) Signals(bars []market.Bar) ([]market.Signal, error) {
	c := closes(bars)
	return crossings(c, ema(c, i.cfg.Period)), nil
}

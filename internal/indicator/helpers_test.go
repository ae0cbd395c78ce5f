package indicator

import (
	"time"

	"github.com/gamma-omg/atr-backtester/internal/market"
)

const (
	L = market.SignalLong
	S = market.SignalShort
	F = market.SignalFlat
)

func barsFromCloses(closes ...float64) []market.Bar {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Time:  t0.Add(time.Duration(i) * time.Hour),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}

	return bars
}

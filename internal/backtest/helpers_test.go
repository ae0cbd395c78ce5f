package backtest

import (
	"testing"
	"time"

	"github.com/gamma-omg/atr-backtester/internal/market"
)

var t0 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

// ohlc builds hourly bars from {open, high, low, close} rows.
func ohlc(t *testing.T, rows ...[4]float64) []market.Bar {
	t.Helper()

	bars := make([]market.Bar, len(rows))
	for i, r := range rows {
		bars[i] = market.Bar{
			Time:   t0.Add(time.Duration(i) * time.Hour),
			Open:   r[0],
			High:   r[1],
			Low:    r[2],
			Close:  r[3],
			Volume: 1,
		}
	}

	return bars
}

func signals(v ...market.Signal) []market.Signal {
	return v
}

const (
	L = market.SignalLong
	S = market.SignalShort
	F = market.SignalFlat
)

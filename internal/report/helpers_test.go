package report

import (
	"testing"
	"time"

	"github.com/gamma-omg/atr-backtester/internal/backtest"
	"github.com/gamma-omg/atr-backtester/internal/market"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func sampleTrades() []backtest.Trade {
	return []backtest.Trade{
		{
			Side:         backtest.SideLong,
			EntryTime:    t0.Add(time.Hour),
			ExitTime:     t0.Add(3 * time.Hour),
			EntryIndex:   1,
			ExitIndex:    3,
			EntryPrice:   100,
			ExitPrice:    108,
			TakeProfit:   108,
			StopLoss:     94,
			HoldingHours: 2,
			EntryBudget:  1000,
			ExitBudget:   1160,
			Profit:       160,
			Reason:       backtest.ExitTakeProfit,
		},
		{
			Side:         backtest.SideShort,
			EntryTime:    t0.Add(4 * time.Hour),
			ExitTime:     t0.Add(5 * time.Hour),
			EntryIndex:   4,
			ExitIndex:    5,
			EntryPrice:   110,
			ExitPrice:    113,
			TakeProfit:   104,
			StopLoss:     113,
			HoldingHours: 1,
			EntryBudget:  1160,
			ExitBudget:   1060,
			Profit:       -100,
			Reason:       backtest.ExitStopLoss,
		},
	}
}

func sampleLedger(t *testing.T) *backtest.Ledger {
	t.Helper()

	l, err := backtest.NewLedger(sampleTrades()...)
	require.NoError(t, err)
	return l
}

func sampleBars() []market.Bar {
	closes := []float64{100, 100, 104, 108, 110, 113, 111}

	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Time:  t0.Add(time.Duration(i) * time.Hour),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}

	return bars
}

package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trade(entryH, exitH int, entryBudget, profit float64) Trade {
	return Trade{
		Side:        SideLong,
		EntryTime:   t0.Add(time.Duration(entryH) * time.Hour),
		ExitTime:    t0.Add(time.Duration(exitH) * time.Hour),
		EntryBudget: entryBudget,
		Profit:      profit,
		ExitBudget:  entryBudget + profit,
	}
}

func TestNewLedger(t *testing.T) {
	l, err := NewLedger(trade(0, 2, 1000, 100), trade(3, 5, 1100, -50))
	require.NoError(t, err)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, []float64{1000, 1100, 1050}, l.Equity(1000))
}

func TestNewLedger_rejectsBrokenChain(t *testing.T) {
	_, err := NewLedger(trade(0, 2, 1000, 100), trade(3, 5, 1000, 10))
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestNewLedger_rejectsOverlap(t *testing.T) {
	_, err := NewLedger(trade(0, 4, 1000, 100), trade(3, 5, 1100, 10))
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestNewLedger_rejectsBadExitBudget(t *testing.T) {
	bad := trade(0, 1, 1000, 100)
	bad.ExitBudget = 1200
	_, err := NewLedger(bad)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestLedger_tradesIsACopy(t *testing.T) {
	l, err := NewLedger(trade(0, 1, 1000, 100))
	require.NoError(t, err)

	trades := l.Trades()
	trades[0].Profit = 0
	assert.Equal(t, 100.0, l.Trades()[0].Profit)
}

func TestLedger_recordChecksChain(t *testing.T) {
	l, err := NewLedger()
	require.NoError(t, err)
	require.NoError(t, l.record(trade(0, 2, 1000, 100)))

	err = l.record(trade(1, 3, 1100, 10))
	require.ErrorIs(t, err, ErrInvalidParameter)
	assert.Equal(t, 1, l.Len())
}

func TestLedger_nil(t *testing.T) {
	var l *Ledger
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, l.Trades())
	assert.Equal(t, []float64{10}, l.Equity(10))
}

func TestLedger_allStopsEarly(t *testing.T) {
	l, err := NewLedger(trade(0, 1, 1000, 1), trade(2, 3, 1001, 1), trade(4, 5, 1002, 1))
	require.NoError(t, err)

	var seen []int
	for i := range l.All() {
		seen = append(seen, i)
		if i == 1 {
			break
		}
	}
	assert.Equal(t, []int{0, 1}, seen)
}

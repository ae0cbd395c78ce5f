package backtest

import (
	"fmt"
	"iter"
	"slices"
)

// Ledger is the append-only record of closed trades of one run. Only the
// simulator appends to it; everybody else reads.
type Ledger struct {
	trades []Trade
}

// NewLedger rebuilds a ledger from trades, checking that budgets compound
// and that trades do not overlap.
func NewLedger(trades ...Trade) (*Ledger, error) {
	l := &Ledger{}
	for i, t := range trades {
		if err := l.record(t); err != nil {
			return nil, fmt.Errorf("trade %d: %w", i, err)
		}
	}

	return l, nil
}

func (l *Ledger) check(t Trade) error {
	if t.ExitBudget != t.EntryBudget+t.Profit {
		return fmt.Errorf("%w: exit budget %v != entry budget %v + profit %v", ErrInvalidParameter, t.ExitBudget, t.EntryBudget, t.Profit)
	}
	if t.ExitTime.Before(t.EntryTime) {
		return fmt.Errorf("%w: exit time precedes entry time", ErrInvalidParameter)
	}

	if len(l.trades) == 0 {
		return nil
	}

	prev := l.trades[len(l.trades)-1]
	if t.EntryBudget != prev.ExitBudget {
		return fmt.Errorf("%w: entry budget %v does not continue previous exit budget %v", ErrInvalidParameter, t.EntryBudget, prev.ExitBudget)
	}
	if t.EntryTime.Before(prev.ExitTime) {
		return fmt.Errorf("%w: trade overlaps the previous one", ErrInvalidParameter)
	}

	return nil
}

func (l *Ledger) record(t Trade) error {
	if err := l.check(t); err != nil {
		return err
	}

	l.trades = append(l.trades, t)
	return nil
}

func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.trades)
}

// Trades returns a copy of the recorded trades.
func (l *Ledger) Trades() []Trade {
	if l == nil {
		return nil
	}
	return slices.Clone(l.trades)
}

func (l *Ledger) All() iter.Seq2[int, Trade] {
	return func(yield func(int, Trade) bool) {
		if l == nil {
			return
		}
		for i, t := range l.trades {
			if !yield(i, t) {
				return
			}
		}
	}
}

// Equity returns the budget curve: the initial budget followed by the exit
// budget of every trade.
func (l *Ledger) Equity(initial float64) []float64 {
	eq := make([]float64, 0, l.Len()+1)
	eq = append(eq, initial)
	for _, t := range l.All() {
		eq = append(eq, t.ExitBudget)
	}

	return eq
}

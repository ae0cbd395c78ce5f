package backtest

import (
	"github.com/gamma-omg/atr-backtester/internal/market"
)

// State is the simulation state carried between bars. A nil Position
// means the machine is flat.
type State struct {
	Budget   float64
	Position *Position
}

func (s State) Flat() bool {
	return s.Position == nil
}

// Transition advances the machine by one bar and returns the closed trade,
// if any. An open position is checked for a level breach first; the bar that
// closes a position never opens a new one, and signals are ignored while a
// position is open. Inputs must already have passed ValidateInputs.
func Transition(st State, i int, bar market.Bar, sig market.Signal, atr float64, p Params) (State, *Trade) {
	if pos := st.Position; pos != nil {
		price, reason, ok := pos.exit(bar)
		if !ok {
			return st, nil
		}

		profit := pos.profit(price, p)
		t := &Trade{
			Side:         pos.Side,
			EntryTime:    pos.EntryTime,
			ExitTime:     bar.Time,
			EntryIndex:   pos.EntryIndex,
			ExitIndex:    i,
			EntryPrice:   pos.EntryPrice,
			ExitPrice:    price,
			TakeProfit:   pos.TakeProfit,
			StopLoss:     pos.StopLoss,
			HoldingHours: bar.Time.Sub(pos.EntryTime).Hours(),
			EntryBudget:  pos.EntryBudget,
			ExitBudget:   pos.EntryBudget + profit,
			Profit:       profit,
			Reason:       reason,
		}

		return State{Budget: t.ExitBudget}, t
	}

	side, ok := sideOf(sig)
	if !ok {
		return st, nil
	}

	return State{
		Budget:   st.Budget,
		Position: openPosition(side, i, bar, st.Budget, atr, p),
	}, nil
}

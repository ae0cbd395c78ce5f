package backtest

import (
	"fmt"
	"log/slog"

	"github.com/gamma-omg/atr-backtester/internal/market"
)

type Result struct {
	ATR         []float64
	Ledger      *Ledger
	FinalBudget float64
	// Open is the position still open after the last bar. It is not part
	// of the ledger or the statistics.
	Open *Position
}

type Simulator struct {
	log    *slog.Logger
	params Params
}

func NewSimulator(log *slog.Logger, p Params) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &Simulator{log: log, params: p}, nil
}

// ValidateInputs checks a bar/signal series before a run. Every bar with a
// non-flat signal is a potential entry, so its close must be positive.
func ValidateInputs(bars []market.Bar, signals []market.Signal) error {
	if len(bars) == 0 {
		return fmt.Errorf("%w: no bars to simulate", ErrEmptyInput)
	}
	if len(signals) != len(bars) {
		return fmt.Errorf("%w: got %d signals for %d bars", ErrInvalidParameter, len(signals), len(bars))
	}

	for i, b := range bars {
		if b.High < b.Low {
			return fmt.Errorf("%w: bar %d at %s has high %v below low %v", ErrInvalidBar, i, b.Time, b.High, b.Low)
		}

		sig := signals[i]
		if !sig.Valid() {
			return fmt.Errorf("bar %d: %w: %d", i, market.ErrInvalidSignal, sig)
		}
		if sig != market.SignalFlat && !(b.Close > 0) {
			return fmt.Errorf("%w: bar %d at %s has non-positive entry price %v", ErrInvalidBar, i, b.Time, b.Close)
		}
	}

	return nil
}

// Run walks the series once in order. It either completes over all bars or
// fails before the first trade is recorded.
func (s *Simulator) Run(bars []market.Bar, signals []market.Signal) (*Result, error) {
	if err := ValidateInputs(bars, signals); err != nil {
		return nil, err
	}

	atr, err := ATR(bars, s.params.ATRPeriod)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate atr: %w", err)
	}

	ledger, err := NewLedger()
	if err != nil {
		return nil, err
	}

	st := State{Budget: s.params.InitialBudget}
	for i, b := range bars {
		wasFlat := st.Flat()

		var t *Trade
		st, t = Transition(st, i, b, signals[i], atr[i], s.params)
		if t != nil {
			if err := ledger.record(*t); err != nil {
				return nil, fmt.Errorf("bar %d: failed to record trade: %w", i, err)
			}
			s.log.Debug("position closed",
				slog.String("side", t.Side.String()),
				slog.String("reason", string(t.Reason)),
				slog.Float64("entry_price", t.EntryPrice),
				slog.Float64("exit_price", t.ExitPrice),
				slog.Float64("profit", t.Profit),
				slog.Float64("budget", t.ExitBudget),
				slog.Time("exit_time", t.ExitTime))
		}

		if wasFlat && !st.Flat() {
			p := st.Position
			s.log.Debug("position opened",
				slog.String("side", p.Side.String()),
				slog.Float64("entry_price", p.EntryPrice),
				slog.Float64("take_profit", p.TakeProfit),
				slog.Float64("stop_loss", p.StopLoss),
				slog.Time("entry_time", p.EntryTime))
		}
	}

	return &Result{
		ATR:         atr,
		Ledger:      ledger,
		FinalBudget: st.Budget,
		Open:        st.Position,
	}, nil
}

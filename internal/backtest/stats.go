package backtest

import (
	"fmt"
	"time"

	"github.com/gamma-omg/atr-backtester/internal/market"
)

type Statistics struct {
	Period         time.Duration
	StartBudget    float64
	EndBudget      float64
	PeakBudget     float64
	FinalResultPct float64
	TradeCount     int
	TotalSignals   int
	Wins           int
	Losses         int
	WinRate        float64
	ProfitFactor   float64
	MaxDrawdownPct float64
	Trades         []Trade
}

// Aggregate derives the run summary from the series and the ledger. The end
// budget is the exit budget of the last trade, or the initial budget when
// nothing closed.
func Aggregate(bars []market.Bar, signals []market.Signal, ledger *Ledger, initialBudget float64) (Statistics, error) {
	if len(bars) == 0 {
		return Statistics{}, fmt.Errorf("%w: no bars to aggregate", ErrEmptyInput)
	}
	if len(signals) != len(bars) {
		return Statistics{}, fmt.Errorf("%w: got %d signals for %d bars", ErrInvalidParameter, len(signals), len(bars))
	}
	if !(initialBudget > 0) {
		return Statistics{}, fmt.Errorf("%w: initial budget must be positive, got %v", ErrInvalidParameter, initialBudget)
	}

	s := Statistics{
		Period:      bars[len(bars)-1].Time.Sub(bars[0].Time),
		StartBudget: initialBudget,
		EndBudget:   initialBudget,
		TradeCount:  ledger.Len(),
		Trades:      ledger.Trades(),
	}

	for _, sig := range signals {
		if sig != market.SignalFlat {
			s.TotalSignals++
		}
	}

	var grossProfit, grossLoss float64
	for _, t := range s.Trades {
		switch {
		case t.Profit > 0:
			s.Wins++
			grossProfit += t.Profit
		case t.Profit < 0:
			s.Losses++
			grossLoss -= t.Profit
		}
	}

	if n := len(s.Trades); n > 0 {
		s.EndBudget = s.Trades[n-1].ExitBudget
		s.WinRate = float64(s.Wins) / float64(n)
	}
	if grossLoss > 0 {
		s.ProfitFactor = grossProfit / grossLoss
	}

	peak := initialBudget
	for _, v := range ledger.Equity(initialBudget) {
		peak = max(peak, v)
		if dd := (peak - v) / peak * 100; dd > s.MaxDrawdownPct {
			s.MaxDrawdownPct = dd
		}
	}
	s.PeakBudget = peak
	s.FinalResultPct = (s.EndBudget - initialBudget) / initialBudget * 100

	return s, nil
}

package backtest

import (
	"fmt"
	"time"

	"github.com/gamma-omg/atr-backtester/internal/market"
)

type Side int8

const (
	SideLong  Side = 1
	SideShort Side = -1
)

func (s Side) String() string {
	switch s {
	case SideLong:
		return "long"
	case SideShort:
		return "short"
	default:
		return fmt.Sprintf("side_%d", s)
	}
}

func sideOf(s market.Signal) (Side, bool) {
	switch s {
	case market.SignalLong:
		return SideLong, true
	case market.SignalShort:
		return SideShort, true
	default:
		return 0, false
	}
}

type ExitReason string

const (
	ExitTakeProfit ExitReason = "take_profit"
	ExitStopLoss   ExitReason = "stop_loss"
)

type Position struct {
	Side        Side
	EntryPrice  float64
	EntryIndex  int
	EntryTime   time.Time
	EntryBudget float64
	TakeProfit  float64
	StopLoss    float64
}

func openPosition(side Side, i int, bar market.Bar, budget, atr float64, p Params) *Position {
	tp := atr * p.TPMultiplier
	sl := atr * p.SLMultiplier

	pos := &Position{
		Side:        side,
		EntryPrice:  bar.Close,
		EntryIndex:  i,
		EntryTime:   bar.Time,
		EntryBudget: budget,
	}

	if side == SideLong {
		pos.TakeProfit = bar.Close + tp
		pos.StopLoss = bar.Close - sl
	} else {
		pos.TakeProfit = bar.Close - tp
		pos.StopLoss = bar.Close + sl
	}

	return pos
}

// exit reports the fill level if the bar's range touches either level.
// When both are touched the take-profit level wins: OHLC data does not say
// which one came first.
func (p *Position) exit(bar market.Bar) (float64, ExitReason, bool) {
	var hitTP, hitSL bool
	if p.Side == SideLong {
		hitTP = bar.High >= p.TakeProfit
		hitSL = bar.Low <= p.StopLoss
	} else {
		hitTP = bar.Low <= p.TakeProfit
		hitSL = bar.High >= p.StopLoss
	}

	switch {
	case hitTP:
		return p.TakeProfit, ExitTakeProfit, true
	case hitSL:
		return p.StopLoss, ExitStopLoss, true
	default:
		return 0, "", false
	}
}

func (p *Position) profit(exitPrice float64, params Params) float64 {
	move := exitPrice - p.EntryPrice
	if p.Side == SideShort {
		move = p.EntryPrice - exitPrice
	}

	return move * float64(params.Leverage) * params.TradeFraction * p.EntryBudget / p.EntryPrice
}

// Trade is a closed position. It is never modified after the ledger
// receives it.
type Trade struct {
	Side         Side
	EntryTime    time.Time
	ExitTime     time.Time
	EntryIndex   int
	ExitIndex    int
	EntryPrice   float64
	ExitPrice    float64
	TakeProfit   float64
	StopLoss     float64
	HoldingHours float64
	EntryBudget  float64
	ExitBudget   float64
	Profit       float64
	Reason       ExitReason
}

package runner

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/gamma-omg/atr-backtester/internal/config"
	"github.com/gamma-omg/atr-backtester/internal/market"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

const (
	L = market.SignalLong
	S = market.SignalShort
	F = market.SignalFlat
)

type mockBarsSource struct {
	bars     []market.Bar
	interval time.Duration
	err      error
}

func (m *mockBarsSource) GetBars(ctx context.Context, symbol string) ([]market.Bar, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.bars, ctx.Err()
}

func (m *mockBarsSource) Interval() time.Duration {
	return m.interval
}

type fixedSignals struct {
	signals []market.Signal
}

func (f *fixedSignals) Signals(bars []market.Bar) ([]market.Signal, error) {
	if f.signals == nil {
		return make([]market.Signal, len(bars)), nil
	}
	return f.signals, nil
}

// scenarioBars closes a long at take profit on bar 2 and a short at take
// profit on bar 4 with the scenario signals and levels 2/1.
func scenarioBars() []market.Bar {
	rows := [][4]float64{
		{100, 102, 98, 100},
		{100, 105, 99, 103},
		{103, 109, 97, 107},
		{107, 108, 106, 107},
		{107, 110, 102, 103},
		{103, 104, 100, 101},
		{101, 103, 99, 102},
	}

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

func scenarioSignals() []market.Signal {
	return []market.Signal{L, S, L, S, F, L, F}
}

func testConfig(symbols ...string) config.Config {
	return config.Config{
		Symbols: symbols,
		Backtest: config.Backtest{
			InitialBudget: 1000,
			TradeFraction: 0.2,
			Leverage:      10,
			ATRPeriod:     1,
			TakeProfit:    2,
			StopLoss:      1,
		},
		StrategyRef: config.IndicatorReference{Indicator: config.EMACross{Period: 3}},
	}
}

func newTestRunner(t *testing.T, cfg config.Config, src barsSource, sig signalProducer) *Runner {
	t.Helper()

	r, err := NewRunner(slog.New(slog.DiscardHandler), cfg, src)
	require.NoError(t, err)
	r.signals = sig

	return r
}

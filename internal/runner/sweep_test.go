package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gamma-omg/atr-backtester/internal/config"
	"github.com/gamma-omg/atr-backtester/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep(t *testing.T) {
	cfg := testConfig("BTCUSDT", "ETHUSDT")
	cfg.Sweep = []config.Levels{
		{TakeProfit: 2, StopLoss: 1},
		{TakeProfit: 100, StopLoss: 100},
	}

	r := newTestRunner(t, cfg,
		&mockBarsSource{bars: scenarioBars(), interval: time.Hour},
		&fixedSignals{signals: scenarioSignals()})

	rows, err := r.Sweep(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 4)

	for i, symbol := range []string{"BTCUSDT", "ETHUSDT"} {
		tight, wide := rows[2*i], rows[2*i+1]

		assert.Equal(t, symbol, tight.Symbol)
		assert.Equal(t, 2.0, tight.TakeProfit)
		assert.Equal(t, 2, tight.TradeCount)
		assert.Equal(t, 5, tight.TotalSignals)
		assert.InDelta(t, 1160+4*10*0.2*1160.0/107, tight.EndBudget, 1e-9)

		assert.Equal(t, symbol, wide.Symbol)
		assert.Equal(t, 100.0, wide.TakeProfit)
		assert.Equal(t, 0, wide.TradeCount)
		assert.Equal(t, 1000.0, wide.EndBudget)
		assert.Equal(t, 0.0, wide.FinalResultPct)
	}
}

func TestSweep_defaultsToBacktestLevels(t *testing.T) {
	r := newTestRunner(t, testConfig("BTCUSDT"),
		&mockBarsSource{bars: scenarioBars(), interval: time.Hour},
		&fixedSignals{signals: scenarioSignals()})

	rows, err := r.Sweep(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2.0, rows[0].TakeProfit)
	assert.Equal(t, 1.0, rows[0].StopLoss)
	assert.Equal(t, 2, rows[0].TradeCount)
}

func TestSweep_rowsSorted(t *testing.T) {
	cfg := testConfig("ETHUSDT", "BTCUSDT")
	for _, tp := range []float64{6, 5, 4, 3, 2} {
		cfg.Sweep = append(cfg.Sweep, config.Levels{TakeProfit: tp, StopLoss: 1})
	}

	r := newTestRunner(t, cfg,
		&mockBarsSource{bars: scenarioBars(), interval: time.Hour},
		&fixedSignals{signals: scenarioSignals()})

	rows, err := r.Sweep(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 10)

	var got []string
	for _, row := range rows {
		got = append(got, fmt.Sprintf("%s/%v", row.Symbol, row.TakeProfit))
	}
	assert.Equal(t, []string{
		"BTCUSDT/2", "BTCUSDT/3", "BTCUSDT/4", "BTCUSDT/5", "BTCUSDT/6",
		"ETHUSDT/2", "ETHUSDT/3", "ETHUSDT/4", "ETHUSDT/5", "ETHUSDT/6",
	}, got)
}

func TestSweep_invalidLevels(t *testing.T) {
	cfg := testConfig("BTCUSDT")
	cfg.Sweep = []config.Levels{{TakeProfit: 2, StopLoss: 0}}

	r := newTestRunner(t, cfg,
		&mockBarsSource{bars: scenarioBars(), interval: time.Hour},
		&fixedSignals{signals: scenarioSignals()})

	_, err := r.Sweep(context.Background())
	assert.Error(t, err)
}

func TestSweep_writesTable(t *testing.T) {
	dir := t.TempDir()

	cfg := testConfig("BTCUSDT")
	cfg.Report.Dir = dir
	cfg.Sweep = []config.Levels{{TakeProfit: 2, StopLoss: 1}, {TakeProfit: 3, StopLoss: 1}}

	r := newTestRunner(t, cfg,
		&mockBarsSource{bars: scenarioBars(), interval: time.Hour},
		&fixedSignals{signals: scenarioSignals()})

	_, err := r.Sweep(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "sweep.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], r.RunID().String()+",BTCUSDT,2,1,"))
	assert.True(t, strings.HasPrefix(lines[2], r.RunID().String()+",BTCUSDT,3,1,"))
}

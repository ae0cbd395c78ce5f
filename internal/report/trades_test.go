package report

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gamma-omg/atr-backtester/internal/backtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	var buff bytes.Buffer
	d := NewCsvTradesDump(&buff)
	for _, tr := range sampleTrades() {
		require.NoError(t, d.Dump(tr))
	}

	assert.Equal(t, `side,entry_time,exit_time,entry_index,exit_index,entry_price,exit_price,take_profit,stop_loss,holding_hours,entry_budget,exit_budget,profit,reason
long,2024-01-01T01:00:00Z,2024-01-01T03:00:00Z,1,3,100,108,108,94,2,1000,1160,160,take_profit
short,2024-01-01T04:00:00Z,2024-01-01T05:00:00Z,4,5,110,113,104,113,1,1160,1060,-100,stop_loss
`, buff.String())
}

func TestDump_emptyLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	require.NoError(t, WriteTradesFile(slog.New(slog.DiscardHandler), path, &backtest.Ledger{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "side,entry_time,exit_time,entry_index,exit_index,entry_price,exit_price,take_profit,stop_loss,holding_hours,entry_budget,exit_budget,profit,reason\n", string(data))
}

func TestWriteTradesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "BTCUSDT_trades.csv")
	require.NoError(t, WriteTradesFile(slog.New(slog.DiscardHandler), path, sampleLedger(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, bytes.Split(bytes.TrimSpace(data), []byte("\n")), 3)
}

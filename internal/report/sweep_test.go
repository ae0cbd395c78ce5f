package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSweep(t *testing.T) {
	rows := []SweepRow{
		{Symbol: "ETHUSDT", TakeProfit: 2, StopLoss: 1, EndBudget: 990.5, TotalSignals: 4, TradeCount: 2, FinalResultPct: -0.95},
		{Symbol: "BTCUSDT", TakeProfit: 2.3, StopLoss: 1.8, EndBudget: 1100, TotalSignals: 5, TradeCount: 3, FinalResultPct: 10},
		{Symbol: "BTCUSDT", TakeProfit: 2, StopLoss: 1.5, EndBudget: 1000, TotalSignals: 5, TradeCount: 0, FinalResultPct: 0},
	}

	SortSweep(rows)

	var buff bytes.Buffer
	require.NoError(t, WriteSweep(&buff, runID, rows))

	assert.Equal(t, `run_id,symbol,take_profit,stop_loss,end_budget,total_signals,amount_trades,final_result_percentage
6f1c2b1e-8d3a-4c4e-9a57-0c2f3b5d7e91,BTCUSDT,2,1.5,1000,5,0,0.0000
6f1c2b1e-8d3a-4c4e-9a57-0c2f3b5d7e91,BTCUSDT,2.3,1.8,1100,5,3,10.0000
6f1c2b1e-8d3a-4c4e-9a57-0c2f3b5d7e91,ETHUSDT,2,1,990.5,4,2,-0.9500
`, buff.String())

	assert.Equal(t, "ETHUSDT", rows[2].Symbol)
}

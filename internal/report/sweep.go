package report

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"

	"github.com/google/uuid"
)

type SweepRow struct {
	Symbol         string
	TakeProfit     float64
	StopLoss       float64
	EndBudget      float64
	TotalSignals   int
	TradeCount     int
	FinalResultPct float64
}

// SortSweep orders rows by symbol and then by the multipliers.
func SortSweep(rows []SweepRow) {
	slices.SortFunc(rows, func(a, b SweepRow) int {
		return cmp.Or(
			cmp.Compare(a.Symbol, b.Symbol),
			cmp.Compare(a.TakeProfit, b.TakeProfit),
			cmp.Compare(a.StopLoss, b.StopLoss),
		)
	})
}

// WriteSweep writes one row per (symbol, take profit, stop loss) run in the
// given order.
func WriteSweep(w io.Writer, runID uuid.UUID, rows []SweepRow) error {
	cw := csv.NewWriter(w)
	err := cw.Write([]string{
		"run_id", "symbol", "take_profit", "stop_loss", "end_budget",
		"total_signals", "amount_trades", "final_result_percentage",
	})
	if err != nil {
		return fmt.Errorf("failed to write sweep header: %w", err)
	}

	id := runID.String()
	for _, r := range rows {
		err := cw.Write([]string{
			id,
			r.Symbol,
			formatFloat(r.TakeProfit),
			formatFloat(r.StopLoss),
			Money(r.EndBudget),
			strconv.Itoa(r.TotalSignals),
			strconv.Itoa(r.TradeCount),
			strconv.FormatFloat(r.FinalResultPct, 'f', 4, 64),
		})
		if err != nil {
			return fmt.Errorf("failed to write sweep row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func WriteSweepFile(log *slog.Logger, path string, runID uuid.UUID, rows []SweepRow) error {
	return writeFile(log, path, func(w io.Writer) error {
		return WriteSweep(w, runID, rows)
	})
}

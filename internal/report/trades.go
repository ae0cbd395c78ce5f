package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/gamma-omg/atr-backtester/internal/backtest"
)

var tradesHeader = []string{
	"side", "entry_time", "exit_time", "entry_index", "exit_index",
	"entry_price", "exit_price", "take_profit", "stop_loss", "holding_hours",
	"entry_budget", "exit_budget", "profit", "reason",
}

type CsvTradesDump struct {
	w           *csv.Writer
	writeHeader bool
}

func NewCsvTradesDump(w io.Writer) *CsvTradesDump {
	return &CsvTradesDump{csv.NewWriter(w), true}
}

func (d *CsvTradesDump) Dump(t backtest.Trade) error {
	if d.writeHeader {
		if err := d.w.Write(tradesHeader); err != nil {
			return fmt.Errorf("failed to write trades csv header: %w", err)
		}
		d.writeHeader = false
	}

	err := d.w.Write([]string{
		t.Side.String(),
		t.EntryTime.UTC().Format(time.RFC3339),
		t.ExitTime.UTC().Format(time.RFC3339),
		strconv.Itoa(t.EntryIndex),
		strconv.Itoa(t.ExitIndex),
		formatFloat(t.EntryPrice),
		formatFloat(t.ExitPrice),
		formatFloat(t.TakeProfit),
		formatFloat(t.StopLoss),
		formatFloat(t.HoldingHours),
		Money(t.EntryBudget),
		Money(t.ExitBudget),
		Money(t.Profit),
		string(t.Reason),
	})
	if err != nil {
		return fmt.Errorf("failed to dump trade: %w", err)
	}

	d.w.Flush()
	return d.w.Error()
}

// Flush writes the header of an empty ledger.
func (d *CsvTradesDump) Flush() error {
	if d.writeHeader {
		if err := d.w.Write(tradesHeader); err != nil {
			return fmt.Errorf("failed to write trades csv header: %w", err)
		}
		d.writeHeader = false
	}

	d.w.Flush()
	return d.w.Error()
}

func WriteTradesFile(log *slog.Logger, path string, ledger *backtest.Ledger) error {
	return writeFile(log, path, func(w io.Writer) error {
		d := NewCsvTradesDump(w)
		for _, t := range ledger.All() {
			if err := d.Dump(t); err != nil {
				return err
			}
		}

		return d.Flush()
	})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gamma-omg/atr-backtester/internal/backtest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type JsonReportBuilder struct {
	log    *slog.Logger
	report JsonReport
	mu     sync.Mutex
}

type JsonReport struct {
	RunID   string                `json:"run_id"`
	Symbols map[string]JsonSymbol `json:"symbols,omitempty"`
}

type JsonParams struct {
	InitialBudget string  `json:"initial_budget"`
	TradeFraction float64 `json:"trade_fraction"`
	Leverage      int     `json:"leverage"`
	ATRPeriod     int     `json:"atr_period"`
	TakeProfit    float64 `json:"take_profit"`
	StopLoss      float64 `json:"stop_loss"`
}

type JsonSymbol struct {
	Params         JsonParams  `json:"params"`
	Period         string      `json:"period"`
	StartBudget    string      `json:"start_budget"`
	EndBudget      string      `json:"end_budget"`
	PeakBudget     string      `json:"peak_budget"`
	FinalResultPct float64     `json:"final_result_percentage"`
	AmountTrades   int         `json:"amount_trades"`
	TotalSignals   int         `json:"total_signals"`
	Wins           int         `json:"wins"`
	Losses         int         `json:"losses"`
	WinRate        float64     `json:"win_rate"`
	ProfitFactor   float64     `json:"profit_factor"`
	MaxDrawdownPct float64     `json:"max_drawdown_pct"`
	Trades         []JsonTrade `json:"trades"`
}

type JsonTrade struct {
	Side         string    `json:"side"`
	EntryTime    time.Time `json:"entry_time"`
	ExitTime     time.Time `json:"exit_time"`
	EntryPrice   float64   `json:"entry_price"`
	ExitPrice    float64   `json:"exit_price"`
	TakeProfit   float64   `json:"take_profit"`
	StopLoss     float64   `json:"stop_loss"`
	HoldingHours float64   `json:"holding_hours"`
	Budget       string    `json:"budget"`
	Profit       string    `json:"profit"`
	Reason       string    `json:"reason"`
}

func NewJsonReportBuilder(log *slog.Logger, runID uuid.UUID) *JsonReportBuilder {
	return &JsonReportBuilder{
		log: log,
		report: JsonReport{
			RunID:   runID.String(),
			Symbols: map[string]JsonSymbol{},
		},
	}
}

func (r *JsonReportBuilder) Submit(symbol string, p backtest.Params, s backtest.Statistics) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trades := make([]JsonTrade, len(s.Trades))
	for i, t := range s.Trades {
		trades[i] = JsonTrade{
			Side:         t.Side.String(),
			EntryTime:    t.EntryTime,
			ExitTime:     t.ExitTime,
			EntryPrice:   t.EntryPrice,
			ExitPrice:    t.ExitPrice,
			TakeProfit:   t.TakeProfit,
			StopLoss:     t.StopLoss,
			HoldingHours: t.HoldingHours,
			Budget:       Money(t.ExitBudget),
			Profit:       Money(t.Profit),
			Reason:       string(t.Reason),
		}
	}

	r.report.Symbols[symbol] = JsonSymbol{
		Params: JsonParams{
			InitialBudget: Money(p.InitialBudget),
			TradeFraction: p.TradeFraction,
			Leverage:      p.Leverage,
			ATRPeriod:     p.ATRPeriod,
			TakeProfit:    p.TPMultiplier,
			StopLoss:      p.SLMultiplier,
		},
		Period:         s.Period.String(),
		StartBudget:    Money(s.StartBudget),
		EndBudget:      Money(s.EndBudget),
		PeakBudget:     Money(s.PeakBudget),
		FinalResultPct: s.FinalResultPct,
		AmountTrades:   s.TradeCount,
		TotalSignals:   s.TotalSignals,
		Wins:           s.Wins,
		Losses:         s.Losses,
		WinRate:        s.WinRate,
		ProfitFactor:   s.ProfitFactor,
		MaxDrawdownPct: s.MaxDrawdownPct,
		Trades:         trades,
	}

	r.log.Info("backtest finished",
		slog.String("symbol", symbol),
		slog.String("end_budget", Money(s.EndBudget)),
		slog.Float64("result_pct", s.FinalResultPct),
		slog.Int("trades", s.TradeCount),
		slog.Int("signals", s.TotalSignals))
}

func (r *JsonReportBuilder) Write(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	if err := e.Encode(r.report); err != nil {
		return fmt.Errorf("failed to write backtest report: %w", err)
	}

	return nil
}

func (r *JsonReportBuilder) WriteFile(path string) error {
	return writeFile(r.log, path, r.Write)
}

// Money renders a budget amount as an exact decimal string with at most
// eight fractional digits.
func Money(v float64) string {
	return decimal.NewFromFloat(v).Round(8).String()
}

// FileName builds a file name for a per-symbol artifact. Path separators in
// the symbol (BTC/USD) are replaced.
func FileName(symbol, suffix string) string {
	s := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(symbol)
	return s + "_" + suffix
}

func writeFile(log *slog.Logger, path string, write func(w io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close report file: %w", cerr))
		}
	}()

	if err := write(f); err != nil {
		return err
	}

	log.Info("report written", slog.String("path", path))
	return nil
}

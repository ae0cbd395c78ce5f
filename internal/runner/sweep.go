package runner

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/gamma-omg/atr-backtester/internal/backtest"
	"github.com/gamma-omg/atr-backtester/internal/config"
	"github.com/gamma-omg/atr-backtester/internal/market"
	"github.com/gamma-omg/atr-backtester/internal/report"
	"golang.org/x/sync/errgroup"
)

type symbolSeries struct {
	symbol  string
	bars    []market.Bar
	signals []market.Signal
}

// Sweep runs every symbol over each configured (take profit, stop loss)
// pair. Series are loaded once per symbol and shared read-only by the grid.
// Without a sweep section the backtest levels form a single grid point.
func (r *Runner) Sweep(ctx context.Context) ([]report.SweepRow, error) {
	levels := r.cfg.Sweep
	if len(levels) == 0 {
		levels = []config.Levels{{TakeProfit: r.cfg.Backtest.TakeProfit, StopLoss: r.cfg.Backtest.StopLoss}}
	}

	series := make([]symbolSeries, len(r.cfg.Symbols))
	g, gctx := errgroup.WithContext(ctx)
	for i, symbol := range r.cfg.Symbols {
		g.Go(func() error {
			bars, signals, err := r.series(gctx, symbol)
			if err != nil {
				return fmt.Errorf("%s: %w", symbol, err)
			}

			series[i] = symbolSeries{symbol: symbol, bars: bars, signals: signals}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	rows := make([]report.SweepRow, 0, len(series)*len(levels))

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, s := range series {
		for _, lv := range levels {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				row, err := r.sweepPoint(s, lv)
				if err != nil {
					return fmt.Errorf("%s tp=%v sl=%v: %w", s.symbol, lv.TakeProfit, lv.StopLoss, err)
				}

				mu.Lock()
				rows = append(rows, row)
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	report.SortSweep(rows)

	r.log.Info("sweep finished",
		slog.Int("symbols", len(series)),
		slog.Int("grid", len(levels)),
		slog.String("run_id", r.runID.String()))

	if r.cfg.Report.Dir != "" {
		path := filepath.Join(r.cfg.Report.Dir, "sweep.csv")
		if err := report.WriteSweepFile(r.log, path, r.runID, rows); err != nil {
			return nil, err
		}
	}

	return rows, nil
}

func (r *Runner) sweepPoint(s symbolSeries, lv config.Levels) (report.SweepRow, error) {
	p := r.params
	p.TPMultiplier = lv.TakeProfit
	p.SLMultiplier = lv.StopLoss

	log := r.log.With(
		slog.String("symbol", s.symbol),
		slog.Float64("take_profit", lv.TakeProfit),
		slog.Float64("stop_loss", lv.StopLoss))

	sim, err := backtest.NewSimulator(log, p)
	if err != nil {
		return report.SweepRow{}, err
	}

	res, err := sim.Run(s.bars, s.signals)
	if err != nil {
		return report.SweepRow{}, fmt.Errorf("failed to simulate: %w", err)
	}

	stats, err := backtest.Aggregate(s.bars, s.signals, res.Ledger, p.InitialBudget)
	if err != nil {
		return report.SweepRow{}, fmt.Errorf("failed to aggregate statistics: %w", err)
	}

	log.Debug("sweep point finished",
		slog.Float64("result_pct", stats.FinalResultPct),
		slog.Int("trades", stats.TradeCount))

	return report.SweepRow{
		Symbol:         s.symbol,
		TakeProfit:     lv.TakeProfit,
		StopLoss:       lv.StopLoss,
		EndBudget:      stats.EndBudget,
		TotalSignals:   stats.TotalSignals,
		TradeCount:     stats.TradeCount,
		FinalResultPct: stats.FinalResultPct,
	}, nil
}

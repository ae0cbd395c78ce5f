package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/gamma-omg/atr-backtester/internal/backtest"
	"github.com/gamma-omg/atr-backtester/internal/config"
	"github.com/gamma-omg/atr-backtester/internal/market"
	"github.com/gamma-omg/atr-backtester/internal/report"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type barsSource interface {
	GetBars(ctx context.Context, symbol string) ([]market.Bar, error)
	Interval() time.Duration
}

type signalProducer interface {
	Signals(bars []market.Bar) ([]market.Signal, error)
}

type barAggregator interface {
	Aggregate(bars <-chan market.Bar) <-chan market.Bar
}

// Runner backtests every configured symbol against one strategy.
type Runner struct {
	log     *slog.Logger
	cfg     config.Config
	params  backtest.Params
	bars    barsSource
	signals signalProducer
	runID   uuid.UUID
}

func NewRunner(log *slog.Logger, cfg config.Config, bars barsSource) (*Runner, error) {
	if len(cfg.Symbols) == 0 {
		return nil, errors.New("no symbols configured")
	}

	params := newParams(cfg.Backtest)
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backtest config: %w", err)
	}

	if cfg.Resample > 0 {
		iv := bars.Interval()
		if iv <= 0 {
			return nil, errors.New("resampling requires the source bar interval")
		}
		if cfg.Resample < iv || cfg.Resample%iv != 0 {
			return nil, fmt.Errorf("resample interval %s is not a multiple of the source interval %s", cfg.Resample, iv)
		}
	}

	signals, err := createIndicator(cfg.StrategyRef)
	if err != nil {
		return nil, fmt.Errorf("failed to create strategy: %w", err)
	}

	return &Runner{
		log:     log,
		cfg:     cfg,
		params:  params,
		bars:    bars,
		signals: signals,
		runID:   uuid.New(),
	}, nil
}

func (r *Runner) RunID() uuid.UUID {
	return r.runID
}

// Run backtests all symbols concurrently. The first failing symbol cancels
// the rest.
func (r *Runner) Run(ctx context.Context) (map[string]backtest.Statistics, error) {
	builder := report.NewJsonReportBuilder(r.log, r.runID)

	var mu sync.Mutex
	results := make(map[string]backtest.Statistics, len(r.cfg.Symbols))

	g, ctx := errgroup.WithContext(ctx)
	for _, symbol := range r.cfg.Symbols {
		g.Go(func() error {
			s, err := r.runSymbol(ctx, symbol, builder)
			if err != nil {
				return fmt.Errorf("%s: %w", symbol, err)
			}

			mu.Lock()
			results[symbol] = s
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if r.cfg.Report.Dir != "" {
		if err := builder.WriteFile(filepath.Join(r.cfg.Report.Dir, "report.json")); err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (r *Runner) runSymbol(ctx context.Context, symbol string, builder *report.JsonReportBuilder) (backtest.Statistics, error) {
	bars, signals, err := r.series(ctx, symbol)
	if err != nil {
		return backtest.Statistics{}, err
	}

	log := r.log.With(slog.String("symbol", symbol))
	sim, err := backtest.NewSimulator(log, r.params)
	if err != nil {
		return backtest.Statistics{}, err
	}

	res, err := sim.Run(bars, signals)
	if err != nil {
		return backtest.Statistics{}, fmt.Errorf("failed to simulate: %w", err)
	}

	stats, err := backtest.Aggregate(bars, signals, res.Ledger, r.params.InitialBudget)
	if err != nil {
		return backtest.Statistics{}, fmt.Errorf("failed to aggregate statistics: %w", err)
	}
	builder.Submit(symbol, r.params, stats)

	if res.Open != nil {
		log.Info("position left open",
			slog.String("side", res.Open.Side.String()),
			slog.Float64("entry_price", res.Open.EntryPrice),
			slog.Time("entry_time", res.Open.EntryTime))
	}

	if err := r.writeArtifacts(symbol, bars, res.Ledger); err != nil {
		return backtest.Statistics{}, err
	}

	return stats, nil
}

func (r *Runner) writeArtifacts(symbol string, bars []market.Bar, ledger *backtest.Ledger) error {
	dir := r.cfg.Report.Dir
	if dir == "" {
		return nil
	}

	if r.cfg.Report.TradesCSV {
		path := filepath.Join(dir, report.FileName(symbol, "trades.csv"))
		if err := report.WriteTradesFile(r.log, path, ledger); err != nil {
			return err
		}
	}

	if r.cfg.Report.Chart {
		c, err := report.TradeChart(symbol, bars, ledger, r.params.InitialBudget)
		if err != nil {
			return fmt.Errorf("failed to build chart: %w", err)
		}
		if err := c.Save(r.log, filepath.Join(dir, report.FileName(symbol, "chart.png"))); err != nil {
			return err
		}
	}

	return nil
}

// series loads the bars of a symbol, resamples them if configured and runs
// the strategy over them.
func (r *Runner) aggregator() barAggregator {
	if r.cfg.Resample > 0 {
		return &market.IntervalAggregator{
			BarDuration: r.bars.Interval(),
			Interval:    r.cfg.Resample,
		}
	}

	return &market.IdentityAggregator{}
}

func (r *Runner) series(ctx context.Context, symbol string) ([]market.Bar, []market.Signal, error) {
	bars, err := r.bars.GetBars(ctx, symbol)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, nil, fmt.Errorf("%w: no bars for %s", backtest.ErrEmptyInput, symbol)
	}

	n := len(bars)
	bars = market.Resample(r.aggregator(), bars)
	if r.cfg.Resample > 0 {
		r.log.Debug("bars resampled",
			slog.String("symbol", symbol),
			slog.Int("from", n),
			slog.Int("to", len(bars)),
			slog.Duration("interval", r.cfg.Resample))
	}

	signals, err := r.signals.Signals(bars)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate signals: %w", err)
	}

	return bars, signals, nil
}

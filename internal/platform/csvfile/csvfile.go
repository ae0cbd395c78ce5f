package csvfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gamma-omg/atr-backtester/internal/config"
	"github.com/gamma-omg/atr-backtester/internal/market"
)

var ErrUnknownSymbol = errors.New("no data file for symbol")

// Source loads bars from one csv file per symbol.
type Source struct {
	log *slog.Logger
	cfg config.CSV
}

func NewSource(log *slog.Logger, cfg config.CSV) (*Source, error) {
	if len(cfg.Data) == 0 {
		return nil, errors.New("csv source has no data files")
	}
	if !cfg.Start.IsZero() && !cfg.End.IsZero() && !cfg.Start.Before(cfg.End) {
		return nil, fmt.Errorf("csv source start %s is not before end %s", cfg.Start, cfg.End)
	}

	return &Source{log: log, cfg: cfg}, nil
}

func (s *Source) GetBars(ctx context.Context, symbol string) ([]market.Bar, error) {
	path, ok := s.cfg.Data[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bar data: %w", err)
	}
	defer f.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var bars []market.Bar
	for r := range newBarReaderWithFilter(f, s.inRange).Read(ctx) {
		if r.err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, r.err)
		}

		if n := len(bars); n > 0 && !bars[n-1].Time.Before(r.bar.Time) {
			return nil, fmt.Errorf("bars in %s are not in chronological order at %s", path, r.bar.Time)
		}
		bars = append(bars, r.bar)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.log.Info("bars loaded",
		slog.String("symbol", symbol),
		slog.String("file", path),
		slog.Int("count", len(bars)))

	return bars, nil
}

func (s *Source) inRange(b market.Bar) bool {
	if !s.cfg.Start.IsZero() && b.Time.Before(s.cfg.Start) {
		return false
	}
	if !s.cfg.End.IsZero() && !b.Time.Before(s.cfg.End) {
		return false
	}

	return true
}

// Interval is the native bar duration of the data files.
func (s *Source) Interval() time.Duration {
	return s.cfg.Interval
}

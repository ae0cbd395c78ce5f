package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	ch "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/gamma-omg/atr-backtester/internal/config"
	"github.com/gamma-omg/atr-backtester/internal/market"
	"github.com/gamma-omg/atr-backtester/internal/platform/common"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type querier interface {
	Query(ctx context.Context, query string, args ...any) (rows, error)
	Close() error
}

type conn struct {
	conn ch.Conn
}

func (c *conn) Query(ctx context.Context, query string, args ...any) (rows, error) {
	r, err := c.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (c *conn) Close() error {
	return c.conn.Close()
}

// Source reads candles from a table with the kline ingestion layout:
// symbol, interval, open_time_ms, open, high, low, close, volume.
type Source struct {
	log      *slog.Logger
	cfg      config.ClickHouse
	interval string
	db       querier
}

func NewSource(log *slog.Logger, cfg config.ClickHouse) (*Source, error) {
	interval, err := common.IntervalCode(cfg.Interval)
	if err != nil {
		return nil, fmt.Errorf("failed to create clickhouse source: %w", err)
	}
	if !identifier.MatchString(cfg.Database) || !identifier.MatchString(cfg.Table) {
		return nil, fmt.Errorf("invalid clickhouse table name %q.%q", cfg.Database, cfg.Table)
	}
	if cfg.Start.IsZero() {
		return nil, errors.New("clickhouse source requires a start time")
	}
	if !cfg.End.IsZero() && !cfg.Start.Before(cfg.End) {
		return nil, fmt.Errorf("clickhouse source start %s is not before end %s", cfg.Start, cfg.End)
	}

	c, err := ch.Open(&ch.Options{
		Addr: []string{cfg.Addr},
		Auth: ch.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Settings: ch.Settings{
			"max_execution_time": 60,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open clickhouse connection: %w", err)
	}

	return &Source{
		log:      log,
		cfg:      cfg,
		interval: interval,
		db:       &conn{conn: c},
	}, nil
}

// Close releases the connection pool.
func (s *Source) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close clickhouse connection: %w", err)
	}
	return nil
}

func (s *Source) Interval() time.Duration {
	return s.cfg.Interval
}

func (s *Source) GetBars(ctx context.Context, symbol string) ([]market.Bar, error) {
	end := s.cfg.End
	if end.IsZero() {
		end = time.Now().UTC()
	}

	query := fmt.Sprintf(`
		SELECT open_time_ms, open, high, low, close, volume
		FROM %s.%s FINAL
		WHERE symbol = ? AND interval = ? AND open_time_ms >= ? AND open_time_ms < ?
		ORDER BY open_time_ms`, s.cfg.Database, s.cfg.Table)

	rs, err := s.db.Query(ctx, query, symbol, s.interval, uint64(s.cfg.Start.UnixMilli()), uint64(end.UnixMilli()))
	if err != nil {
		return nil, fmt.Errorf("failed to query candles: %w", err)
	}
	defer rs.Close()

	var bars []market.Bar
	for rs.Next() {
		var (
			ms  uint64
			bar market.Bar
		)
		if err := rs.Scan(&ms, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan candle: %w", err)
		}

		bar.Time = time.UnixMilli(int64(ms)).UTC()
		bars = append(bars, bar)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candles: %w", err)
	}

	s.log.Info("bars loaded",
		slog.String("symbol", symbol),
		slog.String("table", s.cfg.Database+"."+s.cfg.Table),
		slog.Int("count", len(bars)))

	return bars, nil
}

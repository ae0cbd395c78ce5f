package platform

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gamma-omg/atr-backtester/internal/config"
	"github.com/gamma-omg/atr-backtester/internal/market"
	"github.com/gamma-omg/atr-backtester/internal/platform/alpaca"
	"github.com/gamma-omg/atr-backtester/internal/platform/binance"
	"github.com/gamma-omg/atr-backtester/internal/platform/clickhouse"
	"github.com/gamma-omg/atr-backtester/internal/platform/csvfile"
)

type barsSource interface {
	GetBars(ctx context.Context, symbol string) ([]market.Bar, error)
	Interval() time.Duration
}

func Create(log *slog.Logger, ref config.SourceReference) (barsSource, error) {
	var (
		src barsSource
		err error
	)

	switch cfg := ref.Source.(type) {
	case config.CSV:
		src, err = csvfile.NewSource(log, cfg)
	case config.Binance:
		src, err = binance.NewSource(log, cfg)
	case config.Alpaca:
		src, err = alpaca.NewAlpacaSource(log, cfg)
	case config.ClickHouse:
		src, err = clickhouse.NewSource(log, cfg)
	default:
		return nil, errors.New("unknown bar source")
	}
	if err != nil {
		return nil, err
	}

	return src, nil
}

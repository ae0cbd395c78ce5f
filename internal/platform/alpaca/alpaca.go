package alpaca

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/gamma-omg/atr-backtester/internal/config"
	"github.com/gamma-omg/atr-backtester/internal/market"
)

// AlpacaSource loads historical crypto bars from the Alpaca market data API.
type AlpacaSource struct {
	log       *slog.Logger
	cfg       config.Alpaca
	timeframe marketdata.TimeFrame
	api       alpacaApi
}

func NewAlpacaSource(log *slog.Logger, cfg config.Alpaca) (*AlpacaSource, error) {
	tf, err := timeFrame(cfg.Timeframe)
	if err != nil {
		return nil, fmt.Errorf("failed to create alpaca source: %w", err)
	}
	if cfg.Start.IsZero() {
		return nil, errors.New("alpaca source requires a start time")
	}
	if !cfg.End.IsZero() && !cfg.Start.Before(cfg.End) {
		return nil, fmt.Errorf("alpaca source start %s is not before end %s", cfg.Start, cfg.End)
	}

	return &AlpacaSource{
		log:       log,
		cfg:       cfg,
		timeframe: tf,
		api:       newMarketDataApi(cfg.ApiKey, cfg.Secret, cfg.BaseUrl),
	}, nil
}

func (ap *AlpacaSource) Interval() time.Duration {
	return ap.cfg.Timeframe
}

func (ap *AlpacaSource) GetBars(ctx context.Context, symbol string) ([]market.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	history, err := ap.api.GetCryptoBars(symbol, marketdata.GetCryptoBarsRequest{
		TimeFrame: ap.timeframe,
		Start:     ap.cfg.Start,
		End:       ap.cfg.End,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get crypto bars for %s: %w", symbol, err)
	}

	bars := make([]market.Bar, 0, len(history))
	for _, cb := range history {
		if n := len(bars); n > 0 && !bars[n-1].Time.Before(cb.Timestamp) {
			ap.log.Warn("skipping out of order bar",
				slog.String("symbol", symbol),
				slog.Time("time", cb.Timestamp))
			continue
		}

		bars = append(bars, market.Bar{
			Time:   cb.Timestamp.UTC(),
			Open:   cb.Open,
			High:   cb.High,
			Low:    cb.Low,
			Close:  cb.Close,
			Volume: cb.Volume,
		})
	}

	ap.log.Info("bars loaded",
		slog.String("symbol", symbol),
		slog.String("timeframe", ap.timeframe.String()),
		slog.Int("count", len(bars)))

	return bars, nil
}

func timeFrame(d time.Duration) (marketdata.TimeFrame, error) {
	switch {
	case d <= 0:
		return marketdata.TimeFrame{}, fmt.Errorf("timeframe must be positive, got %s", d)
	case d%(24*time.Hour) == 0:
		return marketdata.NewTimeFrame(int(d/(24*time.Hour)), marketdata.Day), nil
	case d%time.Hour == 0 && d < 24*time.Hour:
		return marketdata.NewTimeFrame(int(d/time.Hour), marketdata.Hour), nil
	case d%time.Minute == 0 && d < time.Hour:
		return marketdata.NewTimeFrame(int(d/time.Minute), marketdata.Min), nil
	default:
		return marketdata.TimeFrame{}, fmt.Errorf("unsupported alpaca timeframe: %s", d)
	}
}

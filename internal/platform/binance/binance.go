package binance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gamma-omg/atr-backtester/internal/config"
	"github.com/gamma-omg/atr-backtester/internal/market"
	"github.com/gamma-omg/atr-backtester/internal/platform/common"
	"golang.org/x/time/rate"
)

const (
	defaultBaseUrl        = "https://fapi.binance.com"
	defaultLimit          = 1500
	defaultRequestsPerSec = 5
	defaultMaxRetries     = 3
	klinesPath            = "/fapi/v1/klines"
)

// StatusError is returned for a non-200 response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("binance responded %d: %s", e.StatusCode, e.Body)
}

// Source pages through futures klines for the configured time range.
type Source struct {
	log        *slog.Logger
	cfg        config.Binance
	interval   string
	client     *http.Client
	limiter    *rate.Limiter
	newBackOff func() backoff.BackOff
}

func NewSource(log *slog.Logger, cfg config.Binance) (*Source, error) {
	interval, err := common.IntervalCode(cfg.Interval)
	if err != nil {
		return nil, fmt.Errorf("failed to create binance source: %w", err)
	}
	if cfg.Start.IsZero() {
		return nil, errors.New("binance source requires a start time")
	}
	if !cfg.End.IsZero() && !cfg.Start.Before(cfg.End) {
		return nil, fmt.Errorf("binance source start %s is not before end %s", cfg.Start, cfg.End)
	}

	if cfg.BaseUrl == "" {
		cfg.BaseUrl = defaultBaseUrl
	}
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = defaultRequestsPerSec
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}

	return &Source{
		log:      log,
		cfg:      cfg,
		interval: interval,
		client:   &http.Client{Timeout: 30 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.MaxElapsedTime = 30 * time.Second
			return b
		},
	}, nil
}

func (s *Source) Interval() time.Duration {
	return s.cfg.Interval
}

func (s *Source) GetBars(ctx context.Context, symbol string) ([]market.Bar, error) {
	end := s.cfg.End
	if end.IsZero() {
		end = time.Now().UTC()
	}

	var bars []market.Bar
	for start := s.cfg.Start; start.Before(end); {
		page, err := s.fetchPage(ctx, symbol, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s klines from %s: %w", symbol, start, err)
		}

		for _, b := range page {
			if !b.Time.Before(end) {
				break
			}
			bars = append(bars, b)
		}

		s.log.Debug("klines page fetched",
			slog.String("symbol", symbol),
			slog.Time("from", start),
			slog.Int("count", len(page)))

		if len(page) < s.cfg.Limit {
			break
		}
		start = page[len(page)-1].Time.Add(time.Millisecond)
	}

	s.log.Info("bars loaded",
		slog.String("symbol", symbol),
		slog.String("interval", s.interval),
		slog.Int("count", len(bars)))

	return bars, nil
}

func (s *Source) fetchPage(ctx context.Context, symbol string, start, end time.Time) ([]market.Bar, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u, err := url.Parse(s.cfg.BaseUrl + klinesPath)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("symbol", symbol)
	q.Set("interval", s.interval)
	q.Set("startTime", strconv.FormatInt(start.UnixMilli(), 10))
	q.Set("endTime", strconv.FormatInt(end.UnixMilli()-1, 10))
	q.Set("limit", strconv.Itoa(s.cfg.Limit))
	u.RawQuery = q.Encode()

	var klines [][]any
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			err := &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return err
			}
			return backoff.Permanent(err)
		}

		klines = nil
		if err := json.NewDecoder(resp.Body).Decode(&klines); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode klines: %w", err))
		}
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), s.cfg.MaxRetries), ctx)
	notify := func(err error, d time.Duration) {
		s.log.Warn("klines request failed, retrying",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()),
			slog.Duration("backoff", d))
	}
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return nil, err
	}

	bars := make([]market.Bar, 0, len(klines))
	for i, k := range klines {
		bar, err := parseKline(k)
		if err != nil {
			return nil, fmt.Errorf("kline %d: %w", i, err)
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

// parseKline reads [openTimeMs, open, high, low, close, volume, ...].
func parseKline(k []any) (market.Bar, error) {
	if len(k) < 6 {
		return market.Bar{}, fmt.Errorf("expected at least 6 fields, got %d", len(k))
	}

	ms, ok := k[0].(float64)
	if !ok {
		return market.Bar{}, fmt.Errorf("invalid open time %v", k[0])
	}

	var vals [5]float64
	for i := range vals {
		str, ok := k[i+1].(string)
		if !ok {
			return market.Bar{}, fmt.Errorf("field %d is not a decimal string: %v", i+1, k[i+1])
		}

		v, err := common.ParsePrice(str)
		if err != nil {
			return market.Bar{}, err
		}
		vals[i] = v
	}

	return market.Bar{
		Time:   time.UnixMilli(int64(ms)).UTC(),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

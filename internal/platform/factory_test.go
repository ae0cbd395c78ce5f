package platform

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/gamma-omg/atr-backtester/internal/config"
	"github.com/gamma-omg/atr-backtester/internal/platform/binance"
	"github.com/gamma-omg/atr-backtester/internal/platform/csvfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	log := slog.New(slog.DiscardHandler)

	s, err := Create(log, config.SourceReference{Source: config.CSV{
		Data:     map[string]string{"BTCUSDT": "btc.csv"},
		Interval: 15 * time.Minute,
	}})
	require.NoError(t, err)
	assert.IsType(t, &csvfile.Source{}, s)
	assert.Equal(t, 15*time.Minute, s.Interval())

	s, err = Create(log, config.SourceReference{Source: config.Binance{
		Interval: time.Hour,
		Start:    time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)
	assert.IsType(t, &binance.Source{}, s)
}

func TestCreate_unknown(t *testing.T) {
	_, err := Create(slog.New(slog.DiscardHandler), config.SourceReference{})
	assert.Error(t, err)
}

func TestCreate_errorReturnsNilSource(t *testing.T) {
	log := slog.New(slog.DiscardHandler)

	tbl := []config.SourceReference{
		{Source: config.CSV{}},
		{Source: config.Binance{Interval: time.Hour}},
		{Source: config.ClickHouse{Interval: time.Hour, Database: "bad name", Table: "candles"}},
	}

	for i, ref := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			s, err := Create(log, ref)
			require.Error(t, err)
			assert.True(t, s == nil)
		})
	}
}

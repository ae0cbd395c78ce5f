package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel    string             `yaml:"log_level"`
	Symbols     []string           `yaml:"symbols"`
	Resample    time.Duration      `yaml:"resample"`
	Backtest    Backtest           `yaml:"backtest"`
	SourceRef   SourceReference    `yaml:"source"`
	StrategyRef IndicatorReference `yaml:"strategy"`
	Sweep       []Levels           `yaml:"sweep"`
	Report      Report             `yaml:"report"`
}

func Read(r io.Reader) (*Config, error) {
	var cfg Config
	d := yaml.NewDecoder(r)
	err := d.Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	return &cfg, nil
}

func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

type Backtest struct {
	InitialBudget float64 `yaml:"initial_budget"`
	TradeFraction float64 `yaml:"trade_fraction"`
	Leverage      int     `yaml:"leverage"`
	ATRPeriod     int     `yaml:"atr_period"`
	TakeProfit    float64 `yaml:"take_profit"`
	StopLoss      float64 `yaml:"stop_loss"`
}

// Levels is one take-profit / stop-loss multiplier pair of a sweep grid.
type Levels struct {
	TakeProfit float64 `yaml:"take_profit"`
	StopLoss   float64 `yaml:"stop_loss"`
}

type Report struct {
	Dir       string `yaml:"dir"`
	Chart     bool   `yaml:"chart"`
	TradesCSV bool   `yaml:"trades_csv"`
}

// indicator configs

type EMACross struct {
	Period int `yaml:"period"`
}

type MACD struct {
	Fast   int `yaml:"fast"`
	Slow   int `yaml:"slow"`
	Signal int `yaml:"signal"`
}

type Bollinger struct {
	EMAFast     int     `yaml:"ema_fast"`
	EMASlow     int     `yaml:"ema_slow"`
	Window      int     `yaml:"window"`
	Std         float64 `yaml:"std"`
	Backcandles int     `yaml:"backcandles"`
}

type RSI struct {
	Period     int     `yaml:"period"`
	Overbought float64 `yaml:"overbought"`
}

type WeightedIndicator struct {
	Weight float64            `yaml:"weight"`
	IndRef IndicatorReference `yaml:"indicator"`
}

type Ensemble struct {
	Indicators []WeightedIndicator `yaml:"indicators"`
}

type Indicator interface{}

type IndicatorReference struct {
	Indicator Indicator
}

func (w *IndicatorReference) UnmarshalYAML(value *yaml.Node) error {
	if len(value.Content) == 0 {
		return nil
	}

	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return errors.New("invalid indicator yaml format")
	}

	key := value.Content[0].Value
	switch key {
	case "ema_cross":
		var ema EMACross
		if err := value.Content[1].Decode(&ema); err != nil {
			return fmt.Errorf("failed parsing ema_cross indicator config: %w", err)
		}
		w.Indicator = ema
	case "macd":
		var macd MACD
		if err := value.Content[1].Decode(&macd); err != nil {
			return fmt.Errorf("failed parsing macd indicator config: %w", err)
		}
		w.Indicator = macd
	case "bollinger":
		var bb Bollinger
		if err := value.Content[1].Decode(&bb); err != nil {
			return fmt.Errorf("failed parsing bollinger indicator config: %w", err)
		}
		w.Indicator = bb
	case "rsi":
		var rsi RSI
		if err := value.Content[1].Decode(&rsi); err != nil {
			return fmt.Errorf("failed parsing rsi indicator config: %w", err)
		}
		w.Indicator = rsi
	case "ensemble":
		var ensemble Ensemble
		if err := value.Content[1].Decode(&ensemble); err != nil {
			return fmt.Errorf("failed parsing ensemble indicator config: %w", err)
		}
		w.Indicator = ensemble
	default:
		return fmt.Errorf("unknown indicator type: %s", key)
	}

	return nil
}

// source configs

type CSV struct {
	Data     map[string]string `yaml:"data"`
	Start    time.Time         `yaml:"start"`
	End      time.Time         `yaml:"end"`
	Interval time.Duration     `yaml:"interval"`
}

type Binance struct {
	BaseUrl        string        `yaml:"base_url"`
	Interval       time.Duration `yaml:"interval"`
	Start          time.Time     `yaml:"start"`
	End            time.Time     `yaml:"end"`
	Limit          int           `yaml:"limit"`
	RequestsPerSec float64       `yaml:"requests_per_sec"`
	MaxRetries     uint64        `yaml:"max_retries"`
}

type Alpaca struct {
	BaseUrl   string        `yaml:"base_url"`
	ApiKey    string        `yaml:"api_key"`
	Secret    string        `yaml:"secret"`
	Timeframe time.Duration `yaml:"timeframe"`
	Start     time.Time     `yaml:"start"`
	End       time.Time     `yaml:"end"`
}

type ClickHouse struct {
	Addr     string        `yaml:"addr"`
	Database string        `yaml:"database"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Table    string        `yaml:"table"`
	Interval time.Duration `yaml:"interval"`
	Start    time.Time     `yaml:"start"`
	End      time.Time     `yaml:"end"`
}

type Source interface{}

type SourceReference struct {
	Source Source
}

func (w *SourceReference) UnmarshalYAML(value *yaml.Node) error {
	if len(value.Content) == 0 {
		return nil
	}

	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return errors.New("invalid source yaml format")
	}

	key := value.Content[0].Value
	switch key {
	case "csv":
		var c CSV
		if err := value.Content[1].Decode(&c); err != nil {
			return fmt.Errorf("failed parsing csv source config: %w", err)
		}
		w.Source = c
	case "binance":
		var b Binance
		if err := value.Content[1].Decode(&b); err != nil {
			return fmt.Errorf("failed parsing binance source config: %w", err)
		}
		w.Source = b
	case "alpaca":
		var a Alpaca
		if err := value.Content[1].Decode(&a); err != nil {
			return fmt.Errorf("failed parsing alpaca source config: %w", err)
		}
		w.Source = a
	case "clickhouse":
		var ch ClickHouse
		if err := value.Content[1].Decode(&ch); err != nil {
			return fmt.Errorf("failed parsing clickhouse source config: %w", err)
		}
		w.Source = ch
	default:
		return fmt.Errorf("unknown source type: %s", key)
	}

	return nil
}

// Level maps log_level to a slog level. Empty means info.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	return l, nil
}

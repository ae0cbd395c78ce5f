package runner

import (
	"fmt"

	"github.com/gamma-omg/atr-backtester/internal/backtest"
	"github.com/gamma-omg/atr-backtester/internal/config"
	"github.com/gamma-omg/atr-backtester/internal/indicator"
)

func createIndicator(ref config.IndicatorReference) (signalProducer, error) {
	switch cfg := ref.Indicator.(type) {
	case config.EMACross:
		return indicator.NewEMACross(cfg)
	case config.MACD:
		return indicator.NewMACD(cfg)
	case config.Bollinger:
		return indicator.NewBollinger(cfg)
	case config.RSI:
		return indicator.NewRSI(cfg)
	case config.Ensemble:
		if len(cfg.Indicators) == 0 {
			return nil, fmt.Errorf("ensemble has no indicators")
		}

		children := make([]indicator.WeightedIndicator, len(cfg.Indicators))
		for i, c := range cfg.Indicators {
			child, err := createIndicator(c.IndRef)
			if err != nil {
				return nil, fmt.Errorf("failed to create child indicator: %w", err)
			}

			children[i] = indicator.WeightedIndicator{
				Weight:    c.Weight,
				Indicator: child,
			}
		}

		return &indicator.EnsembleIndicator{Children: children}, nil
	}

	return nil, fmt.Errorf("unknown indicator: %v", ref)
}

func newParams(cfg config.Backtest) backtest.Params {
	return backtest.Params{
		InitialBudget: cfg.InitialBudget,
		TradeFraction: cfg.TradeFraction,
		Leverage:      cfg.Leverage,
		ATRPeriod:     cfg.ATRPeriod,
		TPMultiplier:  cfg.TakeProfit,
		SLMultiplier:  cfg.StopLoss,
	}
}

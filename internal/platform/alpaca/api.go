package alpaca

import (
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

type alpacaApi interface {
	GetCryptoBars(symbol string, req marketdata.GetCryptoBarsRequest) ([]marketdata.CryptoBar, error)
}

type marketDataApi struct {
	client *marketdata.Client
}

func newMarketDataApi(apiKey string, secret string, baseUrl string) *marketDataApi {
	return &marketDataApi{
		client: marketdata.NewClient(marketdata.ClientOpts{
			BaseURL:   baseUrl,
			APIKey:    apiKey,
			APISecret: secret,
		}),
	}
}

func (a *marketDataApi) GetCryptoBars(symbol string, req marketdata.GetCryptoBarsRequest) ([]marketdata.CryptoBar, error) {
	return a.client.GetCryptoBars(symbol, req)
}

package market_api_client

import (
	"github.com/trendforge/fantasymarket/clients"
)

type MarketApiClient struct {
	*clients.BaseClient
}

func NewMarketApiClient(baseURL, apiKey string) *MarketApiClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &MarketApiClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}

	client.SetHeader(APIKeyHeader, apiKey)

	return client
}

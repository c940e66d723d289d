package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/cropbook/internal/config"
)

// Client exposes market price lookups used to fill in a missing market price
// before projecting revenue. Realized revenue never depends on this client.
type Client interface {
	QuotePrice(ctx context.Context, cropType string) (decimal.Decimal, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a market API client using the provided configuration values.
func NewClient(cfg config.MarketConfig) *APIClient {
	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(10 * time.Second)

	if cfg.APIKey != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey))
	}

	return &APIClient{httpClient: restyClient}
}

// priceResponse mirrors the quote payload from the market API.
type priceResponse struct {
	CropType string `json:"crop_type"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
}

// apiError represents an error payload from the market API.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// QuotePrice fetches the current per-unit market price for a crop type.
func (c *APIClient) QuotePrice(ctx context.Context, cropType string) (decimal.Decimal, error) {
	cropType = strings.TrimSpace(cropType)
	if cropType == "" {
		return decimal.Zero, fmt.Errorf("cropType must not be empty")
	}

	var quote priceResponse
	var failure apiError

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&quote).
		SetError(&failure).
		SetPathParam("cropType", cropType).
		Get("/v1/prices/{cropType}")
	if err != nil {
		return decimal.Zero, fmt.Errorf("quote price for %s: %w", cropType, err)
	}

	if resp.IsError() {
		if failure.Error.Message != "" {
			return decimal.Zero, fmt.Errorf("market api rejected quote for %s: %s (code %d)", cropType, failure.Error.Message, failure.Error.Code)
		}
		return decimal.Zero, fmt.Errorf("market api rejected quote for %s: status %d", cropType, resp.StatusCode())
	}

	price, err := decimal.NewFromString(quote.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("market api returned malformed price %q for %s: %w", quote.Price, cropType, err)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("market api returned negative price for %s", cropType)
	}

	return price, nil
}

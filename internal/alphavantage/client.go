package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Alphavantage is a Stock and ETF API that fetches data including pricing data
// It is a subscription service, but provides free API access
// https://www.alphavantage.co/documentation/
const defaultBaseURL = "https://www.alphavantage.co/query"

// ErrRejected is returned when AlphaVantage answers 200 with an error,
// rate-limit note or information message instead of data
var ErrRejected = errors.New("request rejected by AlphaVantage")

// Client is an HTTP client for the AlphaVantage API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new AlphaVantage client
func NewClient(apiKey string, timeout time.Duration) *Client {
	return NewClientWithBaseURL(apiKey, defaultBaseURL, timeout)
}

// NewClientWithBaseURL creates a new AlphaVantage client with a custom base URL (for testing)
func NewClientWithBaseURL(apiKey, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetDailyPrices fetches daily price data for a symbol, sorted ascending by date.
// Bars whose close cannot be parsed are kept with a NaN close so callers can
// gap-fill them.
func (c *Client) GetDailyPrices(ctx context.Context, symbol string, outputSize string) ([]ParsedPriceData, error) {
	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("outputsize", outputSize) // "compact" or "full"
	params.Set("apikey", c.apiKey)

	body, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	var tsResp TimeSeriesDailyResponse
	if err := json.Unmarshal(body, &tsResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(tsResp.TimeSeries) == 0 {
		if msg := tsResp.message(); msg != "" {
			return nil, fmt.Errorf("%w: %s", ErrRejected, msg)
		}
		return nil, fmt.Errorf("no daily prices returned for %s", symbol)
	}

	prices := make([]ParsedPriceData, 0, len(tsResp.TimeSeries))
	for dateStr, ohlcv := range tsResp.TimeSeries {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			log.Debugf("GetDailyPrices: skipping bad date %q for %s", dateStr, symbol)
			continue
		}

		open, _ := strconv.ParseFloat(ohlcv.Open, 64)
		high, _ := strconv.ParseFloat(ohlcv.High, 64)
		low, _ := strconv.ParseFloat(ohlcv.Low, 64)
		closePrice, err := strconv.ParseFloat(ohlcv.Close, 64)
		if err != nil {
			closePrice = math.NaN()
		}
		volume, _ := strconv.ParseInt(ohlcv.Volume, 10, 64)

		prices = append(prices, ParsedPriceData{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	sort.Slice(prices, func(i, j int) bool {
		return prices[i].Date.Before(prices[j].Date)
	})

	return prices, nil
}

// GetCompanyOverview fetches the company overview (name, sector, industry)
func (c *Client) GetCompanyOverview(ctx context.Context, symbol string) (*ParsedOverview, error) {
	params := url.Values{}
	params.Set("function", "OVERVIEW")
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)

	body, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, err
	}

	var ov OverviewResponse
	if err := json.Unmarshal(body, &ov); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if ov.Symbol == "" && ov.Name == "" {
		if msg := ov.message(); msg != "" {
			return nil, fmt.Errorf("%w: %s", ErrRejected, msg)
		}
		return nil, fmt.Errorf("no overview returned for %s", symbol)
	}

	return &ParsedOverview{
		Symbol:   ov.Symbol,
		Name:     ov.Name,
		Sector:   ov.Sector,
		Industry: ov.Industry,
	}, nil
}

func (c *Client) doRequest(ctx context.Context, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

package alphavantage

import "time"

// TimeSeriesDailyResponse represents the AlphaVantage TIME_SERIES_DAILY response
type TimeSeriesDailyResponse struct {
	MetaData   map[string]string `json:"Meta Data"`
	TimeSeries map[string]OHLCV  `json:"Time Series (Daily)"`
	apiMessages
}

// OHLCV is one daily bar; AlphaVantage encodes numbers as strings
type OHLCV struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// OverviewResponse represents the subset of the OVERVIEW response we use
type OverviewResponse struct {
	Symbol   string `json:"Symbol"`
	Name     string `json:"Name"`
	Exchange string `json:"Exchange"`
	Currency string `json:"Currency"`
	Country  string `json:"Country"`
	Sector   string `json:"Sector"`
	Industry string `json:"Industry"`
	apiMessages
}

// apiMessages are returned with HTTP 200 when a call is rejected
type apiMessages struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

// message returns the first non-empty rejection message
func (m apiMessages) message() string {
	switch {
	case m.ErrorMessage != "":
		return m.ErrorMessage
	case m.Note != "":
		return m.Note
	default:
		return m.Information
	}
}

// ParsedPriceData represents parsed price data ready for use
type ParsedPriceData struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// ParsedOverview is a parsed company overview
type ParsedOverview struct {
	Symbol   string
	Name     string
	Sector   string
	Industry string
}

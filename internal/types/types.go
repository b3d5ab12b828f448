package types

import "time"

// DailyBar is one trading session's OHLCV record. Series are always ordered
// oldest to newest.
type DailyBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Quote is the latest traded price for a symbol.
type Quote struct {
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	AsOf   time.Time `json:"as_of"`
}

// Forecast is the structured result returned by an LLM provider.
type Forecast struct {
	Symbol     string   `json:"symbol"`
	Outlook    string   `json:"outlook"` // BULLISH, BEARISH or NEUTRAL
	Confidence float64  `json:"confidence"`
	TargetLow  float64  `json:"target_low,omitempty"`
	TargetHigh float64  `json:"target_high,omitempty"`
	Reason     string   `json:"reason"`
	Days       []string `json:"days,omitempty"` // trading days the forecast covers, YYYY-MM-DD
}

// NewsArticle is a scraped headline used as optional forecast context.
type NewsArticle struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content,omitempty"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at,omitempty"`
	Symbol      string `json:"symbol"`
}

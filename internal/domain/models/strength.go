package models

import "time"

// Trend labels the direction of a currency's strength score.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
)

// StrengthEntry is one currency's row in the ranked strength table.
type StrengthEntry struct {
	Code          string  `json:"code"`
	ChangePercent float64 `json:"change_percent"`
	Momentum      int     `json:"momentum"` // 0..100 min-max rescale of the raw scores
	Trend         Trend   `json:"trend"`
}

// StrengthTable is the ranked output of one strength computation pass.
type StrengthTable struct {
	Entries       []StrengthEntry `json:"entries"`
	Pivot         string          `json:"pivot"`
	ReferenceDate time.Time       `json:"reference_date"`
	ComputedAt    time.Time       `json:"computed_at"`
}

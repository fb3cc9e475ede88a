package models

import "time"

// NewsItem is a raw item from the financial-news feed. The feed has no
// obligation to pre-filter; classification is the engine's job.
type NewsItem struct {
	Headline  string    `json:"headline"`
	RawText   string    `json:"raw_text"`
	Timestamp time.Time `json:"timestamp"`
	Link      string    `json:"link"`
}

// ContentType distinguishes the kinds of central-bank content we retain.
type ContentType string

const (
	ContentSpeech          ContentType = "speech"
	ContentPressConference ContentType = "press_conference"
)

// Classification is the result of scoring a raw text item against the
// institution and content-type rule tables.
type Classification struct {
	Institution string      `json:"institution"`
	Code        string      `json:"code"` // currency code of the institution
	Speaker     string      `json:"speaker"`
	Type        ContentType `json:"type"`
}

// CBItem is a classified central-bank news item as retained.
type CBItem struct {
	Headline    string      `json:"headline"`
	Institution string      `json:"institution"`
	Code        string      `json:"code"`
	Speaker     string      `json:"speaker"`
	Type        ContentType `json:"type"`
	PublishedAt time.Time   `json:"published_at"`
	Link        string      `json:"link,omitempty"`
}

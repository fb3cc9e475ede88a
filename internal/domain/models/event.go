package models

import (
	"fmt"
	"hash/fnv"
	"time"
)

// SourceTag identifies which upstream produced an Event.
type SourceTag string

const (
	SourceCalendar          SourceTag = "calendar"
	SourceCBSpeech          SourceTag = "cb_speech"
	SourceCBPressConference SourceTag = "cb_press_conference"
	SourceSchedule          SourceTag = "schedule"
)

// Event is the unified entity exposed by the aggregator. Immutable once built.
type Event struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Code     string    `json:"code"` // currency or country code, 2-3 letters
	OccursAt time.Time `json:"occurs_at"`
	Source   SourceTag `json:"source"`
}

// EventID derives a stable id from the source tag and the item's natural key,
// so the same upstream item always maps to the same id.
func EventID(tag SourceTag, natural string) string {
	h := fnv.New64a()
	h.Write([]byte(tag))
	h.Write([]byte{0})
	h.Write([]byte(natural))
	return fmt.Sprintf("%s-%016x", tag, h.Sum64())
}

// CalendarEntry is one row from the economic-event calendar feed.
type CalendarEntry struct {
	Title   string    `json:"title"`
	Country string    `json:"country"`
	Date    time.Time `json:"date"`
	Impact  string    `json:"impact"`
}

// ScheduleEntry is one raw row from the public-schedule feed, already split
// by the scraping layer but not yet parsed or filtered.
type ScheduleEntry struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// ScheduleItem is a schedule entry that survived filtering, as retained.
type ScheduleItem struct {
	Description string    `json:"description"`
	Location    string    `json:"location"`
	OccursAt    time.Time `json:"occurs_at"`
}

// Timeline is the merged, sorted view handed to callers.
type Timeline struct {
	Events      []Event   `json:"events"`
	Advisories  []string  `json:"advisories,omitempty"`
	Degraded    bool      `json:"degraded"`
	GeneratedAt time.Time `json:"generated_at"`
}

// View selects which slice of the merged timeline a caller wants.
type View string

const (
	ViewUpcoming View = "upcoming" // future events only
	ViewAll      View = "all"      // includes retained history
)

package util

import (
	"strconv"
	"strings"
	"time"
)

// ParseTime tries RFC3339, RFC3339Nano, a bare date, and unix seconds.
// Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// easternTZ resolves America/New_York once; falls back to a fixed EST offset
// when the tz database is unavailable.
var easternTZ = func() *time.Location {
	if loc, err := time.LoadLocation("America/New_York"); err == nil {
		return loc
	}
	return time.FixedZone("EST", -5*3600)
}()

// ParseEastern parses schedule-style date/time pairs ("June 17, 2025",
// "9:30 AM") in US Eastern time and returns the UTC instant. An empty or
// unparseable time-of-day yields midnight Eastern of that date.
func ParseEastern(date, clock string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, false
	}

	var day time.Time
	var err error
	for _, layout := range []string{"January 2, 2006", "Jan 2, 2006", "2006-01-02"} {
		if day, err = time.ParseInLocation(layout, date, easternTZ); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, false
	}

	clock = strings.TrimSpace(strings.ToUpper(clock))
	if clock != "" {
		for _, layout := range []string{"3:04 PM", "15:04"} {
			if t, cerr := time.ParseInLocation(layout, clock, easternTZ); cerr == nil {
				day = time.Date(day.Year(), day.Month(), day.Day(),
					t.Hour(), t.Minute(), 0, 0, easternTZ)
				break
			}
		}
	}
	return day.UTC(), true
}

package datetime

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// dmyLayout accepts one- and two-digit day and month.
const dmyLayout = "2.1.2006"

var (
	dmyRegex = regexp.MustCompile(`\b\d{1,2}\.\d{1,2}\.\d{4}\b`)
	ymdRegex = regexp.MustCompile(`\b(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})(?:[ T](\d{1,2}):(\d{2}))?\b`)
)

// layouts are tried in order before handing the text over to dateparse.
// Day-first layouts come before anything dateparse would read month-first.
var layouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"2/1/2006",
	"2-1-2006",
}

// Normalizer turns loosely formatted date text into RFC-2822 timestamps.
type Normalizer struct {
	// Location is used for dates without an explicit offset. Nil means UTC.
	Location *time.Location
}

// NewNormalizer creates a normalizer for the given location
func NewNormalizer(loc *time.Location) *Normalizer {
	return &Normalizer{Location: loc}
}

// ExtractDMY returns the first D.M.YYYY substring of raw, or an empty string.
func ExtractDMY(raw string) string {
	return dmyRegex.FindString(raw)
}

// Parse reads raw as a date. A D.M.YYYY substring wins over everything else,
// so annotations such as "30.12.2025 - Denetim Hizmetleri" are ignored.
// Otherwise the whole text goes through the known layouts and then dateparse.
func (n *Normalizer) Parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)

	if raw == "" {
		return time.Time{}, false
	}

	loc := n.location()

	if dmy := ExtractDMY(raw); dmy != "" {
		t, err := time.ParseInLocation(dmyLayout, dmy, loc)

		if err != nil {
			return time.Time{}, false
		}

		return t, true
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}

	// Dates embedded in labels, e.g. "Yayın: 2024/06/03 10:00".
	if m := ymdRegex.FindStringSubmatch(raw); m != nil {
		layout, value := "2006-1-2", m[1]+"-"+m[2]+"-"+m[3]

		if m[4] != "" {
			layout, value = layout+" 15:04", value+" "+m[4]+":"+m[5]
		}

		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}

	t, err := dateparse.ParseIn(raw, loc,
		dateparse.PreferMonthFirst(false),
		dateparse.RetryAmbiguousDateWithSwap(true),
	)

	// Text without a year, e.g. "Dec 30", comes back as year 0.
	if err != nil || t.Year() == 0 {
		return time.Time{}, false
	}

	return t, true
}

// Normalize returns raw as an RFC-2822 timestamp, or an empty string
// if it cannot be parsed.
func (n *Normalizer) Normalize(raw string) string {
	t, ok := n.Parse(raw)

	if !ok {
		return ""
	}

	return Format(t)
}

// Format renders t the way RSS pubDate expects it.
func Format(t time.Time) string {
	return t.Format(time.RFC1123Z)
}

func (n *Normalizer) location() *time.Location {
	if n == nil || n.Location == nil {
		return time.UTC
	}

	return n.Location
}

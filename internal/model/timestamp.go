package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultTimestampLayouts are tried in order before the Unix epoch forms.
var DefaultTimestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// TimestampParser parses timestamp fields. Layouts without a zone are read
// as UTC.
type TimestampParser struct {
	Layouts []string
}

// NewTimestampParser returns a parser for the given layouts, or the defaults
// when none are given.
func NewTimestampParser(layouts []string) TimestampParser {
	if len(layouts) == 0 {
		layouts = DefaultTimestampLayouts
	}
	return TimestampParser{Layouts: layouts}
}

// Parse converts a field to an instant. Layouts are tried first, so all-digit
// layouts such as "20060102150405" win over epoch seconds; a value no layout
// accepts is read as Unix epoch seconds (integer or decimal).
func (p TimestampParser) Parse(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	layouts := p.Layouts
	if len(layouts) == 0 {
		layouts = DefaultTimestampLayouts
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}

	if sec, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		sec, frac := math.Modf(f)
		return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}

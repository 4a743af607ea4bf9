package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// cyrillicMonths maps genitive Russian month names to zero-based month
// indices, the convention the date table was originally calibrated
// with. parseTextualDate adds one when building the time.Month.
var cyrillicMonths = map[string]int{
	"января":   0,
	"февраля":  1,
	"марта":    2,
	"апреля":   3,
	"мая":      4,
	"июня":     5,
	"июля":     6,
	"августа":  7,
	"сентября": 8,
	"октября":  9,
	"ноября":   10,
	"декабря":  11,
}

var textualDate = regexp.MustCompile(`(\d{1,2})\s+(\p{Cyrillic}+)\s+(\d{4})`)

// isoDateFormat is the normalized output form for DecisionDate.
const isoDateFormat = "2006-01-02"

// parseDate normalizes a raw date fragment into yyyy-mm-dd. Three
// input forms are supported: "15 марта 2024", "15.03.2024", and
// "2024-03-15". Returns "" when the fragment parses as none of them.
func parseDate(raw string) string {
	raw = strings.TrimSpace(raw)

	if t, err := parseTextualDate(raw); err == nil {
		return t.Format(isoDateFormat)
	}
	if t, err := time.Parse("02.01.2006", raw); err == nil {
		return t.Format(isoDateFormat)
	}
	if t, err := time.Parse(isoDateFormat, raw); err == nil {
		return t.Format(isoDateFormat)
	}
	return ""
}

// parseTextualDate parses "15 марта 2024".
func parseTextualDate(raw string) (time.Time, error) {
	m := textualDate.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, fmt.Errorf("not a textual date: %q", raw)
	}

	monthIdx, ok := cyrillicMonths[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown month name: %q", m[2])
	}

	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("invalid day: %q", m[1])
	}
	year, err := strconv.Atoi(m[3])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year: %q", m[3])
	}

	return time.Date(year, time.Month(monthIdx+1), day, 0, 0, 0, 0, time.UTC), nil
}

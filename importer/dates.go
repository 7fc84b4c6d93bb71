package importer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	dottedDateRe = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)
	dayRe        = regexp.MustCompile(`\d{1,2}`)
	yearRe       = regexp.MustCompile(`\d{4}`)
)

// ukrainianMonths maps genitive-case month names, as they appear in dates
// like "15 березня 2024", to month numbers. Ordered for deterministic
// scanning.
var ukrainianMonths = []struct {
	name  string
	month time.Month
}{
	{"січня", time.January},
	{"лютого", time.February},
	{"березня", time.March},
	{"квітня", time.April},
	{"травня", time.May},
	{"червня", time.June},
	{"липня", time.July},
	{"серпня", time.August},
	{"вересня", time.September},
	{"жовтня", time.October},
	{"листопада", time.November},
	{"грудня", time.December},
}

// ParseDate normalizes a raw date string of unknown format. It tries general
// ISO/locale parsing, then dd.mm.yyyy, then the Ukrainian long form
// "<day> <month-name> <year>". The second return is false when no strategy
// matches; the caller substitutes the current date.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if t, err := dateparse.ParseAny(raw); err == nil {
		return t, true
	}

	if m := dottedDateRe.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
	}

	lower := strings.ToLower(raw)
	for _, m := range ukrainianMonths {
		if !strings.Contains(lower, m.name) {
			continue
		}
		dayMatch := dayRe.FindString(raw)
		yearMatch := yearRe.FindString(raw)
		if dayMatch == "" || yearMatch == "" {
			continue
		}
		day, _ := strconv.Atoi(dayMatch)
		year, _ := strconv.Atoi(yearMatch)
		return time.Date(year, m.month, day, 0, 0, 0, 0, time.UTC), true
	}

	return time.Time{}, false
}

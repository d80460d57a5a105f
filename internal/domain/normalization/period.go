package normalization

import (
	"regexp"
	"strings"
	"time"
)

// Period is a billing period extracted from a line description.
type Period struct {
	Start time.Time
	End   time.Time
}

var (
	numericRangePattern = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})\s*(?:-|–|to)\s*(\d{1,2}/\d{1,2}/\d{4})`)
	isoRangePattern     = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})\s*(?:-|–|to)\s*(\d{4}-\d{2}-\d{2})`)
	monthYearPattern    = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{4})\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ExtractPeriod parses a billing period out of a line description. Numeric
// ranges (M/D/YYYY-M/D/YYYY) are tried first, then ISO ranges, then
// month-name+year (which spans the whole month). Malformed or absent ranges
// return nil.
func ExtractPeriod(description string) *Period {
	if m := numericRangePattern.FindStringSubmatch(description); m != nil {
		start, errStart := time.Parse("1/2/2006", m[1])
		end, errEnd := time.Parse("1/2/2006", m[2])
		if errStart == nil && errEnd == nil && !end.Before(start) {
			return &Period{Start: start, End: end}
		}
		return nil
	}

	if m := isoRangePattern.FindStringSubmatch(description); m != nil {
		start, errStart := time.Parse("2006-01-02", m[1])
		end, errEnd := time.Parse("2006-01-02", m[2])
		if errStart == nil && errEnd == nil && !end.Before(start) {
			return &Period{Start: start, End: end}
		}
		return nil
	}

	if m := monthYearPattern.FindStringSubmatch(description); m != nil {
		month, ok := monthsByPrefix[strings.ToLower(m[1])[:3]]
		if !ok {
			return nil
		}
		year, err := time.Parse("2006", m[2])
		if err != nil {
			return nil
		}
		start := time.Date(year.Year(), month, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, -1)
		return &Period{Start: start, End: end}
	}

	return nil
}

// MonthStart truncates a date to the first day of its month in UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

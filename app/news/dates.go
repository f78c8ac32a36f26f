package news

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/unicode/norm"
)

// Thai sources publish dates in the Buddhist calendar ("22 ตุลาคม 2568"),
// which runs 543 years ahead of the Gregorian calendar
const buddhistYearOffset = 543

var thaiMonths = map[string]time.Month{
	"มกราคม":     time.January,
	"กุมภาพันธ์": time.February,
	"มีนาคม":     time.March,
	"เมษายน":     time.April,
	"พฤษภาคม":    time.May,
	"มิถุนายน":   time.June,
	"กรกฎาคม":    time.July,
	"สิงหาคม":    time.August,
	"กันยายน":    time.September,
	"ตุลาคม":     time.October,
	"พฤศจิกายน":  time.November,
	"ธันวาคม":    time.December,
}

var englishMonths = map[string]time.Month{
	"January":   time.January,
	"February":  time.February,
	"March":     time.March,
	"April":     time.April,
	"May":       time.May,
	"June":      time.June,
	"July":      time.July,
	"August":    time.August,
	"September": time.September,
	"October":   time.October,
	"November":  time.November,
	"December":  time.December,
}

// ParseSourceDate normalizes a source date string to a UTC timestamp.
// Unparseable input falls back to the current time, logged as a warning.
func ParseSourceDate(raw string) time.Time {
	t, err := parseSourceDate(raw)
	if err != nil {
		slog.Warn("Failed to parse source date, using current time", "date", raw, "error", err)
		return time.Now().UTC()
	}
	return t
}

// parseSourceDate is deterministic: the same input always yields the same
// timestamp. Supported formats, in order: "day monthname year" with Thai
// (Buddhist calendar) or English month names, the "Month day, year" textual
// format, then anything dateparse recognizes.
func parseSourceDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(norm.NFC.String(raw))
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	if !strings.Contains(raw, ",") {
		parts := strings.Fields(raw)
		if len(parts) == 3 {
			if t, err := parseDayMonthYear(parts[0], parts[1], parts[2]); err == nil {
				return t, nil
			}
		}
	}

	if t, err := time.Parse("January 2, 2006", raw); err == nil {
		return t.UTC(), nil
	}

	if t, err := dateparse.ParseAny(raw); err == nil {
		return t.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date format")
}

func parseDayMonthYear(dayStr, monthName, yearStr string) (time.Time, error) {
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day: %q", dayStr)
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid year: %q", yearStr)
	}

	var month time.Month
	if m, ok := thaiMonths[monthName]; ok {
		month = m
		// Buddhist-era years align with Gregorian after the fixed shift
		if year > 2500 {
			year -= buddhistYearOffset
		}
	} else if m, ok := englishMonths[monthName]; ok {
		month = m
	} else {
		return time.Time{}, fmt.Errorf("unknown month: %q", monthName)
	}

	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("day out of range: %d", day)
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

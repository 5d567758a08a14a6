package project

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var isoLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// NormalizeDate converts the date forms found in lameta and SayMore files to
// YYYY-MM-DD. ISO dates with a time part keep only the date. Slash dates are
// read as month/day when the second number is above 12 and as day/month when
// the first is; anything else, 2/2/2022 included, is ambiguous and reported as not ok. Bare years
// are returned unchanged.
func NormalizeDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", true
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(time.DateOnly), true
		}
	}
	if len(value) >= 10 && value[4] == '-' && value[7] == '-' {
		if t, err := time.Parse(time.DateOnly, value[:10]); err == nil {
			return t.Format(time.DateOnly), true
		}
	}
	if len(value) == 4 {
		if _, err := strconv.Atoi(value); err == nil {
			return value, true
		}
	}
	return normalizeSlashDate(value)
}

func normalizeSlashDate(value string) (string, bool) {
	datePart, _, _ := strings.Cut(value, " ")
	parts := strings.Split(datePart, "/")
	if len(parts) != 3 {
		return "", false
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", false
		}
		nums[i] = n
	}
	first, second, year := nums[0], nums[1], nums[2]
	var month, day int
	switch {
	case second > 12 && first <= 12:
		month, day = first, second
	case first > 12 && second <= 12:
		month, day = second, first
	default:
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(month) || t.Day() != day {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

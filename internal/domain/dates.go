package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the canonical form this system writes and displays.
const DateLayout = "2006-01-02"

var sheetDateLayouts = []string{
	DateLayout,
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"2006.1.2",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

var koreanDate = regexp.MustCompile(`^(\d{4})\s*년\s*(\d{1,2})\s*월\s*(\d{1,2})\s*일?$`)

// Spreadsheet serial dates count days from 1899-12-30.
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseSheetDate parses a date cell leniently. It accepts the canonical
// YYYY-MM-DD form, the dotted Korean locale form ("2024. 1. 5"), 년/월/일
// text, spreadsheet serial numbers and whatever dateparse recognizes.
func ParseSheetDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range sheetDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), nil
		}
	}

	// "2024. 1. 5" and "2024. 1. 5." as rendered by Korean locale sheets.
	dotted := strings.TrimSuffix(strings.ReplaceAll(s, " ", ""), ".")
	if t, err := time.Parse("2006.1.2", dotted); err == nil {
		return t, nil
	}

	if m := koreanDate.FindStringSubmatch(s); m != nil {
		if t, err := time.Parse("2006-1-2", m[1]+"-"+m[2]+"-"+m[3]); err == nil {
			return t, nil
		}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f >= 1 && f < 2958466 {
			days := math.Floor(f)
			return serialEpoch.AddDate(0, 0, int(days)), nil
		}
		return time.Time{}, fmt.Errorf("number %q is not a date", s)
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	return dateOnly(t), nil
}

// FormatDate renders t in the canonical layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

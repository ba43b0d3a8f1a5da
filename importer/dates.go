package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoLayout = "2006-01-02"

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	// day first, as the spreadsheets are filled in DD/MM/YYYY
	dayFirstPattern = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})$`)
)

// genericLayouts are tried after the literal patterns.
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate returns raw in canonical YYYY-MM-DD form.
func ParseDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty value", ErrInvalidDate)
	}

	if isoDatePattern.MatchString(raw) {
		t, err := time.Parse(isoLayout, raw)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
		return t.Format(isoLayout), nil
	}

	if m := dayFirstPattern.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes 31/02 into March; reject instead
		if t.Day() != day || int(t.Month()) != month || t.Year() != year {
			return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
		return t.Format(isoLayout), nil
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(isoLayout), nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

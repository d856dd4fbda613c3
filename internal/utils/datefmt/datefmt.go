// Package datefmt converts between the stored ISO date form (yyyy-mm-dd)
// and the dd/mm/yyyy form operators type and read.
package datefmt

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/etracking_app/internal/apperrors"
)

const (
	ISOLayout     = "2006-01-02"
	DisplayLayout = "02/01/2006"
)

// ISO formats t as yyyy-mm-dd.
func ISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// Parse accepts yyyy-mm-dd or dd/mm/yyyy (two-digit years are read as 20yy)
// and returns the ISO form.
func Parse(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", fmt.Errorf("%w: empty date", apperrors.ErrValidation)
	}
	if strings.Contains(v, "/") {
		parts := strings.Split(v, "/")
		if len(parts) != 3 {
			return "", fmt.Errorf("%w: malformed date %q", apperrors.ErrValidation, raw)
		}
		day, month, year := parts[0], parts[1], parts[2]
		if len(year) == 2 {
			year = "20" + year
		}
		v = pad(year, 4) + "-" + pad(month, 2) + "-" + pad(day, 2)
	} else if len(v) > len(ISOLayout) {
		// tolerate full timestamps such as 2025-03-01T00:00:00Z
		v = v[:len(ISOLayout)]
	}
	t, err := time.Parse(ISOLayout, v)
	if err != nil {
		return "", fmt.Errorf("%w: malformed date %q", apperrors.ErrValidation, raw)
	}
	return ISO(t), nil
}

// ParseOr parses raw and falls back to fallback when it cannot be read.
func ParseOr(raw, fallback string) string {
	if v, err := Parse(raw); err == nil {
		return v
	}
	return fallback
}

// Display renders an ISO date as dd/mm/yyyy. Values that are not ISO dates
// are returned unchanged.
func Display(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse(ISOLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format(DisplayLayout)
}

func pad(s string, width int) string {
	s = strings.TrimSpace(s)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

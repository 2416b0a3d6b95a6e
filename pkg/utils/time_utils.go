package utils

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

func NowUnixSeconds() int64 { return time.Now().Unix() }

// ParseDate accepts "2006-01-02" or RFC3339 and returns the UTC calendar day.
// An empty string yields nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, s)
		}
	}
	d := StartOfDay(t)
	return &d, nil
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a nullable date; nil becomes "".
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

func FormatRFC3339(unix int64) string {
	if unix <= 0 {
		return ""
	}
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}

// AddDays returns a copy of t shifted by n calendar days.
func AddDays(t *time.Time, n int) *time.Time {
	if t == nil {
		return nil
	}
	d := t.AddDate(0, 0, n)
	return &d
}

// Package dates handles ISO calendar dates (YYYY-MM-DD) exchanged with clients.
package dates

import (
	"fmt"
	"strings"
	"time"
)

const Layout = "2006-01-02"

// Parse returns nil for a blank input. Anything else must be a calendar date.
func Parse(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a YYYY-MM-DD date", s)
	}
	return &t, nil
}

// Format returns nil for a nil date.
func Format(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(Layout)
	return &s
}

// Normalize drops the clock and zone a driver may attach to a DATE column.
func Normalize(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

package domain

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// PeakWindow is a half-open [Start, End) time-of-day range in minutes
// after midnight. End < Start wraps past midnight.
type PeakWindow struct {
	Start int
	End   int
}

// ParsePeakWindow reads "HH:MM-HH:MM".
func ParsePeakWindow(raw string) (PeakWindow, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 {
		return PeakWindow{}, ErrInvalidPeakWindow
	}
	start, err := parseClock(parts[0])
	if err != nil {
		return PeakWindow{}, err
	}
	end, err := parseClock(parts[1])
	if err != nil {
		return PeakWindow{}, err
	}
	if start == end {
		return PeakWindow{}, ErrInvalidPeakWindow
	}
	return PeakWindow{Start: start, End: end}, nil
}

func parseClock(raw string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPeakWindow, raw)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Contains reports whether minute-of-day m falls inside the window.
func (w PeakWindow) Contains(m int) bool {
	if w.Start < w.End {
		return m >= w.Start && m < w.End
	}
	return m >= w.Start || m < w.End
}

// Calendar drives day-type and band classification.
type Calendar struct {
	Location    *time.Location
	PeakWindows []PeakWindow
	// Holidays are keyed by "2006-01-02" in Location.
	Holidays map[string]struct{}
}

// NewCalendar parses the raw peak windows and holiday dates.
func NewCalendar(location string, windows, holidays []string) (Calendar, error) {
	loc := time.UTC
	if location != "" {
		l, err := time.LoadLocation(location)
		if err != nil {
			return Calendar{}, fmt.Errorf("load location %q: %w", location, err)
		}
		loc = l
	}

	cal := Calendar{
		Location:    loc,
		PeakWindows: make([]PeakWindow, 0, len(windows)),
		Holidays:    make(map[string]struct{}, len(holidays)),
	}
	for _, raw := range windows {
		w, err := ParsePeakWindow(raw)
		if err != nil {
			return Calendar{}, err
		}
		cal.PeakWindows = append(cal.PeakWindows, w)
	}
	for _, raw := range holidays {
		d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(raw), loc)
		if err != nil {
			return Calendar{}, fmt.Errorf("%w: %q", ErrInvalidHoliday, raw)
		}
		cal.Holidays[d.Format("2006-01-02")] = struct{}{}
	}
	return cal, nil
}

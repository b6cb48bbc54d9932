package utils

import (
	"errors"
	"strings"
	"time"
)

var ErrUnparsableTime = errors.New("unrecognised date or time")

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
	"3:04PM",
	"3:04 pm",
	"3:04pm",
}

// ParseDate reads the date formats the dashboard forms submit.
// Values without a zone are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrUnparsableTime
}

// ParseTimeOn reads a full timestamp, or a clock time which is placed on day.
func ParseTimeOn(s string, day time.Time) (time.Time, error) {
	if t, err := ParseDate(s); err == nil {
		return t, nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		clock, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y, m, d := day.Date()
		return time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), 0, day.Location()), nil
	}
	return time.Time{}, ErrUnparsableTime
}

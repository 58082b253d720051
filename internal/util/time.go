package util

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// TruncateDay returns midnight UTC of t's calendar day
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextMarketDate predicts when the next daily close becomes available:
// the next weekday at 4:30 PM New York time, returned in UTC.
// Cached price ranges are considered fresh until this instant.
func NextMarketDate(input time.Time) time.Time {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		log.Errorf("Failed to load location 'America/New_York': %v. Falling back to UTC.", err)
		loc = time.UTC
	}
	nowET := input.In(loc)

	next := time.Date(nowET.Year(), nowET.Month(), nowET.Day(), 16, 30, 0, 0, loc)
	if nowET.After(next) {
		next = next.AddDate(0, 0, 1)
	}
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}

	return next.UTC()
}

package cron

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Schedule decides when the next cycle runs.
type Schedule interface {
	Next(now time.Time) time.Time
}

// IntervalSchedule fires a fixed duration after each cycle.
type IntervalSchedule time.Duration

func (s IntervalSchedule) Next(now time.Time) time.Time {
	d := time.Duration(s)
	if d <= 0 {
		d = defaultInterval
	}
	return now.Add(d)
}

// DailySchedule fires once a day at a fixed UTC time of day.
type DailySchedule struct {
	Hour   int
	Minute int
}

// ParseDailySchedule reads an "HH:MM" UTC time of day.
func ParseDailySchedule(value string) (DailySchedule, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return DailySchedule{}, fmt.Errorf("schedule %q must be HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return DailySchedule{}, fmt.Errorf("schedule %q has invalid hour", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return DailySchedule{}, fmt.Errorf("schedule %q has invalid minute", value)
	}
	return DailySchedule{Hour: hour, Minute: minute}, nil
}

// Next returns the first matching time strictly after now.
func (s DailySchedule) Next(now time.Time) time.Time {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.Hour, s.Minute, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s DailySchedule) String() string {
	return fmt.Sprintf("%02d:%02d UTC", s.Hour, s.Minute)
}

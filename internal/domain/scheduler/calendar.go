package scheduler

import (
	"slices"
	"time"
)

const (
	// DateKeyLayout is the wire format of a selectable date.
	DateKeyLayout = "2006-01-02"

	DateWindowDays      = 14
	SelectableDateLimit = 10
)

// DefaultTimeSlots are the appointment start times offered on every business day.
var DefaultTimeSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00",
}

// BusinessDays returns the weekdays among the window calendar days after from
// (tomorrow first), truncated to limit. Days are midnight in from's location.
func BusinessDays(from time.Time, window, limit int) []time.Time {
	y, m, d := from.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, from.Location())

	days := make([]time.Time, 0, window)
	for i := 1; i <= window; i++ {
		day := today.AddDate(0, 0, i)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		days = append(days, day)
	}
	if limit > 0 && len(days) > limit {
		days = days[:limit]
	}
	return days
}

// SelectableDates formats the dates a visitor may pick when booking at now.
func SelectableDates(now time.Time) []string {
	days := BusinessDays(now, DateWindowDays, SelectableDateLimit)
	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = d.Format(DateKeyLayout)
	}
	return keys
}

func IsSelectableDate(now time.Time, key string) bool {
	return slices.Contains(SelectableDates(now), key)
}

func IsTimeSlot(slots []string, slot string) bool {
	return slices.Contains(slots, slot)
}

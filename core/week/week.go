// Package week derives the Monday-start five-weekday planning window from
// an arbitrary reference date.
package week

import "time"

// ISO is the date layout used everywhere on the board.
const ISO = "2006-01-02"

// Days is the number of weekdays in a planning window.
const Days = 5

// Day is one weekday of the active window.
type Day struct {
	Date time.Time
	Key  string // ISO date, stable cell key
	Name string // English weekday label, locale independent
}

// Monday returns the Monday of the week containing ref. A Sunday reference
// resolves to the Monday six days back: planning weeks never start Sunday.
// The offset is computed from time.Weekday explicitly so the result does
// not depend on any host day-numbering convention.
func Monday(ref time.Time) time.Time {
	ref = time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	diff := int(ref.Weekday()) - int(time.Monday)
	if ref.Weekday() == time.Sunday {
		diff = 6
	}
	return ref.AddDate(0, 0, -diff)
}

// Build returns the five weekdays Monday through Friday of the week
// containing ref. Pure and deterministic.
func Build(ref time.Time) []Day {
	monday := Monday(ref)
	days := make([]Day, 0, Days)
	for i := 0; i < Days; i++ {
		d := monday.AddDate(0, 0, i)
		days = append(days, Day{
			Date: d,
			Key:  d.Format(ISO),
			Name: d.Weekday().String(),
		})
	}
	return days
}

// Bounds returns the ISO keys of the Monday and Friday of ref's week.
func Bounds(ref time.Time) (start, end string) {
	monday := Monday(ref)
	return monday.Format(ISO), monday.AddDate(0, 0, Days-1).Format(ISO)
}

// ToEngineFormat converts an ISO date key to the DD/MM/YYYY form expected
// by the external scheduling engine. Non-ISO input is returned unchanged.
func ToEngineFormat(iso string) string {
	t, err := time.Parse(ISO, iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}

// Package clock supplies "now" to the nudge engine so that every
// time-dependent computation can be driven by tests.
package clock

import (
	"time"

	"github.com/julianstephens/habitnudge/internal/utils"
)

// Clock is the calendar capability consumed by the engine and runner.
type Clock interface {
	Now() time.Time
	CurrentHour() int
	Today() string
	IsQuietHours(start, end int) bool
}

// Calendar implements Clock over a time source and a location.
type Calendar struct {
	now func() time.Time
	loc *time.Location
}

// System returns a Calendar reading the wall clock in loc. A nil loc means time.Local.
func System(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{now: time.Now, loc: loc}
}

// SystemIn returns a wall-clock Calendar for an IANA timezone name ("Local" or "" for the system zone).
func SystemIn(timezone string) (*Calendar, error) {
	loc, err := utils.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return System(loc), nil
}

// Fixed returns a Calendar frozen at t, in t's location.
func Fixed(t time.Time) *Calendar {
	return &Calendar{now: func() time.Time { return t }, loc: t.Location()}
}

func (c *Calendar) Now() time.Time {
	return c.now().In(c.loc)
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

func (c *Calendar) CurrentHour() int {
	return c.Now().Hour()
}

// Today returns the current date as YYYY-MM-DD.
func (c *Calendar) Today() string {
	return utils.FormatDate(c.Now())
}

func (c *Calendar) IsQuietHours(start, end int) bool {
	return InQuietHours(c.CurrentHour(), start, end)
}

// InQuietHours reports whether hour falls in the window [start, end).
// A window with start > end wraps midnight, e.g. 22..7.
func InQuietHours(hour, start, end int) bool {
	if start > end {
		return hour >= start || hour < end
	}
	return hour >= start && hour < end
}

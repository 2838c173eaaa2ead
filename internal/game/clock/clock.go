// Package clock tracks in-game time as a day/hour counter.
package clock

import "fmt"

// HoursPerDay is the length of a game day.
const HoursPerDay = 24

// Clock is the in-game day/hour counter.
//
// Invariant: Hour is in [0, 24); Day >= 1.
type Clock struct {
	Day  int `yaml:"day" json:"day"`
	Hour int `yaml:"hour" json:"hour"`
}

// New returns a Clock at dawn of day 1.
func New() Clock {
	return Clock{Day: 1, Hour: 8}
}

// Advance moves the clock forward by the given number of hours and returns
// the number of day boundaries crossed.
//
// Advance(0) is a no-op. Negative input leaves the state unchanged and
// reports zero rollovers.
func (c *Clock) Advance(hours int) int {
	if hours <= 0 {
		return 0
	}
	total := c.Hour + hours
	rollovers := total / HoursPerDay
	c.Hour = total % HoursPerDay
	c.Day += rollovers
	return rollovers
}

// String returns the clock in "day N, HH:00" format.
func (c Clock) String() string {
	return fmt.Sprintf("day %d, %02d:00", c.Day, c.Hour)
}

// IsNight reports whether shops are normally shuttered (22:00-05:00).
func (c Clock) IsNight() bool {
	return c.Hour >= 22 || c.Hour < 5
}

// Package clock owns day-boundary computation. Every component that needs to
// know "which day is it" goes through a DayKeyProvider so that session keys and
// history keys are always comparable and tests can pin the date.
package clock

import "time"

// DayKeyFormat is the canonical calendar-day key layout.
const DayKeyFormat = "2006-01-02"

// DefaultZone is the canonical IANA zone for day-boundary computation. The
// deployment this serves operates on Indian school days.
const DefaultZone = "Asia/Kolkata"

// DayKeyProvider yields the current instant and its canonical day key.
type DayKeyProvider interface {
	Now() time.Time
	TodayKey() string
}

// ZoneClock computes day keys in a fixed IANA zone.
type ZoneClock struct {
	loc *time.Location
	now func() time.Time
}

// NewZoneClock resolves the named zone, falling back to DefaultZone when the
// name is empty.
func NewZoneClock(zone string) (*ZoneClock, error) {
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, err
	}
	return &ZoneClock{loc: loc, now: time.Now}, nil
}

// Now returns the current instant in the configured zone.
func (c *ZoneClock) Now() time.Time {
	return c.now().In(c.loc)
}

// TodayKey returns today's canonical day key in the configured zone.
func (c *ZoneClock) TodayKey() string {
	return c.Now().Format(DayKeyFormat)
}

// Fixed is a DayKeyProvider frozen at a single instant, for tests.
type Fixed struct {
	Instant time.Time
}

// NewFixed builds a frozen provider.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{Instant: t}
}

// Now returns the frozen instant.
func (f *Fixed) Now() time.Time {
	return f.Instant
}

// TodayKey returns the frozen instant's day key.
func (f *Fixed) TodayKey() string {
	return f.Instant.Format(DayKeyFormat)
}

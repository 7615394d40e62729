package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time (hour and minute) without a date or zone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a "HH:MM" string such as "03:00" or "14:30".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: expected HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid hour in time of day %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid minute in time of day %q", s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Before reports whether t is strictly earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	if t.Hour != other.Hour {
		return t.Hour < other.Hour
	}
	return t.Minute < other.Minute
}

// Definition is one configured trading session: a named time-of-day interval
// in the reference timezone. Start must be before End within the same
// calendar day. Definitions are immutable after configuration.
type Definition struct {
	Name  string
	Start TimeOfDay
	End   TimeOfDay
}

// Validate checks the invariants a Definition must hold.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("session has no name")
	}
	if !d.Start.Before(d.End) {
		return fmt.Errorf("session %q: start %s must be before end %s", d.Name, d.Start, d.End)
	}
	return nil
}

// Occurrence is a Definition resolved against one concrete calendar date.
// StartReference/EndReference and StartDisplay/EndDisplay are the same two
// absolute instants rendered in the reference and display zones.
type Occurrence struct {
	Name           string
	StartReference time.Time
	EndReference   time.Time
	StartDisplay   time.Time
	EndDisplay     time.Time
}

// Date returns the occurrence's reference-zone calendar date as ISO 8601.
func (o Occurrence) Date() string {
	return o.StartReference.Format("2006-01-02")
}

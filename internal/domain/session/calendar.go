package session

import (
	"fmt"
	"time"
)

// Calendar resolves configured session definitions against concrete calendar
// dates in a reference timezone and projects the resulting instants into a
// display timezone. Both conversions are full zone-rule-aware (DST in either
// zone is handled independently).
type Calendar struct {
	definitions  []Definition
	referenceLoc *time.Location
	displayLoc   *time.Location
}

// NewCalendar builds a Calendar from validated definitions and IANA zone
// names, e.g. "America/New_York" and "Europe/Moscow".
func NewCalendar(definitions []Definition, referenceZone, displayZone string) (*Calendar, error) {
	if len(definitions) == 0 {
		return nil, fmt.Errorf("no session definitions configured")
	}
	for _, def := range definitions {
		if err := def.Validate(); err != nil {
			return nil, err
		}
	}
	refLoc, err := time.LoadLocation(referenceZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference timezone %q: %w", referenceZone, err)
	}
	dispLoc, err := time.LoadLocation(displayZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load display timezone %q: %w", displayZone, err)
	}
	return &Calendar{
		definitions:  definitions,
		referenceLoc: refLoc,
		displayLoc:   dispLoc,
	}, nil
}

// ReferenceLocation returns the zone session definitions are expressed in.
func (c *Calendar) ReferenceLocation() *time.Location {
	return c.referenceLoc
}

// DisplayLocation returns the zone occurrences are rendered in for users.
func (c *Calendar) DisplayLocation() *time.Location {
	return c.displayLoc
}

// Definitions returns the configured session definitions in configuration order.
func (c *Calendar) Definitions() []Definition {
	return c.definitions
}

// Resolve instantiates a Definition on the given reference-zone date.
func (c *Calendar) Resolve(def Definition, year int, month time.Month, day int) Occurrence {
	startRef := time.Date(year, month, day, def.Start.Hour, def.Start.Minute, 0, 0, c.referenceLoc)
	endRef := time.Date(year, month, day, def.End.Hour, def.End.Minute, 0, 0, c.referenceLoc)
	return Occurrence{
		Name:           def.Name,
		StartReference: startRef,
		EndReference:   endRef,
		StartDisplay:   startRef.In(c.displayLoc),
		EndDisplay:     endRef.In(c.displayLoc),
	}
}

// NextSessions returns the upcoming occurrences relative to now, in
// configuration order: today's sessions whose display-zone end has not yet
// passed, or, when all of today's sessions are over, tomorrow's full list
// unconditionally. The result is therefore never empty, so the caller always
// has at least one target to report on.
func (c *Calendar) NextSessions(nowReference, nowDisplay time.Time) []Occurrence {
	var next []Occurrence
	year, month, day := nowReference.Date()
	for _, def := range c.definitions {
		occ := c.Resolve(def, year, month, day)
		if nowDisplay.Before(occ.EndDisplay) {
			next = append(next, occ)
		}
	}
	if len(next) > 0 {
		return next
	}

	tomorrow := nowReference.AddDate(0, 0, 1)
	year, month, day = tomorrow.Date()
	for _, def := range c.definitions {
		next = append(next, c.Resolve(def, year, month, day))
	}
	return next
}

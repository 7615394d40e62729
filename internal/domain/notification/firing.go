// internal/domain/notification/firing.go
package notification

// FiringKey is the logical identity of one notification event: a session
// occurrence on a concrete reference-zone date, combined with one lead time.
// At most one message is ever sent per key.
type FiringKey struct {
	Date        string // reference-zone date, ISO 8601 (e.g. "2026-08-24")
	SessionName string
	LeadMinutes int
}

// FiredSet tracks the FiringKeys already sent during the current day. It
// guards against double-firing when polling jitter lets the same window be
// observed by two ticks, independent of the tick cadence. Not safe for
// concurrent use; the polling loop is single-threaded.
type FiredSet struct {
	fired map[FiringKey]struct{}
}

func NewFiredSet() *FiredSet {
	return &FiredSet{fired: make(map[FiringKey]struct{})}
}

// Contains reports whether key has already fired.
func (s *FiredSet) Contains(key FiringKey) bool {
	_, ok := s.fired[key]
	return ok
}

// Mark records key as fired.
func (s *FiredSet) Mark(key FiringKey) {
	s.fired[key] = struct{}{}
}

// Clear drops all recorded keys. Called at the reference-zone midnight so
// the set never grows past one day's worth of notifications.
func (s *FiredSet) Clear() {
	s.fired = make(map[FiringKey]struct{})
}

// Len returns the number of recorded keys.
func (s *FiredSet) Len() int {
	return len(s.fired)
}

package alarm

import "time"

// DefaultPath is the database location holding the alarm flag.
const DefaultPath = "/alarme/etat"

// State represents the watched value at a specific point in time.
type State struct {
	// Value is the raw value stored at the watched path, nil when absent.
	Value any
	// ETag identifies the database revision the value was read at.
	ETag string
	// Timestamp is when the value was read.
	Timestamp time.Time
}

// Clone returns a copy of the state to avoid leaking internal references.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	cloned := *s

	return &cloned
}

// Change is a single write observed on the watched path.
// Before and After hold raw JSON-compatible values; nil means the field was absent.
type Change struct {
	Before any
	After  any
}

// IsActivation reports whether the change switches the alarm from off to on.
// Only the boolean false followed by the boolean true qualifies: a field
// created directly with true, or any non-boolean value, does not.
func (c *Change) IsActivation() bool {
	before, ok := c.Before.(bool)
	if !ok || before {
		return false
	}

	after, ok := c.After.(bool)

	return ok && after
}

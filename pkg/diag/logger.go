package diag

import "sync"

// Logger receives diagnostic events.
type Logger interface {
	// Report records an event. Implementations must not block for long;
	// they are called from inside device operations.
	Report(event Event)
}

// NoopLogger discards all events. It is usable as a zero value.
type NoopLogger struct{}

// Report discards the event.
func (NoopLogger) Report(Event) {}

// MemoryLogger keeps events in memory. Useful in tests and the interactive shell.
type MemoryLogger struct {
	mu     sync.Mutex
	events []Event
}

// Report appends the event.
func (m *MemoryLogger) Report(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// Events returns a copy of the recorded events.
func (m *MemoryLogger) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Drain returns the recorded events and forgets them.
func (m *MemoryLogger) Drain() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.events
	m.events = nil
	return out
}

// Compile-time interface satisfaction checks.
var (
	_ Logger = NoopLogger{}
	_ Logger = (*MemoryLogger)(nil)
)

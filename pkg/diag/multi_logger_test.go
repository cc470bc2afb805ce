package diag

import "testing"

func TestMultiLoggerCallsAll(t *testing.T) {
	mem1 := &MemoryLogger{}
	mem2 := &MemoryLogger{}

	multi := NewMultiLogger(mem1, nil, mem2, NoopLogger{})
	multi.Report(Event{Object: "bm0", Kind: KindTrace, Message: "hello"})

	for i, m := range []*MemoryLogger{mem1, mem2} {
		events := m.Events()
		if len(events) != 1 {
			t.Fatalf("logger %d: got %d events, want 1", i, len(events))
		}
		if events[0].Message != "hello" {
			t.Errorf("logger %d: message = %q", i, events[0].Message)
		}
	}
}

func TestMultiLoggerEmpty(t *testing.T) {
	// No loggers, or only nil ones, is valid and discards.
	NewMultiLogger().Report(Event{Message: "dropped"})
	NewMultiLogger(nil, nil).Report(Event{Message: "dropped"})
}

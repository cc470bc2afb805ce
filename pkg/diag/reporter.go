package diag

import (
	"fmt"
	"time"
)

// Reporter stamps events with the reporting object's identity before passing
// them to a Logger. A nil Reporter or one with a nil Logger discards events.
type Reporter struct {
	logger   Logger
	objectID string
	object   string
	now      func() time.Time
}

// NewReporter creates a Reporter for one object.
func NewReporter(logger Logger, objectID, object string) *Reporter {
	return &Reporter{
		logger:   logger,
		objectID: objectID,
		object:   object,
		now:      time.Now,
	}
}

// Report fills in timestamp and identity and forwards the event.
func (r *Reporter) Report(event Event) {
	if r == nil || r.logger == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = r.now()
	}
	event.ObjectID = r.objectID
	event.Object = r.object
	r.logger.Report(event)
}

// Violation reports a caller contract violation on a channel/drive pair.
// Pass a negative drive when the operation has no drive.
func (r *Reporter) Violation(table, operation string, channel, drive int, format string, args ...any) {
	event := Event{
		Kind:      KindContractViolation,
		Severity:  SeverityWarning,
		Table:     table,
		Operation: operation,
		Channel:   &channel,
		Message:   fmt.Sprintf(format, args...),
	}
	if drive >= 0 {
		event.Drive = &drive
	}
	r.Report(event)
}

// Fault reports an operational fault.
func (r *Reporter) Fault(table, operation string, channel int, err error) {
	r.Report(Event{
		Kind:      KindFault,
		Severity:  SeverityError,
		Table:     table,
		Operation: operation,
		Channel:   &channel,
		Message:   err.Error(),
	})
}

// StateChange reports a state transition.
func (r *Reporter) StateChange(entity, oldState, newState string) {
	r.Report(Event{
		Kind:     KindStateChange,
		Severity: SeverityDebug,
		Message:  entity + ": " + oldState + " -> " + newState,
		StateChange: &StateChange{
			Entity:   entity,
			OldState: oldState,
			NewState: newState,
		},
	})
}

// Compile-time interface satisfaction check.
var _ Logger = (*Reporter)(nil)

package diag

import (
	"fmt"
	"strings"
	"time"
)

// Event is one diagnostic report from a device.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event was reported.
	Timestamp time.Time `cbor:"1,keyasint"`

	// ObjectID is the reporting object's UUID.
	ObjectID string `cbor:"2,keyasint,omitempty"`

	// Object is the reporting object's name.
	Object string `cbor:"3,keyasint"`

	// Kind classifies the event.
	Kind Kind `cbor:"4,keyasint"`

	// Severity of the event.
	Severity Severity `cbor:"5,keyasint"`

	// Table is the interface table the operation belongs to, if any.
	Table string `cbor:"6,keyasint,omitempty"`

	// Operation is the table operation, e.g. "transfer_dma".
	Operation string `cbor:"7,keyasint,omitempty"`

	// Channel and Drive identify the IDE channel/drive pair, when relevant.
	Channel *int `cbor:"8,keyasint,omitempty"`
	Drive   *int `cbor:"9,keyasint,omitempty"`

	// Message is a human-readable description.
	Message string `cbor:"10,keyasint"`

	// StateChange is set for KindStateChange events.
	StateChange *StateChange `cbor:"11,keyasint,omitempty"`
}

// StateChange describes a device state transition.
type StateChange struct {
	Entity   string `cbor:"1,keyasint"`
	OldState string `cbor:"2,keyasint"`
	NewState string `cbor:"3,keyasint"`
}

// Kind classifies diagnostic events.
type Kind uint8

const (
	// KindContractViolation is a caller passing an invalid identity.
	KindContractViolation Kind = 0
	// KindFault is an operational fault inside the device.
	KindFault Kind = 1
	// KindStateChange is a device state transition.
	KindStateChange Kind = 2
	// KindTrace is informational tracing.
	KindTrace Kind = 3
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindContractViolation:
		return "VIOLATION"
	case KindFault:
		return "FAULT"
	case KindStateChange:
		return "STATE"
	case KindTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// Severity is the importance of an event.
type Severity uint8

const (
	SeverityDebug   Severity = 0
	SeverityInfo    Severity = 1
	SeverityWarning Severity = 2
	SeverityError   Severity = 3
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARN"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseSeverity parses "debug", "info", "warn"/"warning" or "error".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "debug":
		return SeverityDebug, nil
	case "info":
		return SeverityInfo, nil
	case "warn", "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

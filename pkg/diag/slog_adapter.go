package diag

import (
	"context"
	"log/slog"
)

// SlogAdapter writes events to an slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Report writes the event at the slog level matching its severity.
func (a *SlogAdapter) Report(event Event) {
	attrs := []slog.Attr{
		slog.String("object", event.Object),
		slog.String("kind", event.Kind.String()),
	}

	if event.ObjectID != "" {
		attrs = append(attrs, slog.String("object_id", event.ObjectID))
	}
	if event.Table != "" {
		attrs = append(attrs, slog.String("table", event.Table))
	}
	if event.Operation != "" {
		attrs = append(attrs, slog.String("op", event.Operation))
	}
	if event.Channel != nil {
		attrs = append(attrs, slog.Int("channel", *event.Channel))
	}
	if event.Drive != nil {
		attrs = append(attrs, slog.Int("drive", *event.Drive))
	}
	if event.StateChange != nil {
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
	}

	a.logger.LogAttrs(context.Background(), slogLevel(event.Severity), event.Message, attrs...)
}

func slogLevel(s Severity) slog.Level {
	switch s {
	case SeverityDebug:
		return slog.LevelDebug
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)

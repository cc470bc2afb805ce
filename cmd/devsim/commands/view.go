// Package commands implements the devsim CLI commands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/devmodel/devmodel-go/pkg/diag"
)

const timeLayout = "2006-01-02T15:04:05.000000Z"

// ParseKindFlag parses a -kind flag value.
func ParseKindFlag(s string) (diag.Kind, error) {
	switch strings.ToLower(s) {
	case "violation":
		return diag.KindContractViolation, nil
	case "fault":
		return diag.KindFault, nil
	case "state":
		return diag.KindStateChange, nil
	case "trace":
		return diag.KindTrace, nil
	default:
		return 0, fmt.Errorf("invalid kind: %s (valid: violation, fault, state, trace)", s)
	}
}

// BuildFilter turns flag values into a diag filter. Empty values match all.
func BuildFilter(object, table, kind, severity string) (diag.Filter, error) {
	f := diag.Filter{Object: object, Table: table}
	if kind != "" {
		k, err := ParseKindFlag(kind)
		if err != nil {
			return diag.Filter{}, err
		}
		f.Kind = &k
	}
	if severity != "" {
		s, err := diag.ParseSeverity(severity)
		if err != nil {
			return diag.Filter{}, err
		}
		f.MinSeverity = &s
	}
	return f, nil
}

// RunView prints the events of a diagnostics file that match filter.
func RunView(path string, filter diag.Filter, w io.Writer) error {
	reader, err := diag.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event diag.Event) {
	// Header line: timestamp [obj:name] SEVERITY KIND table.operation
	ts := event.Timestamp.UTC().Format(timeLayout)
	op := event.Table
	if event.Operation != "" {
		op += "." + event.Operation
	}
	fmt.Fprintf(w, "%s [obj:%s] %-5s %s %s\n", ts, event.Object, event.Severity, event.Kind, op)

	if event.Channel != nil {
		fmt.Fprintf(w, "  Channel: %d", *event.Channel)
		if event.Drive != nil {
			fmt.Fprintf(w, "  Drive: %d", *event.Drive)
		}
		fmt.Fprintln(w)
	}
	if event.StateChange != nil {
		formatStateChangeDetails(w, event.StateChange)
	}
	if event.Message != "" {
		fmt.Fprintf(w, "  %s\n", event.Message)
	}

	fmt.Fprintln(w)
}

func formatStateChangeDetails(w io.Writer, sc *diag.StateChange) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity)
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
}

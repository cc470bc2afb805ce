package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/devmodel/devmodel-go/pkg/diag"
)

// Stats holds aggregate statistics about a diagnostics file.
type Stats struct {
	TotalEvents      int
	EventsByKind     map[diag.Kind]int
	EventsBySeverity map[diag.Severity]int
	Objects          map[string]*ObjectStats
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// ObjectStats holds statistics for a single object.
type ObjectStats struct {
	Events     int
	Violations int
	Faults     int
	Operations map[string]int
}

// CollectStats reads every event of a diagnostics file.
func CollectStats(path string) (*Stats, error) {
	reader, err := diag.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByKind:     make(map[diag.Kind]int),
		EventsBySeverity: make(map[diag.Severity]int),
		Objects:          make(map[string]*ObjectStats),
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByKind[event.Kind]++
		stats.EventsBySeverity[event.Severity]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		obj, ok := stats.Objects[event.Object]
		if !ok {
			obj = &ObjectStats{Operations: make(map[string]int)}
			stats.Objects[event.Object] = obj
		}
		obj.Events++
		switch event.Kind {
		case diag.KindContractViolation:
			obj.Violations++
		case diag.KindFault:
			obj.Faults++
		}
		if event.Operation != "" {
			obj.Operations[event.Table+"."+event.Operation]++
		}
	}

	return stats, nil
}

// RunStats analyzes the diagnostics file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Total events: %d\n", stats.TotalEvents)
	if stats.TotalEvents == 0 {
		return nil
	}
	fmt.Fprintf(w, "Time range:   %s - %s (%s)\n\n",
		stats.TimeRange.Start.UTC().Format(timeLayout),
		stats.TimeRange.End.UTC().Format(timeLayout),
		stats.TimeRange.End.Sub(stats.TimeRange.Start))

	fmt.Fprintln(w, "By kind:")
	for _, k := range []diag.Kind{diag.KindContractViolation, diag.KindFault, diag.KindStateChange, diag.KindTrace} {
		if n := stats.EventsByKind[k]; n > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", k, n)
		}
	}

	fmt.Fprintln(w, "\nBy severity:")
	for _, s := range []diag.Severity{diag.SeverityDebug, diag.SeverityInfo, diag.SeverityWarning, diag.SeverityError} {
		if n := stats.EventsBySeverity[s]; n > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", s, n)
		}
	}

	names := make([]string, 0, len(stats.Objects))
	for name := range stats.Objects {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "\nBy object:")
	for _, name := range names {
		obj := stats.Objects[name]
		fmt.Fprintf(w, "  %s: %d events, %d violations, %d faults\n", name, obj.Events, obj.Violations, obj.Faults)

		ops := make([]string, 0, len(obj.Operations))
		for op := range obj.Operations {
			ops = append(ops, op)
		}
		sort.Strings(ops)
		for _, op := range ops {
			fmt.Fprintf(w, "    %s: %d\n", op, obj.Operations[op])
		}
	}
	return nil
}

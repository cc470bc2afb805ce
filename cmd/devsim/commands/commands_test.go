package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/devmodel/devmodel-go/pkg/diag"
	"github.com/devmodel/devmodel-go/pkg/iface"
)

func intPtr(v int) *int { return &v }

var testEvents = []diag.Event{
	{
		Timestamp: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		ObjectID:  "7d0c1f8e-0000-4000-8000-000000000001",
		Object:    "ide0",
		Kind:      diag.KindStateChange,
		Severity:  diag.SeverityInfo,
		StateChange: &diag.StateChange{
			Entity:   "dma",
			OldState: "idle",
			NewState: "armed",
		},
	},
	{
		Timestamp: time.Date(2026, 3, 2, 9, 0, 1, 500000000, time.UTC),
		ObjectID:  "7d0c1f8e-0000-4000-8000-000000000002",
		Object:    "bm0",
		Kind:      diag.KindContractViolation,
		Severity:  diag.SeverityWarning,
		Table:     iface.NameBusMasterIDE,
		Operation: "transfer_dma",
		Channel:   intPtr(3),
		Drive:     intPtr(0),
		Message:   "unknown channel/drive pair 3/0",
	},
	{
		Timestamp: time.Date(2026, 3, 2, 9, 0, 2, 0, time.UTC),
		ObjectID:  "7d0c1f8e-0000-4000-8000-000000000002",
		Object:    "bm0",
		Kind:      diag.KindFault,
		Severity:  diag.SeverityError,
		Table:     iface.NameBusMasterIDE,
		Operation: "transfer_dma",
		Channel:   intPtr(0),
		Message:   "transfer of 8 bytes at 0xfffc: address out of range",
	},
}

func writeTestLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.dlog")
	logger, err := diag.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	for _, e := range testEvents {
		logger.Report(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFormatStateChangeEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, testEvents[0])
	output := buf.String()

	if !strings.Contains(output, "2026-03-02T09:00:00.000000Z [obj:ide0] INFO  STATE") {
		t.Errorf("unexpected header: %s", output)
	}
	if !strings.Contains(output, "Entity: dma") || !strings.Contains(output, "idle -> armed") {
		t.Errorf("missing state change details: %s", output)
	}
}

func TestFormatViolationEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, testEvents[1])
	output := buf.String()

	if !strings.Contains(output, "VIOLATION bus_master_ide.transfer_dma") {
		t.Errorf("expected kind and operation, got: %s", output)
	}
	if !strings.Contains(output, "Channel: 3  Drive: 0") {
		t.Errorf("expected channel and drive, got: %s", output)
	}
	if !strings.Contains(output, "unknown channel/drive pair 3/0") {
		t.Errorf("expected message, got: %s", output)
	}
}

func TestParseKindFlag(t *testing.T) {
	tests := map[string]diag.Kind{
		"violation": diag.KindContractViolation,
		"FAULT":     diag.KindFault,
		"state":     diag.KindStateChange,
		"trace":     diag.KindTrace,
	}
	for in, want := range tests {
		got, err := ParseKindFlag(in)
		if err != nil {
			t.Errorf("ParseKindFlag(%q) error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseKindFlag(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseKindFlag("frame"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestBuildFilter(t *testing.T) {
	f, err := BuildFilter("bm0", "", "fault", "warn")
	if err != nil {
		t.Fatal(err)
	}
	if f.Object != "bm0" || f.Kind == nil || *f.Kind != diag.KindFault || f.MinSeverity == nil || *f.MinSeverity != diag.SeverityWarning {
		t.Errorf("unexpected filter %+v", f)
	}

	if _, err := BuildFilter("", "", "", "loud"); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestRunView(t *testing.T) {
	path := writeTestLog(t)

	var buf bytes.Buffer
	if err := RunView(path, diag.Filter{}, &buf); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "[obj:"); got != 3 {
		t.Errorf("viewed %d events, want 3", got)
	}

	buf.Reset()
	filter, _ := BuildFilter("bm0", "", "", "error")
	if err := RunView(path, filter, &buf); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "[obj:"); got != 1 {
		t.Errorf("viewed %d events, want 1:\n%s", got, buf.String())
	}
	if !strings.Contains(buf.String(), "FAULT") {
		t.Errorf("expected the fault event:\n%s", buf.String())
	}
}

func TestRunViewMissingFile(t *testing.T) {
	if err := RunView(filepath.Join(t.TempDir(), "none.dlog"), diag.Filter{}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCollectStats(t *testing.T) {
	stats, err := CollectStats(writeTestLog(t))
	if err != nil {
		t.Fatal(err)
	}

	if stats.TotalEvents != 3 {
		t.Errorf("TotalEvents = %d, want 3", stats.TotalEvents)
	}
	if stats.EventsByKind[diag.KindFault] != 1 {
		t.Errorf("faults = %d, want 1", stats.EventsByKind[diag.KindFault])
	}
	bm := stats.Objects["bm0"]
	if bm == nil || bm.Events != 2 || bm.Violations != 1 || bm.Faults != 1 {
		t.Errorf("bm0 stats = %+v", bm)
	}
	if bm != nil && bm.Operations["bus_master_ide.transfer_dma"] != 2 {
		t.Errorf("operations = %v", bm.Operations)
	}
	if got := stats.TimeRange.End.Sub(stats.TimeRange.Start); got != 2*time.Second {
		t.Errorf("time range = %s, want 2s", got)
	}
}

func TestRunStats(t *testing.T) {
	var buf bytes.Buffer
	if err := RunStats(writeTestLog(t), &buf); err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	for _, want := range []string{"Total events: 3", "VIOLATION  1", "bm0: 2 events, 1 violations, 1 faults", "ide0: 1 events"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestRunExportJSONL(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.jsonl")
	if err := RunExport(writeTestLog(t), "jsonl", out); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}

	var event diag.Event
	if err := json.Unmarshal([]byte(lines[1]), &event); err != nil {
		t.Fatal(err)
	}
	if event.Object != "bm0" || event.Channel == nil || *event.Channel != 3 {
		t.Errorf("decoded %+v", event)
	}
}

func TestRunExportCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	if err := RunExport(writeTestLog(t), "csv", out); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want header + 3", len(records))
	}
	if records[0][0] != "timestamp" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][9] != "dma: idle -> armed" {
		t.Errorf("state change message = %q", records[1][9])
	}
	if records[3][7] != "0" || records[3][8] != "" {
		t.Errorf("channel/drive = %q/%q", records[3][7], records[3][8])
	}
}

func TestRunExportUnknownFormat(t *testing.T) {
	if err := RunExport(writeTestLog(t), "xml", filepath.Join(t.TempDir(), "x")); err == nil {
		t.Error("expected error for unknown format")
	}
}

package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

var testMachine = filepath.Join("testdata", "piix.yaml")

func TestRunInspect(t *testing.T) {
	var buf bytes.Buffer
	if err := RunInspect(testMachine, InspectOptions{}, &buf); err != nil {
		t.Fatal(err)
	}
	output := buf.String()

	for _, want := range []string{
		"piix (format 1.0, 8192 bytes memory)",
		"bm0 (bus-master-ide)",
		"bus_master_ide{transfer_dma, interrupt, interrupt_clear}",
		"ide_dma_v2{dma_ready, dma_not_ready, hard_reset}",
		"Address map:",
		"0x0000c000-0x0000c00f bm0/bmide",
		"Warnings:",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestRunInspectPath(t *testing.T) {
	var buf bytes.Buffer
	if err := RunInspect(testMachine, InspectOptions{Path: "ide0/ide"}, &buf); err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	if !strings.HasPrefix(output, "ide0/ide - ATA task file") {
		t.Errorf("unexpected output:\n%s", output)
	}
	if strings.Contains(output, "bm0") {
		t.Errorf("path output should be limited to ide0:\n%s", output)
	}

	if err := RunInspect(testMachine, InspectOptions{Path: "nope"}, &buf); err == nil {
		t.Error("expected error for unknown object")
	}
}

func TestRunDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := RunDecode(testMachine, []string{"0x1f7", "0xc001", "0x2000"}, &buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "0x1f7: ide0/ide/status") || !strings.HasSuffix(lines[0], "= 0x50") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "(no register)") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "0x2000: ide1/bank1/r") {
		t.Errorf("line 2 = %q", lines[2])
	}

	if err := RunDecode(testMachine, []string{"0x9000"}, &buf); err == nil {
		t.Error("expected error for unmapped address")
	}
	if err := RunDecode(testMachine, []string{"zzz"}, &buf); err == nil {
		t.Error("expected error for bad address")
	}
}

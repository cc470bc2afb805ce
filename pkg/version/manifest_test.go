package version

import (
	"slices"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Loading tests
// ---------------------------------------------------------------------------

func TestLoadCurrentManifest(t *testing.T) {
	m, err := LoadCurrentManifest()
	if err != nil {
		t.Fatalf("LoadCurrentManifest() error: %v", err)
	}
	if m.Version != Current {
		t.Errorf("Version = %q, want %q", m.Version, Current)
	}
	if m.Description == "" {
		t.Error("Description is empty")
	}
}

func TestLoadManifest_Cached(t *testing.T) {
	a, err := LoadManifest("1.0")
	if err != nil {
		t.Fatal(err)
	}
	b, err := LoadManifest("1.0")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("second load should return the cached manifest")
	}
}

func TestLoadManifest_NotFound(t *testing.T) {
	if _, err := LoadManifest("99.99"); err == nil {
		t.Fatal("LoadManifest(99.99) should return error")
	}
}

func TestAvailableManifests(t *testing.T) {
	versions, err := AvailableManifests()
	if err != nil {
		t.Fatalf("AvailableManifests() error: %v", err)
	}
	if !slices.Contains(versions, "1.0") {
		t.Errorf("AvailableManifests() = %v, want to contain %q", versions, "1.0")
	}
}

// ---------------------------------------------------------------------------
// Content tests -- verify the 1.0 manifest
// ---------------------------------------------------------------------------

func TestManifest10_Kinds(t *testing.T) {
	m := mustLoadManifest(t, "1.0")

	want := []string{"bus-master-ide", "ide-controller"}
	if got := m.KindNames(); !slices.Equal(got, want) {
		t.Errorf("KindNames() = %v, want %v", got, want)
	}
}

func TestManifest10_ControllerTables(t *testing.T) {
	m := mustLoadManifest(t, "1.0")
	ctrl := m.Kinds["ide-controller"]

	if !slices.Equal(ctrl.Tables, []string{"ide_dma", "ide_dma_v2"}) {
		t.Errorf("ide-controller tables = %v", ctrl.Tables)
	}
	if !slices.Equal(ctrl.Banks, []string{"ide"}) {
		t.Errorf("ide-controller banks = %v", ctrl.Banks)
	}
}

// ---------------------------------------------------------------------------
// Validation tests
// ---------------------------------------------------------------------------

func TestValidateObject_Complete(t *testing.T) {
	m := mustLoadManifest(t, "1.0")

	result := ValidateObject(m, ObjectCapabilities{
		Name:   "bm0",
		Kind:   "bus-master-ide",
		Tables: []string{"bus_master_ide"},
		Banks:  []string{"bmide"},
	})
	if !result.Valid {
		t.Errorf("expected valid, got errors %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", result.Warnings)
	}
}

func TestValidateObject_MissingTable(t *testing.T) {
	m := mustLoadManifest(t, "1.0")

	result := ValidateObject(m, ObjectCapabilities{
		Name:   "ide0",
		Kind:   "ide-controller",
		Tables: []string{"ide_dma"},
		Banks:  []string{"ide"},
	})
	if result.Valid {
		t.Fatal("expected invalid")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "ide_dma_v2") {
		t.Errorf("Errors = %v, want one error naming ide_dma_v2", result.Errors)
	}
}

func TestValidateObject_ExtraBankWarns(t *testing.T) {
	m := mustLoadManifest(t, "1.0")

	result := ValidateObject(m, ObjectCapabilities{
		Name:   "ide0",
		Kind:   "ide-controller",
		Tables: []string{"ide_dma", "ide_dma_v2"},
		Banks:  []string{"ide", "bank0"},
	})
	if !result.Valid {
		t.Errorf("expected valid, got errors %v", result.Errors)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one", result.Warnings)
	}
}

func TestValidateObject_UnknownKind(t *testing.T) {
	m := mustLoadManifest(t, "1.0")

	result := ValidateObject(m, ObjectCapabilities{Name: "x", Kind: "floppy"})
	if result.Valid {
		t.Fatal("expected invalid")
	}
	if !strings.Contains(result.Errors[0], "floppy") {
		t.Errorf("Errors = %v", result.Errors)
	}
}

func mustLoadManifest(t *testing.T, ver string) *Manifest {
	t.Helper()
	m, err := LoadManifest(ver)
	if err != nil {
		t.Fatalf("LoadManifest(%q) error: %v", ver, err)
	}
	return m
}

package version

import (
	"embed"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed manifests/*.yaml
var manifestFS embed.FS

// Manifest describes the device kinds a format version knows about.
type Manifest struct {
	Version     string              `yaml:"version"`
	Description string              `yaml:"description"`
	Kinds       map[string]KindSpec `yaml:"kinds"`
}

// KindSpec describes what an object of one kind must carry.
type KindSpec struct {
	Description string   `yaml:"description"`
	Tables      []string `yaml:"tables"`
	Banks       []string `yaml:"banks"`
}

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*Manifest)
)

// LoadManifest loads a manifest by version string (e.g. "1.0").
func LoadManifest(ver string) (*Manifest, error) {
	cacheMu.RLock()
	if m, ok := cache[ver]; ok {
		cacheMu.RUnlock()
		return m, nil
	}
	cacheMu.RUnlock()

	data, err := manifestFS.ReadFile("manifests/" + ver + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("manifest for version %q not found: %w", ver, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %q: %w", ver, err)
	}

	cacheMu.Lock()
	cache[ver] = &m
	cacheMu.Unlock()

	return &m, nil
}

// LoadCurrentManifest loads the manifest for the current format version.
func LoadCurrentManifest() (*Manifest, error) {
	return LoadManifest(Current)
}

// AvailableManifests returns the version strings of all embedded manifests.
func AvailableManifests() ([]string, error) {
	entries, err := manifestFS.ReadDir("manifests")
	if err != nil {
		return nil, fmt.Errorf("reading manifests directory: %w", err)
	}

	var versions []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") {
			versions = append(versions, strings.TrimSuffix(name, ".yaml"))
		}
	}
	sort.Strings(versions)
	return versions, nil
}

// KindNames returns the known kinds, sorted.
func (m *Manifest) KindNames() []string {
	out := make([]string, 0, len(m.Kinds))
	for name := range m.Kinds {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ObjectCapabilities describes what an object actually carries.
type ObjectCapabilities struct {
	Name   string
	Kind   string
	Tables []string
	Banks  []string
}

// ValidationResult holds the outcome of validating an object against a manifest.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// ValidateObject checks that an object publishes every table and carries
// every bank its kind requires. Extra tables and banks are warnings.
func ValidateObject(m *Manifest, obj ObjectCapabilities) ValidationResult {
	var result ValidationResult

	kind, ok := m.Kinds[obj.Kind]
	if !ok {
		result.Errors = append(result.Errors,
			fmt.Sprintf("object %s: unknown kind %q", obj.Name, obj.Kind))
		return result
	}

	for _, table := range kind.Tables {
		if !slices.Contains(obj.Tables, table) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("object %s: missing table %s", obj.Name, table))
		}
	}
	for _, bank := range kind.Banks {
		if !slices.Contains(obj.Banks, bank) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("object %s: missing bank %s", obj.Name, bank))
		}
	}

	for _, table := range obj.Tables {
		if !slices.Contains(kind.Tables, table) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("object %s: table %s not listed for kind %s", obj.Name, table, obj.Kind))
		}
	}
	for _, bank := range obj.Banks {
		if !slices.Contains(kind.Banks, bank) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("object %s: extra bank %s", obj.Name, bank))
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

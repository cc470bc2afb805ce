package machine

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/devmodel/devmodel-go/pkg/regbank"
)

// Object kinds.
const (
	KindController = "ide-controller"
	KindBusMaster  = "bus-master-ide"
)

// DefaultMemorySize is the RAM size used when a file does not set one.
const DefaultMemorySize = 64 << 10

// File is the YAML form of a machine description.
type File struct {
	// Version is the format version, "major.minor". Empty means current.
	Version string `yaml:"version"`

	// Name labels the machine in tool output.
	Name string `yaml:"name,omitempty"`

	// Memory is the RAM size in bytes that bus masters transfer to.
	Memory int `yaml:"memory,omitempty"`

	// Objects are the devices of the machine.
	Objects []ObjectSpec `yaml:"objects"`

	// Banks are extra register banks attached to objects.
	Banks []BankSpec `yaml:"banks,omitempty"`

	// Mappings place object banks in the address space.
	Mappings []MappingSpec `yaml:"mappings,omitempty"`
}

// ObjectSpec describes one device.
type ObjectSpec struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`

	// Channel and Drive select the pair an ide-controller serves.
	Channel int `yaml:"channel,omitempty"`
	Drive   int `yaml:"drive,omitempty"`

	// BusMaster names the bus-master-ide object an ide-controller uses.
	BusMaster string `yaml:"bus_master,omitempty"`

	// Burst caps the bytes a bus-master-ide moves per transfer call.
	Burst int `yaml:"burst,omitempty"`

	// Line is the source line of the entry, 0 if unknown.
	Line int `yaml:"-"`
}

// BankSpec attaches a bank to an object. The bank accepts both the mapping
// and the compact sequence form.
type BankSpec struct {
	Object string        `yaml:"object"`
	Bank   *regbank.Bank `yaml:"bank"`
	Line   int           `yaml:"-"`
}

// MappingSpec maps an object's bank at a base address.
type MappingSpec struct {
	Object string `yaml:"object"`
	Bank   string `yaml:"bank"`
	Base   uint64 `yaml:"base"`
	Line   int    `yaml:"-"`
}

// UnmarshalYAML records the entry's line.
func (s *ObjectSpec) UnmarshalYAML(node *yaml.Node) error {
	type plain ObjectSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = ObjectSpec(p)
	s.Line = node.Line
	return nil
}

// UnmarshalYAML records the entry's line.
func (s *BankSpec) UnmarshalYAML(node *yaml.Node) error {
	type plain BankSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = BankSpec(p)
	s.Line = node.Line
	return nil
}

// UnmarshalYAML records the entry's line.
func (s *MappingSpec) UnmarshalYAML(node *yaml.Node) error {
	type plain MappingSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = MappingSpec(p)
	s.Line = node.Line
	return nil
}

// LoadError provides details about a machine loading error.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Line is the line number where the error occurred (0 if unknown).
	Line int

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	prefix := e.File
	if prefix == "" {
		prefix = "machine"
	}
	if e.Line > 0 {
		return prefix + ":" + strconv.Itoa(e.Line) + ": " + msg
	}
	return prefix + ": " + msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

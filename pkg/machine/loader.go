package machine

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/devmodel/devmodel-go/pkg/diag"
	"github.com/devmodel/devmodel-go/pkg/ide"
	"github.com/devmodel/devmodel-go/pkg/iface"
	"github.com/devmodel/devmodel-go/pkg/memspace"
	"github.com/devmodel/devmodel-go/pkg/object"
	"github.com/devmodel/devmodel-go/pkg/version"
)

// ParseFile parses a machine description without building it.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &LoadError{
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}

	if len(f.Objects) == 0 {
		return nil, &LoadError{
			Message: "machine must have at least one object",
		}
	}

	return &f, nil
}

// ParseMachine parses and builds a machine. Diagnostics from its devices go
// to logger, which may be nil.
func ParseMachine(data []byte, logger diag.Logger) (*Machine, error) {
	f, err := ParseFile(data)
	if err != nil {
		return nil, err
	}
	return Build(f, logger)
}

// LoadMachine loads a machine from a file.
func LoadMachine(path string, logger diag.Logger) (*Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	m, err := ParseMachine(data, logger)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{
			File:    path,
			Message: err.Error(),
		}
	}

	return m, nil
}

// Build creates the objects, banks and mappings a File describes.
func Build(f *File, logger diag.Logger) (*Machine, error) {
	if logger == nil {
		logger = diag.NoopLogger{}
	}

	v, err := version.Check(f.Version)
	if err != nil {
		return nil, &LoadError{Message: "unsupported version", Cause: err}
	}
	manifest, err := version.LoadManifest(v.String())
	if err != nil {
		// A newer minor of a known major reads with the current manifest.
		manifest, err = version.LoadCurrentManifest()
		if err != nil {
			return nil, &LoadError{Message: "no device manifest", Cause: err}
		}
	}

	size := f.Memory
	if size == 0 {
		size = DefaultMemorySize
	}
	if size < 0 {
		return nil, &LoadError{Message: fmt.Sprintf("invalid memory size %d", size)}
	}

	m := &Machine{
		Name:        f.Name,
		Version:     v,
		Registry:    object.NewRegistry(),
		Space:       memspace.NewSpace(),
		Memory:      memspace.NewMemory(size),
		logger:      logger,
		busMasters:  make(map[string]*ide.BusMaster),
		controllers: make(map[string]*ide.Controller),
		accessors:   make(map[string]chain),
	}

	for _, spec := range f.Objects {
		if err := m.addObject(spec); err != nil {
			return nil, err
		}
	}
	for _, spec := range f.Objects {
		if spec.Kind == KindController {
			if err := m.wireController(spec); err != nil {
				return nil, err
			}
		}
	}
	for _, spec := range f.Banks {
		if err := m.addBank(spec); err != nil {
			return nil, err
		}
	}

	for _, obj := range m.Registry.Objects() {
		caps := version.ObjectCapabilities{
			Name:   obj.Name(),
			Kind:   obj.Kind(),
			Tables: obj.Tables(),
		}
		for _, b := range obj.Banks() {
			caps.Banks = append(caps.Banks, b.Name())
		}
		result := version.ValidateObject(manifest, caps)
		if !result.Valid {
			return nil, &LoadError{Message: result.Errors[0]}
		}
		m.Warnings = append(m.Warnings, result.Warnings...)
	}

	for _, spec := range f.Mappings {
		if err := m.addMapping(spec); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Machine) addObject(spec ObjectSpec) error {
	if spec.Name == "" {
		return &LoadError{Line: spec.Line, Message: "object name is required"}
	}

	obj := object.New(spec.Name, spec.Kind)
	reporter := diag.NewReporter(m.logger, obj.ID().String(), spec.Name)

	var device any
	switch spec.Kind {
	case KindBusMaster:
		if spec.Burst < 0 {
			return &LoadError{Line: spec.Line, Message: fmt.Sprintf("object %s: invalid burst %d", spec.Name, spec.Burst)}
		}
		bm := ide.NewBusMaster(ide.BusMasterConfig{
			Memory:   m.Memory,
			Burst:    spec.Burst,
			Reporter: reporter,
		})
		if err := obj.AddBank(ide.BusMasterBank()); err != nil {
			return &LoadError{Line: spec.Line, Message: "object " + spec.Name, Cause: err}
		}
		m.busMasters[spec.Name] = bm
		device = bm
	case KindController:
		if spec.Channel < 0 || spec.Channel >= ide.Channels || spec.Drive < 0 || spec.Drive >= ide.DrivesPerChannel {
			return &LoadError{
				Line:    spec.Line,
				Message: fmt.Sprintf("object %s: invalid channel/drive %d/%d", spec.Name, spec.Channel, spec.Drive),
			}
		}
		ctrl := ide.NewController(ide.ControllerConfig{
			Channel:  spec.Channel,
			Drive:    spec.Drive,
			Reporter: reporter,
		})
		if err := obj.AddBank(ide.ControllerBank()); err != nil {
			return &LoadError{Line: spec.Line, Message: "object " + spec.Name, Cause: err}
		}
		m.controllers[spec.Name] = ctrl
		device = ctrl
	default:
		return &LoadError{Line: spec.Line, Message: fmt.Sprintf("object %s: unknown kind %q", spec.Name, spec.Kind)}
	}

	if _, err := obj.PublishImplemented(device); err != nil {
		return &LoadError{Line: spec.Line, Message: "object " + spec.Name, Cause: err}
	}
	if err := m.Registry.Add(obj); err != nil {
		return &LoadError{Line: spec.Line, Message: "object " + spec.Name, Cause: err}
	}
	m.accessors[spec.Name] = chain{device.(memspace.RegisterAccessor)}
	return nil
}

// wireController resolves the controller's bus master through the registry
// and attaches the controller to it.
func (m *Machine) wireController(spec ObjectSpec) error {
	if spec.BusMaster == "" {
		return &LoadError{Line: spec.Line, Message: fmt.Sprintf("object %s: bus_master is required", spec.Name)}
	}
	impl, err := m.Registry.Lookup(spec.BusMaster, iface.NameBusMasterIDE)
	if err != nil {
		return &LoadError{Line: spec.Line, Message: "object " + spec.Name, Cause: err}
	}

	ctrl := m.controllers[spec.Name]
	ctrl.SetBusMaster(impl.(iface.BusMasterIDE))

	bm := m.busMasters[spec.BusMaster]
	key := attachment{busMaster: spec.BusMaster, channel: spec.Channel, drive: spec.Drive}
	if m.attached == nil {
		m.attached = make(map[attachment]string)
	}
	if other, taken := m.attached[key]; taken {
		return &LoadError{
			Line:    spec.Line,
			Message: fmt.Sprintf("object %s: %s channel %d drive %d already serves %s", spec.Name, spec.BusMaster, spec.Channel, spec.Drive, other),
		}
	}
	if err := bm.Attach(spec.Channel, spec.Drive, ctrl); err != nil {
		return &LoadError{Line: spec.Line, Message: "object " + spec.Name, Cause: err}
	}
	m.attached[key] = spec.Name
	return nil
}

func (m *Machine) addBank(spec BankSpec) error {
	if spec.Bank == nil {
		return &LoadError{Line: spec.Line, Message: "bank is required"}
	}
	obj, err := m.Registry.Get(spec.Object)
	if err != nil {
		return &LoadError{Line: spec.Line, Message: "bank " + spec.Bank.Name(), Cause: err}
	}
	if err := obj.AddBank(spec.Bank); err != nil {
		return &LoadError{Line: spec.Line, Message: "bank " + spec.Bank.Name(), Cause: err}
	}

	acc := m.accessors[spec.Object]
	var file *registerFile
	for _, a := range acc {
		if rf, ok := a.(*registerFile); ok {
			file = rf
		}
	}
	if file == nil {
		file = newRegisterFile()
		m.accessors[spec.Object] = append(acc, file)
	}
	file.add(spec.Bank)
	return nil
}

func (m *Machine) addMapping(spec MappingSpec) error {
	obj, err := m.Registry.Get(spec.Object)
	if err != nil {
		return &LoadError{Line: spec.Line, Message: "mapping", Cause: err}
	}
	if err := m.Space.Map(spec.Base, obj, spec.Bank, m.accessors[spec.Object]); err != nil {
		return &LoadError{
			Line:    spec.Line,
			Message: fmt.Sprintf("mapping %s.%s at %#x", spec.Object, spec.Bank, spec.Base),
			Cause:   err,
		}
	}
	return nil
}

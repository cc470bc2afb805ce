package inspect

import (
	"errors"
	"fmt"

	"github.com/devmodel/devmodel-go/pkg/machine"
	"github.com/devmodel/devmodel-go/pkg/memspace"
	"github.com/devmodel/devmodel-go/pkg/object"
	"github.com/devmodel/devmodel-go/pkg/regbank"
)

// Inspector errors.
var (
	ErrRegisterNotFound = errors.New("register not found")
	ErrNotWritable      = errors.New("register is not writable")
	ErrPartialPath      = errors.New("path does not name a register")
)

// Inspector provides inspection and mutation capabilities for a machine.
type Inspector struct {
	machine *machine.Machine
}

// NewInspector creates a new Inspector for the given machine.
func NewInspector(m *machine.Machine) *Inspector {
	return &Inspector{machine: m}
}

// Machine returns the underlying machine.
func (i *Inspector) Machine() *machine.Machine {
	return i.machine
}

// RegisterInfo is a register with its current value.
type RegisterInfo struct {
	Register regbank.Register
	Value    uint64

	// Readable is false for write-only registers; Value is then 0.
	Readable bool
}

// BankInfo is a bank with the current values of its registers.
type BankInfo struct {
	Object    string
	Bank      *regbank.Bank
	Registers []RegisterInfo
}

// InspectObject returns an object's summary.
func (i *Inspector) InspectObject(name string) (*object.Info, error) {
	obj, err := i.machine.Registry.Get(name)
	if err != nil {
		return nil, err
	}
	return obj.Info(), nil
}

// InspectBank returns a bank of an object with current register values.
func (i *Inspector) InspectBank(objectName, bankName string) (*BankInfo, error) {
	obj, err := i.machine.Registry.Get(objectName)
	if err != nil {
		return nil, err
	}
	bank, err := obj.Bank(bankName)
	if err != nil {
		return nil, err
	}

	acc, _ := i.machine.Accessor(objectName)
	info := &BankInfo{Object: objectName, Bank: bank}
	for _, r := range bank.Registers() {
		ri := RegisterInfo{Register: r}
		if !r.Flags.Has(regbank.FlagWriteOnly) && acc != nil {
			if v, ok := acc.ReadRegister(bankName, r.Name); ok {
				ri.Value = v & r.Mask()
				ri.Readable = true
			}
		}
		info.Registers = append(info.Registers, ri)
	}
	return info, nil
}

// Read reads the register a path names.
func (i *Inspector) Read(path *Path) (uint64, error) {
	r, acc, err := i.resolve(path)
	if err != nil {
		return 0, err
	}
	if r.Flags.Has(regbank.FlagWriteOnly) {
		return 0, nil
	}
	v, ok := acc.ReadRegister(path.Bank, path.Register)
	if !ok {
		return 0, fmt.Errorf("%w: %s", memspace.ErrNotAccepted, path)
	}
	return v & r.Mask(), nil
}

// Write writes the register a path names. The value is truncated to the
// register width.
func (i *Inspector) Write(path *Path, value uint64) error {
	r, acc, err := i.resolve(path)
	if err != nil {
		return err
	}
	if r.Flags.Has(regbank.FlagReadOnly) {
		return fmt.Errorf("%w: %s", ErrNotWritable, path)
	}
	if !acc.WriteRegister(path.Bank, path.Register, value&r.Mask()) {
		return fmt.Errorf("%w: %s", memspace.ErrNotAccepted, path)
	}
	return nil
}

// ReadAddress reads the register mapped at addr.
func (i *Inspector) ReadAddress(addr uint64) (uint64, error) {
	return i.machine.Space.Read(addr)
}

// WriteAddress writes the register mapped at addr.
func (i *Inspector) WriteAddress(addr, value uint64) error {
	return i.machine.Space.Write(addr, value)
}

// Decode resolves an address.
func (i *Inspector) Decode(addr uint64) (memspace.Hit, error) {
	return i.machine.Space.Decode(addr)
}

func (i *Inspector) resolve(path *Path) (regbank.Register, memspace.RegisterAccessor, error) {
	if path == nil || path.IsPartial {
		return regbank.Register{}, nil, ErrPartialPath
	}
	obj, err := i.machine.Registry.Get(path.Object)
	if err != nil {
		return regbank.Register{}, nil, err
	}
	bank, err := obj.Bank(path.Bank)
	if err != nil {
		return regbank.Register{}, nil, err
	}
	r, ok := bank.Register(path.Register)
	if !ok {
		return regbank.Register{}, nil, fmt.Errorf("%w: %s", ErrRegisterNotFound, path)
	}
	acc, ok := i.machine.Accessor(path.Object)
	if !ok {
		return regbank.Register{}, nil, fmt.Errorf("%w: %s", memspace.ErrNoAccessor, path.Object)
	}
	return r, acc, nil
}

package memspace

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/devmodel/devmodel-go/pkg/object"
	"github.com/devmodel/devmodel-go/pkg/regbank"
)

// Address space errors.
var (
	ErrNilObject    = errors.New("nil object")
	ErrEmptyBank    = errors.New("bank decodes no addresses")
	ErrOverlap      = errors.New("mapping overlaps an existing mapping")
	ErrAddressRange = errors.New("mapping extends past the end of the address space")
	ErrUnmapped     = errors.New("address not mapped")
	ErrNoRegister   = errors.New("address falls between registers")
	ErrMisaligned   = errors.New("access does not start at a register boundary")
	ErrNoAccessor   = errors.New("mapping has no register accessor")
	ErrReadOnly     = errors.New("register is read-only")
	ErrNotAccepted  = errors.New("device rejected the access")
)

// RegisterAccessor is implemented by devices whose banks can be accessed
// through the address space.
type RegisterAccessor interface {
	// ReadRegister returns the current value of a register.
	ReadRegister(bank, register string) (uint64, bool)

	// WriteRegister stores a register value. It returns false if the device
	// does not know the register.
	WriteRegister(bank, register string, value uint64) bool
}

// Mapping places one bank at a base address.
type Mapping struct {
	Base     uint64
	Object   *object.Object
	Bank     *regbank.Bank
	accessor RegisterAccessor
}

// End returns the first address past the mapping. Map guarantees it does
// not wrap.
func (m Mapping) End() uint64 {
	return m.Base + m.Bank.Span()
}

// Hit is the result of decoding an address.
type Hit struct {
	Mapping

	// Register is the decoded register; valid when HasRegister is true.
	Register    regbank.Register
	HasRegister bool

	// Offset is the address offset within the bank.
	Offset uint64
}

// Space is an address space built from register banks.
// Mapping is done at configuration time; decoding is read-only.
type Space struct {
	mappings []Mapping // sorted by Base
}

// NewSpace creates an empty address space.
func NewSpace() *Space {
	return &Space{}
}

// Map places the named bank of obj at base. acc may be nil if the bank is
// only decoded, never accessed.
func (s *Space) Map(base uint64, obj *object.Object, bankName string, acc RegisterAccessor) error {
	if obj == nil {
		return ErrNilObject
	}
	bank, err := obj.Bank(bankName)
	if err != nil {
		return err
	}
	if bank.Span() == 0 {
		return fmt.Errorf("%w: %s.%s", ErrEmptyBank, obj.Name(), bankName)
	}
	if base > math.MaxUint64-bank.Span() {
		return fmt.Errorf("%w: %s.%s at %#x (%d bytes)", ErrAddressRange, obj.Name(), bankName, base, bank.Span())
	}

	m := Mapping{Base: base, Object: obj, Bank: bank, accessor: acc}
	for _, existing := range s.mappings {
		if m.Base < existing.End() && existing.Base < m.End() {
			return fmt.Errorf("%w: %s.%s at %#x-%#x and %s.%s at %#x-%#x", ErrOverlap,
				obj.Name(), bankName, m.Base, m.End()-1,
				existing.Object.Name(), existing.Bank.Name(), existing.Base, existing.End()-1)
		}
	}

	i := sort.Search(len(s.mappings), func(i int) bool { return s.mappings[i].Base > base })
	s.mappings = slices.Insert(s.mappings, i, m)
	return nil
}

// Mappings returns the mappings in address order.
func (s *Space) Mappings() []Mapping {
	return slices.Clone(s.mappings)
}

// Decode resolves an address. An address inside a bank but between
// registers yields a Hit with HasRegister false.
func (s *Space) Decode(addr uint64) (Hit, error) {
	i := sort.Search(len(s.mappings), func(i int) bool { return s.mappings[i].End() > addr })
	if i == len(s.mappings) || addr < s.mappings[i].Base {
		return Hit{}, fmt.Errorf("%w: %#x", ErrUnmapped, addr)
	}

	m := s.mappings[i]
	hit := Hit{Mapping: m, Offset: addr - m.Base}
	hit.Register, hit.HasRegister = m.Bank.At(hit.Offset)
	return hit, nil
}

// Read reads the register starting at addr.
// Write-only registers read as zero.
func (s *Space) Read(addr uint64) (uint64, error) {
	hit, err := s.register(addr)
	if err != nil {
		return 0, err
	}
	if hit.Register.Flags.Has(regbank.FlagWriteOnly) {
		return 0, nil
	}
	v, ok := hit.accessor.ReadRegister(hit.Bank.Name(), hit.Register.Name)
	if !ok {
		return 0, fmt.Errorf("%w: read %s.%s", ErrNotAccepted, hit.Bank.Name(), hit.Register.Name)
	}
	return v & hit.Register.Mask(), nil
}

// Write writes the register starting at addr. The value is truncated to the
// register width.
func (s *Space) Write(addr, value uint64) error {
	hit, err := s.register(addr)
	if err != nil {
		return err
	}
	if hit.Register.Flags.Has(regbank.FlagReadOnly) {
		return fmt.Errorf("%w: %s.%s", ErrReadOnly, hit.Bank.Name(), hit.Register.Name)
	}
	if !hit.accessor.WriteRegister(hit.Bank.Name(), hit.Register.Name, value&hit.Register.Mask()) {
		return fmt.Errorf("%w: write %s.%s", ErrNotAccepted, hit.Bank.Name(), hit.Register.Name)
	}
	return nil
}

func (s *Space) register(addr uint64) (Hit, error) {
	hit, err := s.Decode(addr)
	if err != nil {
		return Hit{}, err
	}
	if !hit.HasRegister {
		return Hit{}, fmt.Errorf("%w: %#x in %s.%s", ErrNoRegister, addr, hit.Object.Name(), hit.Bank.Name())
	}
	if hit.Offset != hit.Register.Offset {
		return Hit{}, fmt.Errorf("%w: %#x inside %s.%s", ErrMisaligned, addr, hit.Bank.Name(), hit.Register.Name)
	}
	if hit.accessor == nil {
		return Hit{}, fmt.Errorf("%w: %s.%s", ErrNoAccessor, hit.Object.Name(), hit.Bank.Name())
	}
	return hit, nil
}

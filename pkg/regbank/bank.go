package regbank

import (
	"cmp"
	"fmt"
	"slices"
)

// Bank describes one addressable register bank.
// Registers keep insertion order, not address order.
type Bank struct {
	name        string
	description string
	registers   []Register
}

// New creates a bank from typed fields.
// The name must be non-empty and register names pairwise unique.
func New(name, description string, registers ...Register) (*Bank, error) {
	if name == "" {
		return nil, &ValidationError{Err: ErrEmptyName}
	}

	seen := make(map[string]struct{}, len(registers))
	for _, r := range registers {
		if _, dup := seen[r.Name]; dup {
			return nil, &ValidationError{Bank: name, Register: r.Name, Err: ErrDuplicateRegister}
		}
		seen[r.Name] = struct{}{}
	}

	return &Bank{
		name:        name,
		description: description,
		registers:   slices.Clone(registers),
	}, nil
}

// MustNew is like New but panics on error. Intended for static bank tables.
func MustNew(name, description string, registers ...Register) *Bank {
	b, err := New(name, description, registers...)
	if err != nil {
		panic(err)
	}
	return b
}

// Name returns the bank name.
func (b *Bank) Name() string {
	return b.name
}

// Description returns the bank description.
func (b *Bank) Description() string {
	return b.description
}

// Registers returns a copy of the registers in insertion order.
func (b *Bank) Registers() []Register {
	return slices.Clone(b.registers)
}

// Len returns the number of registers.
func (b *Bank) Len() int {
	return len(b.registers)
}

// Decompose returns the bank as its (name, description, registers) triple.
// The register slice is a copy.
func (b *Bank) Decompose() (name, description string, registers []Register) {
	return b.name, b.description, slices.Clone(b.registers)
}

// Register returns the register with the given name.
func (b *Bank) Register(name string) (Register, bool) {
	for _, r := range b.registers {
		if r.Name == name {
			return r, true
		}
	}
	return Register{}, false
}

// ByOffset returns a copy of the registers sorted by offset.
// Registers at the same offset keep insertion order.
func (b *Bank) ByOffset() []Register {
	sorted := slices.Clone(b.registers)
	slices.SortStableFunc(sorted, func(x, y Register) int {
		return cmp.Compare(x.Offset, y.Offset)
	})
	return sorted
}

// At returns the register containing the bank offset.
func (b *Bank) At(offset uint64) (Register, bool) {
	for _, r := range b.registers {
		if r.Contains(offset) {
			return r, true
		}
	}
	return Register{}, false
}

// Span returns the number of bytes the bank decodes: the highest register end.
func (b *Bank) Span() uint64 {
	var span uint64
	for _, r := range b.registers {
		span = max(span, r.End())
	}
	return span
}

// Equal reports whether two banks are structurally identical.
func (b *Bank) Equal(o *Bank) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.name == o.name &&
		b.description == o.description &&
		slices.Equal(b.registers, o.registers)
}

// Validate checks that the bank is ready for use by a host: every register is
// named, between 1 and MaxRegisterSize bytes wide, has a reset value that fits
// its width, does not combine read-only and write-only, and overlaps no other
// register.
func (b *Bank) Validate() error {
	for _, r := range b.registers {
		var err error
		switch {
		case r.Name == "":
			err = ErrUnnamedRegister
		case r.Size == 0:
			err = ErrZeroSize
		case r.Size > MaxRegisterSize:
			err = ErrRegisterTooWide
		case r.Reset&^r.Mask() != 0:
			err = ErrResetWidth
		case r.Flags.Has(FlagReadOnly | FlagWriteOnly):
			err = ErrFlagConflict
		}
		if err != nil {
			return &ValidationError{Bank: b.name, Register: r.Name, Err: err}
		}
	}

	sorted := b.ByOffset()
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Overlaps(sorted[i]) {
			return &ValidationError{
				Bank:     b.name,
				Register: sorted[i].Name,
				Err:      fmt.Errorf("%w with %q", ErrOverlap, sorted[i-1].Name),
			}
		}
	}
	return nil
}

// String returns a short summary of the bank.
func (b *Bank) String() string {
	return fmt.Sprintf("%s (%d registers, %d bytes)", b.name, len(b.registers), b.Span())
}

package regbank

// MaxRegisterSize is the widest register a bank may describe, in bytes.
const MaxRegisterSize = 8

// Register describes one register within a bank.
//
// The field order is stable so the positional literal
// Register{"r", "", 0, 1, 0, 0} reads as name, description, offset, size,
// reset value and flags. A zero Register is a placeholder; Bank.Validate
// rejects it.
type Register struct {
	// Name is unique within the owning bank.
	Name string

	// Description is a human-readable description (may be empty).
	Description string

	// Offset is the byte offset within the bank.
	Offset uint64

	// Size is the register width in bytes.
	Size uint64

	// Reset is the power-on value.
	Reset uint64

	// Flags are the register attributes.
	Flags Flags
}

// End returns the offset one past the last byte of the register.
func (r Register) End() uint64 {
	return r.Offset + r.Size
}

// Contains reports whether the bank offset falls inside the register.
func (r Register) Contains(offset uint64) bool {
	return offset >= r.Offset && offset < r.End()
}

// Overlaps reports whether two registers share at least one byte.
func (r Register) Overlaps(o Register) bool {
	return r.Offset < o.End() && o.Offset < r.End()
}

// Mask returns the value mask for the register width.
func (r Register) Mask() uint64 {
	if r.Size >= MaxRegisterSize {
		return ^uint64(0)
	}
	return (uint64(1) << (8 * r.Size)) - 1
}

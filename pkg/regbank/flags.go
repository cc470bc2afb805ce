package regbank

import (
	"fmt"
	"strings"
)

// Flags is the attribute set of a register. The empty set is valid.
type Flags uint8

const (
	// FlagReadOnly marks a register that ignores writes.
	FlagReadOnly Flags = 1 << iota

	// FlagWriteOnly marks a register that reads as zero.
	FlagWriteOnly

	// FlagVolatile marks a register whose value changes without host writes.
	FlagVolatile

	// FlagReserved marks a register kept for layout only.
	FlagReserved
)

var flagNames = []struct {
	flag  Flags
	short string
	long  string
}{
	{FlagReadOnly, "RO", "read-only"},
	{FlagWriteOnly, "WO", "write-only"},
	{FlagVolatile, "V", "volatile"},
	{FlagReserved, "RSV", "reserved"},
}

// Has reports whether every flag in o is set.
func (f Flags) Has(o Flags) bool { return f&o == o }

// String returns the flags as "RO|V", or "-" for the empty set.
func (f Flags) String() string {
	var parts []string
	for _, n := range flagNames {
		if f.Has(n.flag) {
			parts = append(parts, n.short)
		}
	}
	if rest := f &^ (FlagReadOnly | FlagWriteOnly | FlagVolatile | FlagReserved); rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%02x", uint8(rest)))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "|")
}

// Names returns the long names of the set flags.
func (f Flags) Names() []string {
	names := []string{}
	for _, n := range flagNames {
		if f.Has(n.flag) {
			names = append(names, n.long)
		}
	}
	return names
}

// ParseFlags parses "RO|V", "read-only" or a single short name.
// Matching is case-insensitive.
func ParseFlags(s string) (Flags, error) {
	var f Flags
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part == "" || part == "-" {
			continue
		}
		flag, ok := lookupFlag(part)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownFlag, part)
		}
		f |= flag
	}
	return f, nil
}

func lookupFlag(name string) (Flags, bool) {
	for _, n := range flagNames {
		if strings.EqualFold(name, n.short) || strings.EqualFold(name, n.long) {
			return n.flag, true
		}
	}
	return 0, false
}

// Package inspect provides machine inspection and register manipulation
// utilities.
//
// The inspect package offers a unified interface for:
//   - Parsing register paths (e.g., "ide0/ide/status") and addresses
//   - Reading and writing registers by path or by address
//   - Formatting objects, banks and address maps for display
package inspect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Path errors.
var (
	ErrEmptyPath     = errors.New("empty path")
	ErrInvalidPath   = errors.New("invalid path format")
	ErrInvalidNumber = errors.New("invalid numeric value")
)

// Path represents a parsed register path.
// Format: object[/bank[/register]]
type Path struct {
	Object   string
	Bank     string
	Register string

	// IsPartial indicates the path doesn't name a register
	// (used for inspect operations that list a whole object or bank).
	IsPartial bool

	// Raw stores the original input string.
	Raw string
}

// ParsePath parses a path string into a Path struct.
//
// Supported formats:
//   - "object/bank/register" - a single register
//   - "object/bank" - partial (for listing registers)
//   - "object" - partial (for listing banks)
func ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPath
	}

	if strings.HasPrefix(input, "/") || strings.HasSuffix(input, "/") || strings.Contains(input, "//") {
		return nil, ErrInvalidPath
	}

	parts := strings.Split(input, "/")
	if len(parts) > 3 {
		return nil, fmt.Errorf("%w: too many components in %q", ErrInvalidPath, input)
	}

	p := &Path{Raw: input, Object: parts[0], IsPartial: len(parts) < 3}
	if len(parts) > 1 {
		p.Bank = parts[1]
	}
	if len(parts) > 2 {
		p.Register = parts[2]
	}
	return p, nil
}

// String returns the canonical form of the path.
func (p *Path) String() string {
	switch {
	case p.Register != "":
		return p.Object + "/" + p.Bank + "/" + p.Register
	case p.Bank != "":
		return p.Object + "/" + p.Bank
	default:
		return p.Object
	}
}

// ParseNumber parses a decimal, hex (0x), octal (0o) or binary (0b) number.
func ParseNumber(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidNumber
	}
	v, err := strconv.ParseUint(strings.ReplaceAll(s, "_", ""), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return v, nil
}

// IsAddress reports whether s looks like a numeric address rather than a path.
func IsAddress(s string) bool {
	_, err := ParseNumber(s)
	return err == nil
}

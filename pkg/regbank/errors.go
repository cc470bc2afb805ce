package regbank

import (
	"errors"
	"strings"
)

// Validation errors.
var (
	ErrEmptyName         = errors.New("empty bank name")
	ErrDuplicateRegister = errors.New("duplicate register name")
	ErrUnnamedRegister   = errors.New("register has no name")
	ErrZeroSize          = errors.New("register size is zero")
	ErrRegisterTooWide   = errors.New("register wider than 8 bytes")
	ErrResetWidth        = errors.New("reset value exceeds register width")
	ErrFlagConflict      = errors.New("register is both read-only and write-only")
	ErrOverlap           = errors.New("registers overlap")
	ErrMalformedCompact  = errors.New("malformed compact literal")
	ErrUnknownFlag       = errors.New("unknown register flag")
)

// ValidationError reports malformed bank or register input.
type ValidationError struct {
	// Bank is the bank name, if known.
	Bank string

	// Register is the offending register name, if any.
	Register string

	// Err is the underlying sentinel, possibly wrapped with detail.
	Err error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("regbank")
	if e.Bank != "" {
		b.WriteString(" " + quote(e.Bank))
	}
	if e.Register != "" {
		b.WriteString(" register " + quote(e.Register))
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func quote(s string) string {
	return `"` + s + `"`
}

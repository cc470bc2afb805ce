package regbank

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// Compact is the positional literal form of a bank:
//
//	Compact{name, description, registers}
//
// Each register is itself positional, with trailing fields optional:
//
//	[]any{name, description, offset, size, reset, flags}
//
// Integers may be any Go integer kind, an integral float64 or a string such as
// "0x10". Flags may be a Flags value, an integer, a string like "RO|V" or a
// sequence of flag names. A typed Register is accepted as is.
type Compact []any

// Bank converts the literal and validates it through New.
func (c Compact) Bank() (*Bank, error) {
	return FromCompact([]any(c))
}

// FromCompact converts any positional sequence into a Bank.
// It is the conversion used by Compact and by the YAML sequence form.
func FromCompact(v any) (*Bank, error) {
	fields, ok := asSlice(v)
	if !ok || len(fields) == 0 || len(fields) > 3 {
		return nil, malformed("", "", "bank must be a sequence of name, description, registers")
	}

	name, ok := fields[0].(string)
	if !ok {
		return nil, malformed("", "", fmt.Sprintf("bank name must be a string, got %T", fields[0]))
	}

	var description string
	if len(fields) > 1 && fields[1] != nil {
		if description, ok = fields[1].(string); !ok {
			return nil, malformed(name, "", fmt.Sprintf("description must be a string, got %T", fields[1]))
		}
	}

	var registers []Register
	if len(fields) > 2 && fields[2] != nil {
		items, ok := asSlice(fields[2])
		if !ok {
			return nil, malformed(name, "", fmt.Sprintf("registers must be a sequence, got %T", fields[2]))
		}
		registers = make([]Register, 0, len(items))
		for _, item := range items {
			r, err := registerFromCompact(name, item)
			if err != nil {
				return nil, err
			}
			registers = append(registers, r)
		}
	}

	return New(name, description, registers...)
}

func registerFromCompact(bank string, v any) (Register, error) {
	if r, ok := v.(Register); ok {
		return r, nil
	}

	fields, ok := asSlice(v)
	if !ok || len(fields) == 0 || len(fields) > 6 {
		return Register{}, malformed(bank, "", "register must be a sequence of name, description, offset, size, reset, flags")
	}

	var r Register
	if r.Name, ok = fields[0].(string); !ok {
		return Register{}, malformed(bank, "", fmt.Sprintf("register name must be a string, got %T", fields[0]))
	}
	if len(fields) > 1 && fields[1] != nil {
		if r.Description, ok = fields[1].(string); !ok {
			return Register{}, malformed(bank, r.Name, fmt.Sprintf("description must be a string, got %T", fields[1]))
		}
	}

	numbers := []*uint64{&r.Offset, &r.Size, &r.Reset}
	for i, dst := range numbers {
		if len(fields) <= i+2 {
			break
		}
		n, err := asUint(fields[i+2])
		if err != nil {
			return Register{}, malformed(bank, r.Name, err.Error())
		}
		*dst = n
	}

	if len(fields) > 5 {
		f, err := asFlags(fields[5])
		if err != nil {
			return Register{}, &ValidationError{Bank: bank, Register: r.Name, Err: err}
		}
		r.Flags = f
	}
	return r, nil
}

func malformed(bank, register, detail string) error {
	return &ValidationError{
		Bank:     bank,
		Register: register,
		Err:      fmt.Errorf("%w: %s", ErrMalformedCompact, detail),
	}
}

// asSlice returns the elements of any slice or array value.
func asSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		// []byte is data, not a sequence of fields.
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func asUint(v any) (uint64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case string:
		u, err := strconv.ParseUint(n, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", n)
		}
		return u, nil
	case float32:
		return asUint(float64(n))
	case float64:
		// math.MaxUint64 rounds up to 2^64 as a float64, so compare
		// against 2^64 exactly.
		if n < 0 || n != math.Trunc(n) || n >= 1<<64 {
			return 0, fmt.Errorf("invalid number %v", n)
		}
		return uint64(n), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() < 0 {
			return 0, fmt.Errorf("negative number %d", rv.Int())
		}
		return uint64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), nil
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

func asFlags(v any) (Flags, error) {
	switch f := v.(type) {
	case nil:
		return 0, nil
	case Flags:
		return f, nil
	case string:
		return ParseFlags(f)
	}

	if items, ok := asSlice(v); ok {
		var out Flags
		for _, item := range items {
			f, err := asFlags(item)
			if err != nil {
				return 0, err
			}
			out |= f
		}
		return out, nil
	}

	n, err := asUint(v)
	if err != nil || n > math.MaxUint8 {
		return 0, fmt.Errorf("%w: %v", ErrUnknownFlag, v)
	}
	return Flags(n), nil
}

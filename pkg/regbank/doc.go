// Package regbank describes banks of memory-mapped device registers.
//
// A Bank is pure metadata: a name, a description and an ordered list of
// Register descriptors. It does not hold live register state and it does not
// bind addresses; the host's address space consumes banks to build its
// decoding tables.
//
// # Construction
//
// Banks are built either from typed fields:
//
//	b, err := regbank.New("bmide", "bus master IDE",
//	    regbank.Register{Name: "cmd0", Offset: 0, Size: 1},
//	    regbank.Register{Name: "status0", Offset: 2, Size: 1, Flags: regbank.FlagVolatile},
//	)
//
// or from the compact positional form, where plain strings, integers and
// sequences convert into the typed fields:
//
//	b, err := regbank.Compact{"bank1", "", []any{
//	    []any{"r", "", 0, 1, 0, []any{"RO"}},
//	}}.Bank()
//
// Both paths end in New, so they validate identically. The same conversion
// backs the YAML sequence form and the positional CBOR encoding.
//
// # Validation
//
// New rejects an empty bank name and duplicate register names. Layout
// problems (zero-sized registers, overlaps, reset values wider than the
// register) are legal while a bank is being assembled and are reported by
// Validate, which the object registry runs when a bank is published.
//
// Every error is a *ValidationError wrapping one of the package sentinels:
//
//	if errors.Is(err, regbank.ErrDuplicateRegister) {
//	    // ...
//	}
//
// A Bank is immutable once constructed and safe to share between readers.
package regbank

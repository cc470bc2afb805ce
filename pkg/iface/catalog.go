package iface

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Catalog errors.
var (
	ErrUnknownTable   = errors.New("unknown interface table")
	ErrNotImplemented = errors.New("implementation does not satisfy interface table")
)

// Table describes one interface table.
type Table struct {
	// Name is the stable lookup name.
	Name string

	// Operations lists the table's operation names in declaration order.
	Operations []string

	satisfies func(impl any) bool
}

// Satisfies reports whether impl implements the table.
func (t Table) Satisfies(impl any) bool {
	return t.satisfies(impl)
}

// String returns "name{op, op}".
func (t Table) String() string {
	return t.Name + "{" + strings.Join(t.Operations, ", ") + "}"
}

var catalog = []Table{
	{
		Name:       NameIDEDMA,
		Operations: []string{"init_dma", "hard_reset"},
		satisfies:  func(impl any) bool { _, ok := impl.(IDEDMA); return ok },
	},
	{
		Name:       NameIDEDMAV2,
		Operations: []string{"dma_ready", "dma_not_ready", "hard_reset"},
		satisfies:  func(impl any) bool { _, ok := impl.(IDEDMAV2); return ok },
	},
	{
		Name:       NameBusMasterIDE,
		Operations: []string{"transfer_dma", "interrupt", "interrupt_clear"},
		satisfies:  func(impl any) bool { _, ok := impl.(BusMasterIDE); return ok },
	},
}

// Tables returns every known table, sorted by name.
func Tables() []Table {
	tables := slices.Clone(catalog)
	slices.SortFunc(tables, func(a, b Table) int { return strings.Compare(a.Name, b.Name) })
	return tables
}

// Lookup returns the table with the given name.
func Lookup(name string) (Table, bool) {
	for _, t := range catalog {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// Check verifies that impl may be published under name.
func Check(name string, impl any) error {
	t, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	if impl == nil || !t.Satisfies(impl) {
		return fmt.Errorf("%w: %T as %s", ErrNotImplemented, impl, name)
	}
	return nil
}

// Implemented returns the names of every table impl satisfies, sorted.
func Implemented(impl any) []string {
	var names []string
	for _, t := range Tables() {
		if t.Satisfies(impl) {
			names = append(names, t.Name)
		}
	}
	return names
}

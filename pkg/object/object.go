package object

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/devmodel/devmodel-go/pkg/iface"
	"github.com/devmodel/devmodel-go/pkg/regbank"
)

// Object errors.
var (
	ErrNilBank        = errors.New("nil bank")
	ErrDuplicateBank  = errors.New("duplicate bank name")
	ErrBankNotFound   = errors.New("bank not found")
	ErrDuplicateTable = errors.New("interface table already published")
)

// Object is a simulated device instance as seen by the host.
type Object struct {
	id   uuid.UUID
	name string
	kind string

	// Banks in publication order.
	banks []*regbank.Bank

	// Published tables indexed by table name.
	tables map[string]any
}

// New creates an object with a random ID.
func New(name, kind string) *Object {
	return NewWithID(uuid.New(), name, kind)
}

// NewWithID creates an object with a fixed ID.
func NewWithID(id uuid.UUID, name, kind string) *Object {
	return &Object{
		id:     id,
		name:   name,
		kind:   kind,
		tables: make(map[string]any),
	}
}

// ID returns the object identity.
func (o *Object) ID() uuid.UUID {
	return o.id
}

// Name returns the object name.
func (o *Object) Name() string {
	return o.name
}

// Kind returns the device kind, e.g. "ide-controller".
func (o *Object) Kind() string {
	return o.kind
}

// AddBank publishes a register bank. The bank must pass Validate and its name
// must be unique within the object.
func (o *Object) AddBank(b *regbank.Bank) error {
	if b == nil {
		return ErrNilBank
	}
	if err := b.Validate(); err != nil {
		return err
	}
	for _, existing := range o.banks {
		if existing.Name() == b.Name() {
			return fmt.Errorf("%w: %q on %s", ErrDuplicateBank, b.Name(), o.name)
		}
	}
	o.banks = append(o.banks, b)
	return nil
}

// Bank returns a bank by name.
func (o *Object) Bank(name string) (*regbank.Bank, error) {
	for _, b := range o.banks {
		if b.Name() == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %q on %s", ErrBankNotFound, name, o.name)
}

// Banks returns the object's banks in publication order.
func (o *Object) Banks() []*regbank.Bank {
	return slices.Clone(o.banks)
}

// Publish registers impl under a table name. impl must satisfy the table.
func (o *Object) Publish(name string, impl any) error {
	if err := iface.Check(name, impl); err != nil {
		return err
	}
	if _, exists := o.tables[name]; exists {
		return fmt.Errorf("%w: %s on %s", ErrDuplicateTable, name, o.name)
	}
	o.tables[name] = impl
	return nil
}

// PublishImplemented publishes impl under every table it satisfies and
// returns the table names. If any table is already published nothing is
// published.
func (o *Object) PublishImplemented(impl any) ([]string, error) {
	names := iface.Implemented(impl)
	for _, name := range names {
		if _, exists := o.tables[name]; exists {
			return nil, fmt.Errorf("%w: %s on %s", ErrDuplicateTable, name, o.name)
		}
	}
	for _, name := range names {
		o.tables[name] = impl
	}
	return names, nil
}

// Interface returns the implementation published under name.
func (o *Object) Interface(name string) (any, bool) {
	impl, ok := o.tables[name]
	return impl, ok
}

// HasTable reports whether a table is published.
func (o *Object) HasTable(name string) bool {
	_, ok := o.tables[name]
	return ok
}

// Tables returns the published table names, sorted.
func (o *Object) Tables() []string {
	names := make([]string, 0, len(o.tables))
	for name := range o.tables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Info summarizes an object for inspection tools.
type Info struct {
	ID     string
	Name   string
	Kind   string
	Tables []string
	Banks  []BankInfo
}

// BankInfo summarizes one bank.
type BankInfo struct {
	Name      string
	Registers int
	Span      uint64
}

// Info returns a summary of the object.
func (o *Object) Info() *Info {
	banks := make([]BankInfo, 0, len(o.banks))
	for _, b := range o.banks {
		banks = append(banks, BankInfo{Name: b.Name(), Registers: b.Len(), Span: b.Span()})
	}
	return &Info{
		ID:     o.id.String(),
		Name:   o.name,
		Kind:   o.kind,
		Tables: o.Tables(),
		Banks:  banks,
	}
}

// Compile-time interface satisfaction check.
var _ iface.Provider = (*Object)(nil)

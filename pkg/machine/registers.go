package machine

import (
	"github.com/devmodel/devmodel-go/pkg/memspace"
	"github.com/devmodel/devmodel-go/pkg/regbank"
)

// registerFile backs banks that no device model owns. Registers hold their
// reset value until written or until the next reset.
type registerFile struct {
	banks  []*regbank.Bank
	values map[string]map[string]uint64
}

func newRegisterFile() *registerFile {
	return &registerFile{values: make(map[string]map[string]uint64)}
}

func (f *registerFile) add(b *regbank.Bank) {
	f.banks = append(f.banks, b)
	f.load(b)
}

func (f *registerFile) load(b *regbank.Bank) {
	regs := make(map[string]uint64, b.Len())
	for _, r := range b.Registers() {
		regs[r.Name] = r.Reset
	}
	f.values[b.Name()] = regs
}

// reset restores every register to its reset value.
func (f *registerFile) reset() {
	for _, b := range f.banks {
		f.load(b)
	}
}

func (f *registerFile) ReadRegister(bank, register string) (uint64, bool) {
	v, ok := f.values[bank][register]
	return v, ok
}

func (f *registerFile) WriteRegister(bank, register string, value uint64) bool {
	regs, ok := f.values[bank]
	if !ok {
		return false
	}
	if _, ok := regs[register]; !ok {
		return false
	}
	regs[register] = value
	return true
}

// chain tries each accessor in order.
type chain []memspace.RegisterAccessor

func (c chain) ReadRegister(bank, register string) (uint64, bool) {
	for _, acc := range c {
		if v, ok := acc.ReadRegister(bank, register); ok {
			return v, true
		}
	}
	return 0, false
}

func (c chain) WriteRegister(bank, register string, value uint64) bool {
	for _, acc := range c {
		if acc.WriteRegister(bank, register, value) {
			return true
		}
	}
	return false
}

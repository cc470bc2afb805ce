package machine

import (
	"sort"

	"github.com/devmodel/devmodel-go/pkg/diag"
	"github.com/devmodel/devmodel-go/pkg/ide"
	"github.com/devmodel/devmodel-go/pkg/memspace"
	"github.com/devmodel/devmodel-go/pkg/object"
	"github.com/devmodel/devmodel-go/pkg/version"
)

type attachment struct {
	busMaster string
	channel   int
	drive     int
}

// Machine is a built machine: its objects, address space and memory.
// Like the devices it holds, a Machine is driven by one goroutine at a time.
type Machine struct {
	Name     string
	Version  version.FormatVersion
	Registry *object.Registry
	Space    *memspace.Space
	Memory   *memspace.Memory

	// Warnings collects non-fatal manifest findings.
	Warnings []string

	logger      diag.Logger
	busMasters  map[string]*ide.BusMaster
	controllers map[string]*ide.Controller
	accessors   map[string]chain
	attached    map[attachment]string
}

// BusMaster returns the bus-master model of a bus-master-ide object.
func (m *Machine) BusMaster(name string) (*ide.BusMaster, bool) {
	bm, ok := m.busMasters[name]
	return bm, ok
}

// Controller returns the controller model of an ide-controller object.
func (m *Machine) Controller(name string) (*ide.Controller, bool) {
	c, ok := m.controllers[name]
	return c, ok
}

// Controllers returns the names of all controllers, sorted.
func (m *Machine) Controllers() []string {
	return sortedKeys(m.controllers)
}

// BusMasters returns the names of all bus masters, sorted.
func (m *Machine) BusMasters() []string {
	return sortedKeys(m.busMasters)
}

// Accessor returns the register accessor backing an object's banks.
func (m *Machine) Accessor(name string) (memspace.RegisterAccessor, bool) {
	acc, ok := m.accessors[name]
	return acc, ok
}

// Step services every controller once, in name order, and returns the total
// bytes moved.
func (m *Machine) Step() int {
	var moved int
	for _, name := range m.Controllers() {
		moved += m.controllers[name].Service()
	}
	return moved
}

// Run steps until no controller makes progress or limit steps have run.
// It returns the number of steps that moved data.
func (m *Machine) Run(limit int) int {
	var steps int
	for steps < limit && m.Step() > 0 {
		steps++
	}
	return steps
}

// Reset hard-resets every controller, resets every bus master and restores
// extra banks to their reset values.
func (m *Machine) Reset() {
	for _, name := range m.Controllers() {
		m.controllers[name].HardReset()
	}
	for _, name := range m.BusMasters() {
		m.busMasters[name].Reset()
	}
	for _, acc := range m.accessors {
		for _, a := range acc {
			if rf, ok := a.(*registerFile); ok {
				rf.reset()
			}
		}
	}
}

func sortedKeys[V any](in map[string]V) []string {
	out := make([]string, 0, len(in))
	for k := range in {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

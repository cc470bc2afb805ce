package inspect

import (
	"errors"
	"testing"

	"github.com/devmodel/devmodel-go/pkg/machine"
	"github.com/devmodel/devmodel-go/pkg/memspace"
	"github.com/devmodel/devmodel-go/pkg/object"
)

const testMachine = `
version: "1.0"
objects:
  - {name: bm0, kind: bus-master-ide}
  - {name: ide0, kind: ide-controller, bus_master: bm0}
banks:
  - object: ide0
    bank:
      name: cfg
      description: configuration space
      registers:
        - {name: id, offset: 0, size: 2, reset: 0x8086, flags: [RO]}
        - {name: key, offset: 4, size: 1, flags: [WO]}
        - {name: mode, offset: 5, size: 1, reset: 3}
mappings:
  - {object: bm0, bank: bmide, base: 0xc000}
  - {object: ide0, bank: ide, base: 0x1f0}
`

func newTestInspector(t *testing.T) *Inspector {
	t.Helper()
	m, err := machine.ParseMachine([]byte(testMachine), nil)
	if err != nil {
		t.Fatalf("ParseMachine: %v", err)
	}
	return NewInspector(m)
}

func mustPath(t *testing.T, s string) *Path {
	t.Helper()
	p, err := ParsePath(s)
	if err != nil {
		t.Fatalf("ParsePath(%q): %v", s, err)
	}
	return p
}

func TestInspectObject(t *testing.T) {
	i := newTestInspector(t)

	info, err := i.InspectObject("ide0")
	if err != nil {
		t.Fatal(err)
	}
	if info.Kind != "ide-controller" {
		t.Errorf("Kind = %q", info.Kind)
	}
	if len(info.Banks) != 2 {
		t.Errorf("Banks = %v, want ide and cfg", info.Banks)
	}

	if _, err := i.InspectObject("nope"); !errors.Is(err, object.ErrObjectNotFound) {
		t.Errorf("error = %v, want ErrObjectNotFound", err)
	}
}

func TestInspectBank(t *testing.T) {
	i := newTestInspector(t)

	info, err := i.InspectBank("ide0", "cfg")
	if err != nil {
		t.Fatal(err)
	}
	if len(info.Registers) != 3 {
		t.Fatalf("got %d registers, want 3", len(info.Registers))
	}
	if info.Registers[0].Value != 0x8086 || !info.Registers[0].Readable {
		t.Errorf("id = %+v", info.Registers[0])
	}
	if info.Registers[1].Readable {
		t.Error("write-only register should not be readable")
	}

	if _, err := i.InspectBank("ide0", "nope"); !errors.Is(err, object.ErrBankNotFound) {
		t.Errorf("error = %v, want ErrBankNotFound", err)
	}
}

func TestReadWritePath(t *testing.T) {
	i := newTestInspector(t)

	if err := i.Write(mustPath(t, "ide0/cfg/mode"), 0x1ff); err != nil {
		t.Fatal(err)
	}
	v, err := i.Read(mustPath(t, "ide0/cfg/mode"))
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xff {
		t.Errorf("mode = %#x, want 0xff", v)
	}

	if err := i.Write(mustPath(t, "ide0/cfg/id"), 1); !errors.Is(err, ErrNotWritable) {
		t.Errorf("write to RO error = %v, want ErrNotWritable", err)
	}

	if err := i.Write(mustPath(t, "ide0/cfg/key"), 0x5a); err != nil {
		t.Fatal(err)
	}
	if v, _ := i.Read(mustPath(t, "ide0/cfg/key")); v != 0 {
		t.Errorf("write-only register read %#x, want 0", v)
	}

	if _, err := i.Read(mustPath(t, "ide0/cfg")); !errors.Is(err, ErrPartialPath) {
		t.Errorf("error = %v, want ErrPartialPath", err)
	}
	if _, err := i.Read(mustPath(t, "ide0/cfg/bogus")); !errors.Is(err, ErrRegisterNotFound) {
		t.Errorf("error = %v, want ErrRegisterNotFound", err)
	}
}

func TestReadWriteAddress(t *testing.T) {
	i := newTestInspector(t)

	if err := i.WriteAddress(0xc004, 0x8000); err != nil {
		t.Fatal(err)
	}
	v, err := i.ReadAddress(0xc004)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x8000 {
		t.Errorf("prd0 = %#x, want 0x8000", v)
	}

	if _, err := i.ReadAddress(0x9999); !errors.Is(err, memspace.ErrUnmapped) {
		t.Errorf("error = %v, want ErrUnmapped", err)
	}

	hit, err := i.Decode(0x1f7)
	if err != nil {
		t.Fatal(err)
	}
	if hit.Register.Name != "status" {
		t.Errorf("decoded %q, want status", hit.Register.Name)
	}
}

package commands

import (
	"fmt"
	"io"

	"github.com/devmodel/devmodel-go/pkg/inspect"
	"github.com/devmodel/devmodel-go/pkg/machine"
)

// RunDecode loads a machine and resolves each address to its register.
func RunDecode(path string, addrs []string, w io.Writer) error {
	m, err := machine.LoadMachine(path, nil)
	if err != nil {
		return err
	}
	return Decode(m, addrs, w)
}

// Decode resolves addresses on a built machine. It stops at the first
// unparsable or unmapped address.
func Decode(m *machine.Machine, addrs []string, w io.Writer) error {
	ins := inspect.NewInspector(m)
	f := inspect.NewFormatter()

	for _, s := range addrs {
		addr, err := inspect.ParseNumber(s)
		if err != nil {
			return err
		}
		hit, err := ins.Decode(addr)
		if err != nil {
			return err
		}
		line := f.FormatHit(addr, hit)
		if hit.HasRegister && hit.Offset == hit.Register.Offset {
			if v, err := ins.ReadAddress(addr); err == nil {
				line += " = " + inspect.FormatValue(v, hit.Register.Size)
			}
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

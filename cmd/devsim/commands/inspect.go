package commands

import (
	"fmt"
	"io"

	"github.com/devmodel/devmodel-go/pkg/iface"
	"github.com/devmodel/devmodel-go/pkg/inspect"
	"github.com/devmodel/devmodel-go/pkg/machine"
)

// InspectOptions selects what RunInspect prints.
type InspectOptions struct {
	// Path limits output to one object or bank ("ide0", "ide0/ide").
	Path string

	ShowIDs bool
}

// RunInspect loads a machine and prints its objects, banks and address map.
func RunInspect(path string, opts InspectOptions, w io.Writer) error {
	m, err := machine.LoadMachine(path, nil)
	if err != nil {
		return err
	}
	return Inspect(m, opts, w)
}

// Inspect prints a built machine.
func Inspect(m *machine.Machine, opts InspectOptions, w io.Writer) error {
	ins := inspect.NewInspector(m)
	f := inspect.NewFormatter()
	f.ShowIDs = opts.ShowIDs

	if opts.Path != "" {
		p, err := inspect.ParsePath(opts.Path)
		if err != nil {
			return err
		}
		if p.Bank != "" {
			bank, err := ins.InspectBank(p.Object, p.Bank)
			if err != nil {
				return err
			}
			fmt.Fprint(w, f.FormatBank(bank))
			return nil
		}
		return inspectObject(ins, f, p.Object, w)
	}

	name := m.Name
	if name == "" {
		name = "machine"
	}
	fmt.Fprintf(w, "%s (format %s, %d bytes memory)\n\n", name, m.Version, m.Memory.Size())

	for _, obj := range m.Registry.Objects() {
		if err := inspectObject(ins, f, obj.Name(), w); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Address map:")
	fmt.Fprint(w, f.FormatMap(m.Space.Mappings()))

	if len(m.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warn := range m.Warnings {
			fmt.Fprintf(w, "  %s\n", warn)
		}
	}
	return nil
}

func inspectObject(ins *inspect.Inspector, f *inspect.Formatter, name string, w io.Writer) error {
	info, err := ins.InspectObject(name)
	if err != nil {
		return err
	}
	fmt.Fprint(w, f.FormatObject(info))
	for _, table := range info.Tables {
		if t, ok := iface.Lookup(table); ok {
			fmt.Fprint(w, f.Indent(1, t.String()+"\n"))
		}
	}
	for _, b := range info.Banks {
		bank, err := ins.InspectBank(name, b.Name)
		if err != nil {
			return err
		}
		fmt.Fprint(w, f.FormatBank(bank))
	}
	return nil
}

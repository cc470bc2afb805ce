package inspect

import (
	"fmt"
	"strings"

	"github.com/devmodel/devmodel-go/pkg/iface"
	"github.com/devmodel/devmodel-go/pkg/memspace"
	"github.com/devmodel/devmodel-go/pkg/object"
	"github.com/devmodel/devmodel-go/pkg/regbank"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowMetadata includes flags and reset values in register listings
	ShowMetadata bool

	// ShowIDs includes object IDs alongside names
	ShowIDs bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowMetadata: true,
		ShowIDs:      false,
		IndentWidth:  2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	indent := strings.Repeat(" ", depth*width)
	return indent + content
}

// FormatValue formats a register value as hex, zero-padded to the register
// width in bytes.
func FormatValue(v, size uint64) string {
	if size == 0 || size > regbank.MaxRegisterSize {
		return fmt.Sprintf("0x%x", v)
	}
	return fmt.Sprintf("0x%0*x", int(size*2), v)
}

// FormatLine formats an interrupt line for display.
func FormatLine(l iface.Line) string {
	switch l {
	case iface.LineLow:
		return "low"
	case iface.LineHigh:
		return "HIGH"
	default:
		return "invalid"
	}
}

// FormatObject formats an object summary.
func (f *Formatter) FormatObject(info *object.Info) string {
	var sb strings.Builder
	if f.ShowIDs {
		sb.WriteString(fmt.Sprintf("%s (%s) [%s]\n", info.Name, info.Kind, info.ID))
	} else {
		sb.WriteString(fmt.Sprintf("%s (%s)\n", info.Name, info.Kind))
	}

	if len(info.Tables) == 0 {
		sb.WriteString(f.Indent(1, "tables: (none)\n"))
	} else {
		sb.WriteString(f.Indent(1, "tables: "+strings.Join(info.Tables, ", ")+"\n"))
	}
	for _, b := range info.Banks {
		sb.WriteString(f.Indent(1, fmt.Sprintf("bank %s: %d registers, %d bytes\n", b.Name, b.Registers, b.Span)))
	}
	return sb.String()
}

// RegisterRow represents a formatted register for display.
type RegisterRow struct {
	Offset uint64
	Name   string
	Value  string
	Size   uint64
	Flags  string
	Reset  string
}

// FormatBank formats a bank with current register values.
func (f *Formatter) FormatBank(info *BankInfo) string {
	var rows []RegisterRow
	for _, ri := range info.Registers {
		value := "--"
		if ri.Readable {
			value = FormatValue(ri.Value, ri.Register.Size)
		}
		rows = append(rows, RegisterRow{
			Offset: ri.Register.Offset,
			Name:   ri.Register.Name,
			Value:  value,
			Size:   ri.Register.Size,
			Flags:  ri.Register.Flags.String(),
			Reset:  FormatValue(ri.Register.Reset, ri.Register.Size),
		})
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s/%s", info.Object, info.Bank.Name()))
	if d := info.Bank.Description(); d != "" {
		sb.WriteString(" - " + d)
	}
	sb.WriteString("\n")
	sb.WriteString(f.FormatRegisterTable(rows))
	return sb.String()
}

// FormatLayout formats a bank descriptor without values.
func (f *Formatter) FormatLayout(b *regbank.Bank) string {
	var rows []RegisterRow
	for _, r := range b.Registers() {
		rows = append(rows, RegisterRow{
			Offset: r.Offset,
			Name:   r.Name,
			Value:  fmt.Sprintf("%d byte(s)", r.Size),
			Size:   r.Size,
			Flags:  r.Flags.String(),
			Reset:  FormatValue(r.Reset, r.Size),
		})
	}
	return b.Name() + "\n" + f.FormatRegisterTable(rows)
}

// FormatRegisterTable formats a list of registers as a table.
func (f *Formatter) FormatRegisterTable(rows []RegisterRow) string {
	if len(rows) == 0 {
		return f.Indent(1, "(no registers)\n")
	}

	nameWidth := 0
	for _, row := range rows {
		nameWidth = max(nameWidth, len(row.Name))
	}

	var sb strings.Builder
	for _, row := range rows {
		line := fmt.Sprintf("+0x%02x %-*s %s", row.Offset, nameWidth, row.Name, row.Value)
		if f.ShowMetadata {
			line += fmt.Sprintf(" (%s, reset %s)", row.Flags, row.Reset)
		}
		sb.WriteString(f.Indent(1, line+"\n"))
	}
	return sb.String()
}

// FormatMap formats the address map of a space.
func (f *Formatter) FormatMap(mappings []memspace.Mapping) string {
	if len(mappings) == 0 {
		return "(empty address space)\n"
	}

	var sb strings.Builder
	for _, m := range mappings {
		sb.WriteString(fmt.Sprintf("0x%08x-0x%08x %s/%s\n", m.Base, m.End()-1, m.Object.Name(), m.Bank.Name()))
	}
	return sb.String()
}

// FormatHit formats a decoded address.
func (f *Formatter) FormatHit(addr uint64, hit memspace.Hit) string {
	where := fmt.Sprintf("%s/%s+0x%x", hit.Object.Name(), hit.Bank.Name(), hit.Offset)
	if !hit.HasRegister {
		return fmt.Sprintf("0x%x: %s (no register)", addr, where)
	}
	r := hit.Register
	s := fmt.Sprintf("0x%x: %s/%s/%s", addr, hit.Object.Name(), hit.Bank.Name(), r.Name)
	if hit.Offset != r.Offset {
		s += fmt.Sprintf(" byte %d", hit.Offset-r.Offset)
	}
	if f.ShowMetadata {
		s += fmt.Sprintf(" (%d byte(s), %s)", r.Size, r.Flags)
	}
	return s
}

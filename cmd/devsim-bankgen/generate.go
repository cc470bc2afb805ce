package main

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/devmodel/devmodel-go/pkg/regbank"
)

// ErrNoBanks is returned for an input without banks.
var ErrNoBanks = errors.New("no banks in input")

// bankFile is the list form of the input.
type bankFile struct {
	Banks []*regbank.Bank `yaml:"banks"`
}

// LoadBanks parses either a single bank (mapping or compact form) or a
// document with a top-level banks list.
func LoadBanks(data []byte) ([]*regbank.Bank, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, ErrNoBanks
	}
	doc := root.Content[0]

	if doc.Kind == yaml.MappingNode && hasKey(doc, "banks") {
		var f bankFile
		if err := doc.Decode(&f); err != nil {
			return nil, err
		}
		if len(f.Banks) == 0 {
			return nil, ErrNoBanks
		}
		return f.Banks, nil
	}

	var b regbank.Bank
	if err := doc.Decode(&b); err != nil {
		return nil, err
	}
	return []*regbank.Bank{&b}, nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

type bankData struct {
	Const       string
	Name        string
	Description string
	Span        uint64
	Registers   []registerData
}

type registerData struct {
	Const       string
	Name        string
	Description string
	Offset      uint64
	Size        uint64
	Reset       uint64
	Flags       string
}

var funcMap = template.FuncMap{
	"hex":   func(v uint64) string { return fmt.Sprintf("0x%02x", v) },
	"quote": func(s string) string { return fmt.Sprintf("%q", s) },
}

var fileTmpl = template.Must(template.New("file").Funcs(funcMap).Parse(`// Code generated by devsim-bankgen from {{.Source}}. DO NOT EDIT.

package {{.Package}}
{{range .Banks}}
// {{.Const}} register bank{{if .Description}}: {{.Description}}{{end}}.
const (
	{{.Const}}BankName = {{quote .Name}}
	{{.Const}}Span uint64 = {{hex .Span}}
)

// {{.Const}} register offsets.
const (
{{- range .Registers}}
	{{.Const}}Offset uint64 = {{hex .Offset}}{{if .Description}} // {{.Description}}{{end}}
{{- end}}
)

// {{.Const}} register sizes and reset values.
const (
{{- range .Registers}}
	{{.Const}}Size uint64 = {{.Size}}
	{{.Const}}Reset uint64 = {{hex .Reset}} // {{.Flags}}
{{- end}}
)
{{end}}`))

// Generate renders the constants for banks as Go source.
func Generate(pkg, source string, banks []*regbank.Bank) (string, error) {
	if len(banks) == 0 {
		return "", ErrNoBanks
	}

	data := struct {
		Package string
		Source  string
		Banks   []bankData
	}{Package: pkg, Source: source}

	seen := make(map[string]string)
	for _, b := range banks {
		if err := b.Validate(); err != nil {
			return "", err
		}
		bd := bankData{
			Const:       goName(b.Name()),
			Name:        b.Name(),
			Description: b.Description(),
			Span:        b.Span(),
		}
		if prev, ok := seen[bd.Const]; ok {
			return "", fmt.Errorf("banks %q and %q both generate %s", prev, b.Name(), bd.Const)
		}
		seen[bd.Const] = b.Name()

		for _, r := range b.ByOffset() {
			bd.Registers = append(bd.Registers, registerData{
				Const:       bd.Const + goName(r.Name),
				Name:        r.Name,
				Description: oneLine(r.Description),
				Offset:      r.Offset,
				Size:        r.Size,
				Reset:       r.Reset,
				Flags:       r.Flags.String(),
			})
		}
		data.Banks = append(data.Banks, bd)
	}

	var sb strings.Builder
	if err := fileTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("template: %w", err)
	}
	return sb.String(), nil
}

// goName converts "sector_count" to "SectorCount" and "bmide" to "Bmide".
// A leading digit gets an "R" prefix.
func goName(name string) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	s := sb.String()
	if s == "" || unicode.IsDigit(rune(s[0])) {
		s = "R" + s
	}
	return s
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

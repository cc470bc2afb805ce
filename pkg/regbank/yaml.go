package regbank

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// bankYAML is the mapping form of a bank.
type bankYAML struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Registers   []Register `yaml:"registers,omitempty"`
}

// registerYAML is the mapping form of a register.
type registerYAML struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Offset      uint64 `yaml:"offset"`
	Size        uint64 `yaml:"size"`
	Reset       uint64 `yaml:"reset,omitempty"`
	Flags       Flags  `yaml:"flags,omitempty"`
}

// UnmarshalYAML accepts a bank either as a mapping
//
//	name: bank0
//	description: ""
//	registers:
//	  - {name: r, offset: 0, size: 1}
//
// or as a compact sequence: [bank0, "", [[r, "", 0, 1]]].
func (b *Bank) UnmarshalYAML(node *yaml.Node) error {
	var (
		nb  *Bank
		err error
	)
	switch node.Kind {
	case yaml.SequenceNode:
		var raw []any
		if err := node.Decode(&raw); err != nil {
			return err
		}
		nb, err = FromCompact(raw)
	case yaml.MappingNode:
		var raw bankYAML
		if err := node.Decode(&raw); err != nil {
			return err
		}
		nb, err = New(raw.Name, raw.Description, raw.Registers...)
	default:
		return fmt.Errorf("line %d: %w: bank must be a mapping or a sequence", node.Line, ErrMalformedCompact)
	}
	if err != nil {
		return err
	}
	*b = *nb
	return nil
}

// MarshalYAML writes the mapping form.
func (b Bank) MarshalYAML() (any, error) {
	return bankYAML{
		Name:        b.name,
		Description: b.description,
		Registers:   b.registers,
	}, nil
}

// UnmarshalYAML accepts a register as a mapping or a compact sequence.
func (r *Register) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var raw []any
		if err := node.Decode(&raw); err != nil {
			return err
		}
		reg, err := registerFromCompact("", raw)
		if err != nil {
			return err
		}
		*r = reg
	case yaml.MappingNode:
		var raw registerYAML
		if err := node.Decode(&raw); err != nil {
			return err
		}
		*r = Register(raw)
	default:
		return fmt.Errorf("line %d: %w: register must be a mapping or a sequence", node.Line, ErrMalformedCompact)
	}
	return nil
}

// MarshalYAML writes the mapping form.
func (r Register) MarshalYAML() (any, error) {
	return registerYAML(r), nil
}

// UnmarshalYAML accepts flags as a list of names, a "RO|V" string or an integer.
func (f *Flags) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	v, err := asFlags(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*f = v
	return nil
}

// MarshalYAML writes the flags as a list of long names.
func (f Flags) MarshalYAML() (any, error) {
	return f.Names(), nil
}

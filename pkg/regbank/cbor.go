package regbank

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Banks encode to CBOR positionally, mirroring the compact literal form.
var (
	bankEncMode cbor.EncMode
	bankDecMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
	}
	bankEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create bank CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}
	bankDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create bank CBOR decoder mode: %v", err))
	}
}

type wireRegister struct {
	_           struct{} `cbor:",toarray"`
	Name        string
	Description string
	Offset      uint64
	Size        uint64
	Reset       uint64
	Flags       Flags
}

type wireBank struct {
	_           struct{} `cbor:",toarray"`
	Name        string
	Description string
	Registers   []wireRegister
}

// MarshalCBOR encodes the bank as [name, description, [[register...]...]].
func (b *Bank) MarshalCBOR() ([]byte, error) {
	w := wireBank{
		Name:        b.name,
		Description: b.description,
		Registers:   make([]wireRegister, len(b.registers)),
	}
	for i, r := range b.registers {
		w.Registers[i] = wireRegister{
			Name:        r.Name,
			Description: r.Description,
			Offset:      r.Offset,
			Size:        r.Size,
			Reset:       r.Reset,
			Flags:       r.Flags,
		}
	}
	return bankEncMode.Marshal(w)
}

// UnmarshalCBOR decodes the positional form and validates it through New.
func (b *Bank) UnmarshalCBOR(data []byte) error {
	var w wireBank
	if err := bankDecMode.Unmarshal(data, &w); err != nil {
		return err
	}

	registers := make([]Register, len(w.Registers))
	for i, r := range w.Registers {
		registers[i] = Register{
			Name:        r.Name,
			Description: r.Description,
			Offset:      r.Offset,
			Size:        r.Size,
			Reset:       r.Reset,
			Flags:       r.Flags,
		}
	}

	nb, err := New(w.Name, w.Description, registers...)
	if err != nil {
		return err
	}
	*b = *nb
	return nil
}

// Encode encodes a bank to CBOR bytes.
func Encode(b *Bank) ([]byte, error) {
	return b.MarshalCBOR()
}

// Decode decodes CBOR bytes into a bank.
func Decode(data []byte) (*Bank, error) {
	var b Bank
	if err := b.UnmarshalCBOR(data); err != nil {
		return nil, err
	}
	return &b, nil
}

package diag

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// FileFormatVersion is the version of the diagnostics file layout written by
// FileLogger. Readers accept files up to this version.
const FileFormatVersion = 1

// fileMagic identifies a diagnostics file. It is the first item of the file,
// encoded as a two element array so it cannot be mistaken for an event map.
const fileMagic = "devsim-diag"

// Diagnostics file errors.
var (
	ErrNotDiagFile = errors.New("not a diagnostics file")
	ErrFileVersion = errors.New("unsupported diagnostics file version")
	errHeaderItem  = errors.New("header item")
)

var (
	eventEncMode cbor.EncMode
	eventDecMode cbor.DecMode
)

// fileHeader is written once at the start of a diagnostics file.
type fileHeader struct {
	_       struct{} `cbor:",toarray"`
	Magic   string
	Version uint16
}

func init() {
	var err error

	// Timestamps keep nanoseconds so events from one step stay ordered.
	eventEncMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("diag: CBOR encoder mode: %v", err))
	}

	eventDecMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("diag: CBOR decoder mode: %v", err))
	}
}

// EncodeEvent encodes an Event to CBOR bytes.
func EncodeEvent(event Event) ([]byte, error) {
	return eventEncMode.Marshal(event)
}

// DecodeEvent decodes CBOR bytes into an Event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := eventDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder returns a CBOR encoder for a headerless event stream.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return eventEncMode.NewEncoder(w)
}

// NewDecoder returns a CBOR decoder for a headerless event stream.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return eventDecMode.NewDecoder(r)
}

func writeHeader(enc *cbor.Encoder) error {
	return enc.Encode(fileHeader{Magic: fileMagic, Version: FileFormatVersion})
}

// checkHeader inspects the first item of a stream. It returns errHeaderItem
// for a valid header, nil if raw is an ordinary event, or the reason the
// header is unusable.
func checkHeader(raw cbor.RawMessage) error {
	// CBOR major type 4 is an array; events are always maps.
	if len(raw) == 0 || raw[0]>>5 != 4 {
		return nil
	}
	var h fileHeader
	if err := eventDecMode.Unmarshal(raw, &h); err != nil || h.Magic != fileMagic {
		return ErrNotDiagFile
	}
	if h.Version == 0 || h.Version > FileFormatVersion {
		return fmt.Errorf("%w: %d", ErrFileVersion, h.Version)
	}
	return errHeaderItem
}

package diag

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter specifies criteria for filtering events.
// Empty/nil fields match all events for that criterion.
type Filter struct {
	// Object filters by exact object name.
	Object string

	// Table filters by interface table name.
	Table string

	// Kind filters by event kind.
	Kind *Kind

	// MinSeverity drops events below this severity.
	MinSeverity *Severity

	// TimeStart filters events at or after this time.
	TimeStart *time.Time

	// TimeEnd filters events before this time.
	TimeEnd *time.Time
}

// Matches returns true if the event matches all filter criteria.
func (f *Filter) Matches(event Event) bool {
	if f.Object != "" && event.Object != f.Object {
		return false
	}
	if f.Table != "" && event.Table != f.Table {
		return false
	}
	if f.Kind != nil && event.Kind != *f.Kind {
		return false
	}
	if f.MinSeverity != nil && event.Severity < *f.MinSeverity {
		return false
	}
	if f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	return true
}

// Reader streams events from a diagnostics file or a headerless event
// stream. A file header, if present, is checked before the first event.
type Reader struct {
	closer  io.Closer
	decoder *cbor.Decoder
	filter  Filter
	started bool
}

// NewReader creates a Reader for all events in the file at path.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader creates a Reader returning only events matching filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		closer:  f,
		decoder: NewDecoder(f),
		filter:  filter,
	}, nil
}

// NewStreamReader reads events from r. Close does not close r.
func NewStreamReader(r io.Reader, filter Filter) *Reader {
	return &Reader{
		decoder: NewDecoder(r),
		filter:  filter,
	}
}

// Next returns the next matching event, or io.EOF at the end of the stream.
func (r *Reader) Next() (Event, error) {
	for {
		event, err := r.decode()
		if errors.Is(err, errHeaderItem) {
			continue
		}
		if err != nil {
			return Event{}, err
		}

		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

func (r *Reader) decode() (Event, error) {
	if r.started {
		var event Event
		err := r.decoder.Decode(&event)
		return event, err
	}
	r.started = true

	var raw cbor.RawMessage
	if err := r.decoder.Decode(&raw); err != nil {
		return Event{}, err
	}
	if err := checkHeader(raw); err != nil {
		return Event{}, err
	}
	return DecodeEvent(raw)
}

// Close closes the underlying file, if the Reader opened one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

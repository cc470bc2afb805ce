package diag

import (
	"fmt"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends events to a diagnostics file. A new file starts with a
// format header, written together with the first event so a run that reports
// nothing leaves the file empty. FileLogger is safe for concurrent use; the
// devices feeding it are not, but several loggers may share one file sink
// through a MultiLogger.
type FileLogger struct {
	mu       sync.Mutex
	file     *os.File
	enc      *cbor.Encoder
	headered bool
	closed   bool
	dropped  int
}

// NewFileLogger opens path for appending, creating it with mode 0644.
// Appending to an existing file checks nothing; use NewReader to validate it.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("diag: stat %s: %w", path, err)
	}
	return &FileLogger{
		file:     f,
		enc:      NewEncoder(f),
		headered: info.Size() > 0,
	}, nil
}

// Report appends an event. Events that cannot be written, or arrive after
// Close, are counted by Dropped; the device calling Report never sees an error.
func (l *FileLogger) Report(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		l.dropped++
		return
	}
	if !l.headered {
		if err := writeHeader(l.enc); err != nil {
			l.dropped++
			return
		}
		l.headered = true
	}
	if err := l.enc.Encode(event); err != nil {
		l.dropped++
	}
}

// Dropped returns the number of events that were not written.
func (l *FileLogger) Dropped() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

// Close closes the file. Close is idempotent.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.file.Close()
}

var _ Logger = (*FileLogger)(nil)

package memspace

import (
	"errors"
	"fmt"
	"io"
)

// ErrOutOfRange is returned for memory accesses past the end of RAM.
var ErrOutOfRange = errors.New("memory access out of range")

// Memory is a flat RAM. It implements io.ReaderAt and io.WriterAt.
type Memory struct {
	data []byte
}

// NewMemory allocates size bytes of zeroed RAM.
func NewMemory(size int) *Memory {
	return &Memory{data: make([]byte, size)}
}

// Size returns the memory size in bytes.
func (m *Memory) Size() int {
	return len(m.data)
}

// ReadAt copies memory starting at off into p. A read running past the end
// returns the bytes available and io.EOF.
func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("%w: offset %d", ErrOutOfRange, off)
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt copies p into memory at off. Writes that do not fit are rejected
// whole.
func (m *Memory) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(m.data)) {
		return 0, fmt.Errorf("%w: %d bytes at %#x (size %#x)", ErrOutOfRange, len(p), off, len(m.data))
	}
	return copy(m.data[off:], p), nil
}

// Compile-time interface satisfaction checks.
var (
	_ io.ReaderAt = (*Memory)(nil)
	_ io.WriterAt = (*Memory)(nil)
)

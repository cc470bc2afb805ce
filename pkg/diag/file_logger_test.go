package diag

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileLoggerWritesCBOR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	channel := 1
	logger.Report(Event{
		Timestamp: time.Now(),
		Object:    "bmide0",
		Kind:      KindFault,
		Severity:  SeverityError,
		Channel:   &channel,
		Message:   "memory write out of range",
	})
	logger.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	decoded, err := reader.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if decoded.Object != "bmide0" || decoded.Kind != KindFault {
		t.Errorf("unexpected event: %+v", decoded)
	}
	if decoded.Channel == nil || *decoded.Channel != 1 {
		t.Errorf("channel not preserved: %v", decoded.Channel)
	}
	if _, err := reader.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF after one event, got %v", err)
	}
}

func TestFileLoggerStartsWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger.Report(Event{Object: "ide0"})
	logger.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var h fileHeader
	if err := NewDecoder(f).Decode(&h); err != nil {
		t.Fatalf("decode header: %v", err)
	}
	if h.Magic != fileMagic || h.Version != FileFormatVersion {
		t.Errorf("header = %+v", h)
	}
}

func TestFileLoggerAppendsWithoutSecondHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dlog")

	for _, name := range []string{"first", "second"} {
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger failed: %v", err)
		}
		logger.Report(Event{Object: name})
		logger.Close()
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var names []string
	for {
		e, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		names = append(names, e.Object)
	}
	if len(names) != 2 || names[0] != "first" || names[1] != "second" {
		t.Errorf("events = %v", names)
	}
}

func TestFileLoggerIgnoresAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}

	logger.Report(Event{Object: "late"})
	if logger.Dropped() != 1 {
		t.Errorf("Dropped = %d, want 1", logger.Dropped())
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("expected empty file, got %d bytes", info.Size())
	}
}

func TestFileLoggerConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	const writers, perWriter = 8, 25
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := range perWriter {
				logger.Report(Event{Object: "dev", Message: "event", Kind: Kind(j % 4), Severity: Severity(i % 4)})
			}
		}(i)
	}
	wg.Wait()
	logger.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		_, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		count++
	}
	if count != writers*perWriter {
		t.Errorf("got %d events, want %d", count, writers*perWriter)
	}
}

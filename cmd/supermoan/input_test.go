package main

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func writeEventFile(t *testing.T, events []inputEvent, trailing []byte) *os.File {
	t.Helper()

	var buf bytes.Buffer
	for _, ev := range events {
		if err := binary.Write(&buf, binary.LittleEndian, ev); err != nil {
			t.Fatalf("failed to encode event: %v", err)
		}
	}
	buf.Write(trailing)

	path := filepath.Join(t.TempDir(), "events")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write event file: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open event file: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

// TestDeviceReader_Next tests decoding a stream of raw input events
func TestDeviceReader_Next(t *testing.T) {
	events := []inputEvent{
		{Sec: 1700000000, Usec: 123456, Type: EV_REL, Code: REL_X, Value: -7},
		{Sec: 1700000000, Usec: 123999, Type: EV_KEY, Code: 0x110, Value: 1},
	}
	r := newDeviceReader(writeEventFile(t, events, nil))

	for i, want := range events {
		got, err := r.next()
		if err != nil {
			t.Fatalf("event %d: unexpected error %v", i, err)
		}
		if got != want {
			t.Errorf("event %d: expected %+v, got %+v", i, want, got)
		}
	}

	if _, err := r.next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF at end of stream, got %v", err)
	}
}

// TestDeviceReader_TruncatedEvent tests that a partial record surfaces as an
// unexpected EOF rather than a decoded event.
func TestDeviceReader_TruncatedEvent(t *testing.T) {
	events := []inputEvent{
		{Type: EV_REL, Code: REL_Y, Value: 42},
	}
	r := newDeviceReader(writeEventFile(t, events, []byte{0x01, 0x02, 0x03}))

	if _, err := r.next(); err != nil {
		t.Fatalf("expected the complete event to decode, got %v", err)
	}
	if _, err := r.next(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF for the partial record, got %v", err)
	}
}

// TestDeviceReader_ClosedFile tests the shutdown path: reading from a closed
// handle reports fs.ErrClosed, which the monitor treats as a clean stop.
func TestDeviceReader_ClosedFile(t *testing.T) {
	f := writeEventFile(t, nil, nil)
	r := newDeviceReader(f)
	f.Close()

	_, err := r.next()
	if err == nil {
		t.Fatal("expected an error from a closed handle")
	}
	if !errors.Is(err, os.ErrClosed) {
		t.Errorf("expected os.ErrClosed, got %v", err)
	}
}

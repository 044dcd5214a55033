package main

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
)

// inputEvent represents a Linux input event structure
// struct input_event { struct timeval time; __u16 type; __u16 code; __s32 value; };
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// eventSource yields input events one blocking read at a time.
type eventSource interface {
	next() (inputEvent, error)
}

// deviceReader decodes input events from an event device node.
//
// The reader is single-owner: only the monitor loop calls next. Closing the
// underlying file from another goroutine unblocks a pending read with
// fs.ErrClosed, which the monitor loop treats as a clean interruption.
type deviceReader struct {
	f   *os.File
	buf []byte
	br  *bytes.Reader
}

func newDeviceReader(f *os.File) *deviceReader {
	buf := make([]byte, binary.Size(inputEvent{}))
	return &deviceReader{
		f:   f,
		buf: buf,
		br:  bytes.NewReader(buf), // reusable reader, reset on each event
	}
}

func (r *deviceReader) next() (inputEvent, error) {
	var ev inputEvent
	for {
		if _, err := io.ReadFull(r.f, r.buf); err != nil {
			return ev, err
		}

		r.br.Reset(r.buf)
		if err := binary.Read(r.br, binary.LittleEndian, &ev); err != nil {
			// Skip malformed events
			continue
		}
		return ev, nil
	}
}

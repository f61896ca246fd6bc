package dcom

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// =============================================================================
// Wire cursor - sequential little-endian access over an in-memory buffer
// =============================================================================

// reader is a sequential little-endian cursor over a byte buffer. Every read
// is bounds-checked and fails with ErrUnexpectedEOF once the buffer runs out;
// no read ever panics on truncated input.
type reader struct {
	data []byte
	off  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

// need fails when fewer than n bytes remain. Negative counts come from
// untrusted 32-bit length fields overflowing int on 32-bit platforms and are
// treated as truncation.
func (r *reader) need(n int, field string) error {
	if n < 0 || len(r.data)-r.off < n {
		return fmt.Errorf("read %s at offset %d: %w", field, r.off, ErrUnexpectedEOF)
	}
	return nil
}

func (r *reader) uint16(field string) (uint16, error) {
	if err := r.need(2, field); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v, nil
}

func (r *reader) uint32(field string) (uint32, error) {
	if err := r.need(4, field); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) uint64(field string) (uint64, error) {
	if err := r.need(8, field); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v, nil
}

// bytes returns a copy of the next n bytes so parsed records never alias the
// caller's input buffer.
func (r *reader) bytes(n int, field string) ([]byte, error) {
	if err := r.need(n, field); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.data[r.off:])
	r.off += n
	return out, nil
}

func (r *reader) guid(field string) (GUID, error) {
	var g GUID
	if err := r.need(GUIDSize, field); err != nil {
		return g, err
	}
	copy(g[:], r.data[r.off:])
	r.off += GUIDSize
	return g, nil
}

// stringZ reads a zero-terminated UTF-16LE string. The scan is bounded by the
// end of the buffer: a missing terminator is a truncation error, never an
// unbounded read.
func (r *reader) stringZ(field string) (string, error) {
	var units []uint16
	for {
		u, err := r.uint16(field)
		if err != nil {
			return "", err
		}
		if u == 0 {
			return string(utf16.Decode(units)), nil
		}
		units = append(units, u)
	}
}

// rest consumes and returns all remaining bytes.
func (r *reader) rest() []byte {
	out := make([]byte, len(r.data)-r.off)
	copy(out, r.data[r.off:])
	r.off = len(r.data)
	return out
}

// writer is the append-only mirror of reader. Writes to an in-memory buffer
// cannot fail, so the writer has no error paths.
type writer struct {
	buf []byte
}

func (w *writer) uint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *writer) uint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) uint64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *writer) bytes(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *writer) guid(g GUID) {
	w.buf = append(w.buf, g[:]...)
}

// stringZ writes a UTF-16LE string followed by a zero terminator word.
func (w *writer) stringZ(s string) {
	for _, u := range utf16.Encode([]rune(s)) {
		w.uint16(u)
	}
	w.uint16(0)
}

func (w *writer) len() int {
	return len(w.buf)
}

package buffer

import (
	"encoding/binary"
	"io"
)

// Buffer is similar to bytes.Buffer but specialized for this module.
//
// Reads consume from the front of the unread portion; appends grow
// the backing slice. Read methods return false or io.EOF when fewer
// bytes remain than requested. Next then returns what is left and
// advances to the end; the other read methods do not advance.
type Buffer struct {
	b []byte
	i int
}

// New creates a Buffer that reads from b.
func New(b []byte) *Buffer {
	return &Buffer{b: b}
}

// Next returns a slice of the next n unread bytes and advances past them.
// If fewer than n bytes remain it returns all of them with false.
// The slice aliases the buffer.
func (b *Buffer) Next(n int64) ([]byte, bool) {
	if b.readCheck(n) {
		buf := b.b[b.i:len(b.b)]
		b.i = len(b.b)
		return buf, false
	}

	buf := b.b[b.i : b.i+int(n)]
	b.i += int(n)
	return buf, true
}

// Reset discards all content.
func (b *Buffer) Reset() {
	b.b = b.b[:0]
	b.i = 0
}

func (b *Buffer) readCheck(n int64) bool {
	return int64(b.i)+n > int64(len(b.b))
}

// ReadByte reads one byte.
func (b *Buffer) ReadByte() (byte, error) {
	if b.readCheck(1) {
		return 0, io.EOF
	}

	byte_ := b.b[b.i]
	b.i++
	return byte_, nil
}

// PeekByte returns the next byte without consuming it.
func (b *Buffer) PeekByte() (byte, error) {
	if b.readCheck(1) {
		return 0, io.EOF
	}

	return b.b[b.i], nil
}

// ReadUint16 reads a big endian uint16.
func (b *Buffer) ReadUint16() (uint16, error) {
	if b.readCheck(2) {
		return 0, io.EOF
	}

	n := binary.BigEndian.Uint16(b.b[b.i:])
	b.i += 2
	return n, nil
}

// ReadUint32 reads a big endian uint32.
func (b *Buffer) ReadUint32() (uint32, error) {
	if b.readCheck(4) {
		return 0, io.EOF
	}

	n := binary.BigEndian.Uint32(b.b[b.i:])
	b.i += 4
	return n, nil
}

// ReadUint64 reads a big endian uint64.
func (b *Buffer) ReadUint64() (uint64, error) {
	if b.readCheck(8) {
		return 0, io.EOF
	}

	n := binary.BigEndian.Uint64(b.b[b.i : b.i+8])
	b.i += 8
	return n, nil
}

// Append appends p.
func (b *Buffer) Append(p []byte) {
	b.b = append(b.b, p...)
}

// AppendByte appends one byte.
func (b *Buffer) AppendByte(bb byte) {
	b.b = append(b.b, bb)
}

// AppendString appends s.
func (b *Buffer) AppendString(s string) {
	b.b = append(b.b, s...)
}

// Len returns the number of unread bytes.
func (b *Buffer) Len() int {
	return len(b.b) - b.i
}

// Size returns the number of bytes written, read or not.
func (b *Buffer) Size() int {
	return b.i
}

// Bytes returns the unread portion. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte {
	return b.b[b.i:]
}

// Detach returns the underlying slice and resets the buffer.
func (b *Buffer) Detach() []byte {
	temp := b.b
	b.b = nil
	b.i = 0
	return temp
}

// AppendUint16 appends a big endian uint16.
func (b *Buffer) AppendUint16(n uint16) {
	b.b = append(b.b,
		byte(n>>8),
		byte(n),
	)
}

// AppendUint32 appends a big endian uint32.
func (b *Buffer) AppendUint32(n uint32) {
	b.b = append(b.b,
		byte(n>>24),
		byte(n>>16),
		byte(n>>8),
		byte(n),
	)
}

// AppendUint64 appends a big endian uint64.
func (b *Buffer) AppendUint64(n uint64) {
	b.b = append(b.b,
		byte(n>>56),
		byte(n>>48),
		byte(n>>40),
		byte(n>>32),
		byte(n>>24),
		byte(n>>16),
		byte(n>>8),
		byte(n),
	)
}

package router

import (
	"bytes"
)

// View selects which part of an iterator's bytes is visible.
type View uint8

// Views
const (
	// ViewAll exposes every byte.
	ViewAll View = iota

	// ViewAddressNoHost hides an "amqp:" scheme, a "//host[:port]"
	// authority and the leading slash of the path, exposing only the
	// node address.
	ViewAddressNoHost
)

// Iterator is a resettable cursor over an immutable byte string.
// Operations act on the bytes exposed by the current view.
type Iterator struct {
	buf        []byte
	view       View
	start, end int
	pos        int
}

// NewBinaryIterator returns an iterator over a copy of b.
func NewBinaryIterator(b []byte, view View) *Iterator {
	return newIterator(append([]byte{}, b...), view)
}

func newIterator(buf []byte, view View) *Iterator {
	it := &Iterator{buf: buf}
	it.ResetView(view)
	return it
}

// ResetView switches to view and rewinds to its first byte.
func (it *Iterator) ResetView(view View) {
	it.view = view
	it.start, it.end = 0, len(it.buf)
	if view == ViewAddressNoHost {
		it.start = addressStart(it.buf)
	}
	it.pos = it.start
}

// addressStart returns the offset of the node address within a
// possibly host-qualified AMQP address.
func addressStart(b []byte) int {
	i := 0
	if bytes.HasPrefix(b, []byte("amqp:")) {
		i += len("amqp:")
	}
	if bytes.HasPrefix(b[i:], []byte("//")) {
		i += 2
		slash := bytes.IndexByte(b[i:], '/')
		if slash < 0 {
			return len(b)
		}
		i += slash
	}
	if i < len(b) && b[i] == '/' {
		i++
	}
	return i
}

// Reset rewinds to the first byte of the current view.
func (it *Iterator) Reset() {
	it.pos = it.start
}

// Next returns the next byte of the view.
func (it *Iterator) Next() (byte, bool) {
	if it.pos >= it.end {
		return 0, false
	}
	b := it.buf[it.pos]
	it.pos++
	return b, true
}

// End reports whether all bytes of the view have been consumed.
func (it *Iterator) End() bool {
	return it.pos >= it.end
}

// Len returns the length of the view.
func (it *Iterator) Len() int {
	return it.end - it.start
}

// Copy returns a new slice holding the bytes of the view.
// The cursor position is unchanged.
func (it *Iterator) Copy() []byte {
	return append([]byte{}, it.bytes()...)
}

func (it *Iterator) bytes() []byte {
	return it.buf[it.start:it.end]
}

// Equal reports whether the view holds exactly b.
func (it *Iterator) Equal(b []byte) bool {
	return bytes.Equal(it.bytes(), b)
}

// EqualString reports whether the view holds exactly s.
func (it *Iterator) EqualString(s string) bool {
	return string(it.bytes()) == s
}

// Prefix reports whether the view starts with p.
func (it *Iterator) Prefix(p string) bool {
	return bytes.HasPrefix(it.bytes(), []byte(p))
}

func (it *Iterator) String() string {
	if it == nil {
		return ""
	}
	return string(it.bytes())
}

// Field owns a short byte string, such as an address, and an
// iterator over it.
type Field struct {
	iter *Iterator
}

// NewField returns a field owning a copy of text.
func NewField(text string) *Field {
	return &Field{iter: newIterator([]byte(text), ViewAll)}
}

// Iterator returns the field's iterator, or nil for a nil or freed field.
func (f *Field) Iterator() *Iterator {
	if f == nil {
		return nil
	}
	return f.iter
}

// Free releases the field's bytes. It is safe to call on nil.
func (f *Field) Free() {
	if f == nil {
		return
	}
	f.iter = nil
}

package encoding

import (
	"strings"

	"github.com/google/uuid"
	"github.com/qdgo/router/internal/buffer"
	"github.com/qdgo/router/internal/debug"
)

// Data holds a sequence of AMQP values and a cursor over them.
//
// The cursor starts positioned before the first value; Next moves to
// the following sibling, Enter descends into the current composite and
// Exit returns to it. Put appends at the cursor's level and makes the
// new value current, so a nested value is built with PutList, Enter,
// Put..., Exit.
//
// The zero value is an empty Data ready to use. A Data must not be
// copied after first use.
type Data struct {
	root  Value   // list holding the top-level values
	stack []frame // cursor; stack[0] always refers to root
}

type frame struct {
	parent *Value
	pos    int // index of the current child, -1 before the first
}

// NewData returns an empty Data.
func NewData() *Data {
	d := &Data{}
	d.Rewind()
	return d
}

func (d *Data) top() *frame {
	if len(d.stack) == 0 {
		d.Rewind()
	}
	return &d.stack[len(d.stack)-1]
}

// Rewind positions the cursor before the first top-level value.
func (d *Data) Rewind() {
	d.root.kind = KindList
	d.stack = append(d.stack[:0], frame{parent: &d.root, pos: -1})
}

// Next advances to the next value at the current level.
// It returns false, leaving the cursor in place, if there is none.
func (d *Data) Next() bool {
	f := d.top()
	if f.pos+1 < len(f.parent.children) {
		f.pos++
		return true
	}
	return false
}

// Enter descends into the current value, which must be a composite.
// The cursor is left before the composite's first child.
func (d *Data) Enter() bool {
	f := d.top()
	if f.pos < 0 {
		return false
	}
	cur := &f.parent.children[f.pos]
	if !cur.kind.IsComposite() {
		return false
	}
	d.stack = append(d.stack, frame{parent: cur, pos: -1})
	return true
}

// Exit returns to the composite most recently entered, making it current.
// It returns false at the top level.
func (d *Data) Exit() bool {
	d.top()
	if len(d.stack) <= 1 {
		return false
	}
	d.stack = d.stack[:len(d.stack)-1]
	return true
}

// Type returns the kind of the current value, or KindInvalid when
// the cursor is not positioned on one.
func (d *Data) Type() Kind {
	v, ok := d.Current()
	if !ok {
		return KindInvalid
	}
	return v.kind
}

// Current returns the value under the cursor.
func (d *Data) Current() (Value, bool) {
	f := d.top()
	if f.pos < 0 || f.pos >= len(f.parent.children) {
		return Value{}, false
	}
	return f.parent.children[f.pos], true
}

// SymbolValue returns the current value if it is a symbol, else "".
func (d *Data) SymbolValue() Symbol {
	if v, ok := d.Current(); ok && v.kind == KindSymbol {
		return Symbol(v.raw)
	}
	return ""
}

// StringValue returns the current value if it is a string, else "".
func (d *Data) StringValue() string {
	if v, ok := d.Current(); ok && v.kind == KindString {
		return string(v.raw)
	}
	return ""
}

// BinaryValue returns the current value if it is a binary, else nil.
// The slice aliases d.
func (d *Data) BinaryValue() []byte {
	if v, ok := d.Current(); ok && v.kind == KindBinary {
		return v.raw
	}
	return nil
}

// BoolValue returns the current value if it is a bool, else false.
func (d *Data) BoolValue() bool {
	v, _ := d.Current()
	return v.Bool()
}

// UintValue returns the current value if it is an unsigned integer, else 0.
func (d *Data) UintValue() uint64 {
	v, _ := d.Current()
	return v.Uint()
}

// IntValue returns the current value if it is a signed integer, else 0.
func (d *Data) IntValue() int64 {
	v, _ := d.Current()
	return v.Int()
}

// Put appends v after the last value at the cursor's level and makes
// it current.
func (d *Data) Put(v Value) {
	f := d.top()
	debug.Assertf(f.parent.kind.IsComposite(), "put into %s", f.parent.kind)
	f.pos = f.parent.append(v)
}

// PutNull appends a null.
func (d *Data) PutNull() { d.Put(NewNull()) }

// PutBool appends a bool.
func (d *Data) PutBool(b bool) { d.Put(NewBool(b)) }

// PutUint appends a uint.
func (d *Data) PutUint(n uint32) { d.Put(NewUint(n)) }

// PutUlong appends a ulong.
func (d *Data) PutUlong(n uint64) { d.Put(NewUlong(n)) }

// PutInt appends an int.
func (d *Data) PutInt(n int32) { d.Put(NewInt(n)) }

// PutLong appends a long.
func (d *Data) PutLong(n int64) { d.Put(NewLong(n)) }

// PutUUID appends a uuid.
func (d *Data) PutUUID(id uuid.UUID) { d.Put(NewUUID(id)) }

// PutString appends a string.
func (d *Data) PutString(s string) { d.Put(NewString(s)) }

// PutSymbol appends a symbol.
func (d *Data) PutSymbol(s Symbol) { d.Put(NewSymbol(s)) }

// PutBinary appends a copy of b.
func (d *Data) PutBinary(b []byte) { d.Put(NewBinary(b)) }

// PutList appends an empty list; Enter it to add elements.
func (d *Data) PutList() { d.Put(NewList()) }

// PutMap appends an empty map; Enter it to add alternating keys and values.
func (d *Data) PutMap() { d.Put(NewMap()) }

// PutArray appends an empty array of elem; Enter it to add elements.
func (d *Data) PutArray(elem Kind) { d.Put(NewArray(elem)) }

// PutDescribed appends an empty described value; Enter it to add the
// descriptor, then the value.
func (d *Data) PutDescribed() { d.Put(Value{kind: KindDescribed}) }

// Copy replaces the content of d with a deep copy of the content of src
// and rewinds d. A nil src clears d.
func (d *Data) Copy(src *Data) {
	if src == nil || d == src {
		if src == nil {
			d.Clear()
		}
		return
	}
	var children []Value
	if len(src.root.children) > 0 {
		children = make([]Value, len(src.root.children))
		for i := range src.root.children {
			children[i] = src.root.children[i].Clone()
		}
	}
	d.root.children = children
	d.Rewind()
}

// Clear removes all values and rewinds d.
func (d *Data) Clear() {
	d.root.children = nil
	d.Rewind()
}

// Len returns the number of top-level values.
func (d *Data) Len() int {
	return len(d.root.children)
}

// Empty reports whether d holds no values.
func (d *Data) Empty() bool {
	return len(d.root.children) == 0
}

// Values returns the top-level values. The slice aliases d.
func (d *Data) Values() []Value {
	return d.root.children
}

// MarshalBinary encodes the top-level values back to back.
func (d *Data) MarshalBinary() ([]byte, error) {
	buf := &buffer.Buffer{}
	for _, v := range d.root.children {
		if err := Marshal(buf, v); err != nil {
			return nil, err
		}
	}
	return buf.Detach(), nil
}

// UnmarshalBinary replaces the content of d with the values encoded in b.
func (d *Data) UnmarshalBinary(b []byte) error {
	vs, err := UnmarshalAll(buffer.New(b))
	if err != nil {
		return err
	}
	d.root.children = vs
	d.Rewind()
	return nil
}

func (d *Data) String() string {
	if d == nil {
		return "<nil>"
	}
	var sb strings.Builder
	for i, v := range d.root.children {
		if i > 0 {
			sb.WriteByte(' ')
		}
		v.format(&sb)
	}
	return sb.String()
}

package encoding

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Kind is the type tag of a Value.
type Kind uint8

// Kinds
const (
	// KindInvalid is reported by a cursor that is not positioned on a value.
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindUbyte
	KindUshort
	KindUint
	KindUlong
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindDecimal32
	KindDecimal64
	KindDecimal128
	KindChar
	KindTimestamp
	KindUUID
	KindBinary
	KindString
	KindSymbol
	KindDescribed
	KindArray
	KindList
	KindMap
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindNull:       "null",
	KindBool:       "bool",
	KindUbyte:      "ubyte",
	KindUshort:     "ushort",
	KindUint:       "uint",
	KindUlong:      "ulong",
	KindByte:       "byte",
	KindShort:      "short",
	KindInt:        "int",
	KindLong:       "long",
	KindFloat:      "float",
	KindDouble:     "double",
	KindDecimal32:  "decimal32",
	KindDecimal64:  "decimal64",
	KindDecimal128: "decimal128",
	KindChar:       "char",
	KindTimestamp:  "timestamp",
	KindUUID:       "uuid",
	KindBinary:     "binary",
	KindString:     "string",
	KindSymbol:     "symbol",
	KindDescribed:  "described",
	KindArray:      "array",
	KindList:       "list",
	KindMap:        "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsComposite reports whether values of this kind have children.
func (k Kind) IsComposite() bool {
	switch k {
	case KindDescribed, KindArray, KindList, KindMap:
		return true
	default:
		return false
	}
}

// Value is a self-describing AMQP value: a scalar, or a composite
// holding child values.
//
// Maps hold their entries as alternating key, value children.
// Described values hold exactly two children: descriptor, then value.
// Arrays hold children of a single kind, recorded separately so that
// an empty array keeps its element type.
//
// The zero Value has KindInvalid.
type Value struct {
	kind     Kind
	elem     Kind      // array element kind
	num      uint64    // bool, unsigned, signed (two's complement), float bits, char, timestamp
	raw      []byte    // binary, string, symbol, decimals
	id       uuid.UUID // uuid
	children []Value
}

// NewNull returns the null value.
func NewNull() Value { return Value{kind: KindNull} }

// NewBool returns a bool value.
func NewBool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

// NewUbyte returns a ubyte value.
func NewUbyte(n uint8) Value { return Value{kind: KindUbyte, num: uint64(n)} }

// NewUshort returns a ushort value.
func NewUshort(n uint16) Value { return Value{kind: KindUshort, num: uint64(n)} }

// NewUint returns a uint value.
func NewUint(n uint32) Value { return Value{kind: KindUint, num: uint64(n)} }

// NewUlong returns a ulong value.
func NewUlong(n uint64) Value { return Value{kind: KindUlong, num: n} }

// NewByte returns a byte value.
func NewByte(n int8) Value { return Value{kind: KindByte, num: uint64(int64(n))} }

// NewShort returns a short value.
func NewShort(n int16) Value { return Value{kind: KindShort, num: uint64(int64(n))} }

// NewInt returns an int value.
func NewInt(n int32) Value { return Value{kind: KindInt, num: uint64(int64(n))} }

// NewLong returns a long value.
func NewLong(n int64) Value { return Value{kind: KindLong, num: uint64(n)} }

// NewFloat returns a float value.
func NewFloat(f float32) Value { return Value{kind: KindFloat, num: uint64(math.Float32bits(f))} }

// NewDouble returns a double value.
func NewDouble(f float64) Value { return Value{kind: KindDouble, num: math.Float64bits(f)} }

// NewDecimal32 returns a decimal32 value from its encoded form.
func NewDecimal32(b [4]byte) Value { return Value{kind: KindDecimal32, raw: b[:]} }

// NewDecimal64 returns a decimal64 value from its encoded form.
func NewDecimal64(b [8]byte) Value { return Value{kind: KindDecimal64, raw: b[:]} }

// NewDecimal128 returns a decimal128 value from its encoded form.
func NewDecimal128(b [16]byte) Value { return Value{kind: KindDecimal128, raw: b[:]} }

// NewChar returns a char value.
func NewChar(r rune) Value { return Value{kind: KindChar, num: uint64(uint32(r))} }

// NewTimestamp returns a timestamp value with millisecond precision.
func NewTimestamp(t time.Time) Value {
	return Value{kind: KindTimestamp, num: uint64(t.UnixMilli())}
}

// NewUUID returns a uuid value.
func NewUUID(id uuid.UUID) Value { return Value{kind: KindUUID, id: id} }

// NewBinary returns a binary value holding a copy of b.
func NewBinary(b []byte) Value {
	return Value{kind: KindBinary, raw: append([]byte{}, b...)}
}

// NewString returns a string value.
func NewString(s string) Value { return Value{kind: KindString, raw: []byte(s)} }

// NewSymbol returns a symbol value.
func NewSymbol(s Symbol) Value { return Value{kind: KindSymbol, raw: []byte(s)} }

// NewDescribed returns descriptor and value as a described value.
func NewDescribed(descriptor, value Value) Value {
	return Value{kind: KindDescribed, children: []Value{descriptor, value}}
}

// NewList returns a list of vs.
func NewList(vs ...Value) Value {
	return Value{kind: KindList, children: vs}
}

// NewMap returns a map built from alternating key, value arguments.
// A trailing key without a value is paired with null.
func NewMap(kvs ...Value) Value {
	if len(kvs)%2 != 0 {
		kvs = append(kvs, NewNull())
	}
	return Value{kind: KindMap, children: kvs}
}

// NewArray returns an array of vs, all of which must be of kind elem.
func NewArray(elem Kind, vs ...Value) Value {
	return Value{kind: KindArray, elem: elem, children: vs}
}

// NewSymbolArray returns an array of symbols.
func NewSymbolArray(syms ...Symbol) Value {
	vs := make([]Value, len(syms))
	for i, s := range syms {
		vs[i] = NewSymbol(s)
	}
	return NewArray(KindSymbol, vs...)
}

// Kind returns the type tag of v.
func (v Value) Kind() Kind { return v.kind }

// ElemKind returns the element kind of an array.
func (v Value) ElemKind() Kind { return v.elem }

// IsNull reports whether v is null or invalid.
func (v Value) IsNull() bool { return v.kind == KindNull || v.kind == KindInvalid }

// Bool returns the value of a bool.
func (v Value) Bool() bool { return v.kind == KindBool && v.num != 0 }

// Uint returns the value of any unsigned integer kind, else zero.
func (v Value) Uint() uint64 {
	switch v.kind {
	case KindUbyte, KindUshort, KindUint, KindUlong:
		return v.num
	default:
		return 0
	}
}

// Int returns the value of any signed integer kind, else zero.
func (v Value) Int() int64 {
	switch v.kind {
	case KindByte, KindShort, KindInt, KindLong:
		return int64(v.num)
	default:
		return 0
	}
}

// Float returns the value of a float or double, else zero.
func (v Value) Float() float64 {
	switch v.kind {
	case KindFloat:
		return float64(math.Float32frombits(uint32(v.num)))
	case KindDouble:
		return math.Float64frombits(v.num)
	default:
		return 0
	}
}

// Char returns the value of a char.
func (v Value) Char() rune {
	if v.kind != KindChar {
		return 0
	}
	return rune(uint32(v.num))
}

// Time returns the value of a timestamp in UTC.
func (v Value) Time() time.Time {
	if v.kind != KindTimestamp {
		return time.Time{}
	}
	return time.UnixMilli(int64(v.num)).UTC()
}

// UUID returns the value of a uuid.
func (v Value) UUID() uuid.UUID { return v.id }

// Bytes returns the content of a binary, string, symbol or decimal.
// The slice aliases v.
func (v Value) Bytes() []byte {
	switch v.kind {
	case KindBinary, KindString, KindSymbol, KindDecimal32, KindDecimal64, KindDecimal128:
		return v.raw
	default:
		return nil
	}
}

// Text returns the content of a string or symbol, else "".
func (v Value) Text() string {
	switch v.kind {
	case KindString, KindSymbol:
		return string(v.raw)
	default:
		return ""
	}
}

// Len returns the number of children of a composite.
func (v Value) Len() int { return len(v.children) }

// Index returns the i'th child of a composite.
func (v Value) Index(i int) Value { return v.children[i] }

// Children returns the children of a composite. The slice aliases v.
func (v Value) Children() []Value { return v.children }

// Descriptor returns the descriptor of a described value.
func (v Value) Descriptor() Value {
	if v.kind != KindDescribed || len(v.children) != 2 {
		return Value{}
	}
	return v.children[0]
}

// Described returns the value carried by a described value.
func (v Value) Described() Value {
	if v.kind != KindDescribed || len(v.children) != 2 {
		return Value{}
	}
	return v.children[1]
}

// Clone returns a deep copy of v sharing no memory with it.
func (v Value) Clone() Value {
	c := v
	if v.raw != nil {
		c.raw = append(make([]byte, 0, len(v.raw)), v.raw...)
	}
	if v.children != nil {
		c.children = make([]Value, len(v.children))
		for i := range v.children {
			c.children[i] = v.children[i].Clone()
		}
	}
	return c
}

// LookupSymbolKey returns the value paired with key when key is the first
// key of the map v. Later entries are not examined.
func (v Value) LookupSymbolKey(key Symbol) (Value, bool) {
	if v.kind != KindMap || len(v.children) < 2 {
		return Value{}, false
	}
	k := v.children[0]
	if k.kind != KindSymbol || string(k.raw) != string(key) {
		return Value{}, false
	}
	return v.children[1], true
}

// append adds c to the children of a composite and returns its index.
func (v *Value) append(c Value) int {
	if v.kind == KindArray && v.elem == KindInvalid {
		v.elem = c.kind
	}
	v.children = append(v.children, c)
	return len(v.children) - 1
}

package router

import "github.com/qdgo/router/internal/encoding"

// Data is a container of self-describing AMQP values with a cursor.
// See encoding.Data for the cursor protocol.
type Data = encoding.Data

// Value is a single, possibly composite, AMQP value.
type Value = encoding.Value

// Kind is the type tag of a Value.
type Kind = encoding.Kind

// Symbol is an AMQP symbolic string.
type Symbol = encoding.Symbol

// NewData returns an empty Data.
func NewData() *Data {
	return encoding.NewData()
}

// Kinds
const (
	KindInvalid    = encoding.KindInvalid
	KindNull       = encoding.KindNull
	KindBool       = encoding.KindBool
	KindUbyte      = encoding.KindUbyte
	KindUshort     = encoding.KindUshort
	KindUint       = encoding.KindUint
	KindUlong      = encoding.KindUlong
	KindByte       = encoding.KindByte
	KindShort      = encoding.KindShort
	KindInt        = encoding.KindInt
	KindLong       = encoding.KindLong
	KindFloat      = encoding.KindFloat
	KindDouble     = encoding.KindDouble
	KindDecimal32  = encoding.KindDecimal32
	KindDecimal64  = encoding.KindDecimal64
	KindDecimal128 = encoding.KindDecimal128
	KindChar       = encoding.KindChar
	KindTimestamp  = encoding.KindTimestamp
	KindUUID       = encoding.KindUUID
	KindBinary     = encoding.KindBinary
	KindString     = encoding.KindString
	KindSymbol     = encoding.KindSymbol
	KindDescribed  = encoding.KindDescribed
	KindArray      = encoding.KindArray
	KindList       = encoding.KindList
	KindMap        = encoding.KindMap
)

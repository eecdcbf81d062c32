package encoding

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"
	"github.com/qdgo/router/internal/buffer"
)

// ErrInvalidLength is returned when a length or count field exceeds the
// bytes remaining.
var ErrInvalidLength = errors.New("length field is larger than frame")

// maxNullArray bounds arrays whose elements occupy no bytes.
const maxNullArray = math.MaxUint16

// Unmarshal decodes one value from r.
func Unmarshal(r *buffer.Buffer) (Value, error) {
	b, err := r.ReadByte()
	if err != nil {
		return Value{}, err
	}

	if b == 0x0 {
		descriptor, err := Unmarshal(r)
		if err != nil {
			return Value{}, fmt.Errorf("descriptor: %w", err)
		}
		value, err := Unmarshal(r)
		if err != nil {
			return Value{}, fmt.Errorf("described value: %w", err)
		}
		return NewDescribed(descriptor, value), nil
	}

	return readBody(r, AMQPType(b))
}

// UnmarshalAll decodes values from r until it is exhausted.
func UnmarshalAll(r *buffer.Buffer) ([]Value, error) {
	var vs []Value
	for r.Len() > 0 {
		v, err := Unmarshal(r)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, nil
}

// readBody decodes the payload following constructor code.
func readBody(r *buffer.Buffer, code AMQPType) (Value, error) {
	switch code {
	case TypeCodeNull:
		return NewNull(), nil

	// bool
	case TypeCodeBoolTrue:
		return NewBool(true), nil
	case TypeCodeBoolFalse:
		return NewBool(false), nil
	case TypeCodeBool:
		b, err := r.ReadByte()
		if err != nil {
			return Value{}, err
		}
		switch b {
		case 0:
			return NewBool(false), nil
		case 1:
			return NewBool(true), nil
		default:
			return Value{}, fmt.Errorf("invalid bool value %#02x", b)
		}

	// unsigned integers
	case TypeCodeUbyte:
		b, err := r.ReadByte()
		return NewUbyte(b), err
	case TypeCodeUshort:
		n, err := r.ReadUint16()
		return NewUshort(n), err
	case TypeCodeUint0:
		return NewUint(0), nil
	case TypeCodeSmallUint:
		b, err := r.ReadByte()
		return NewUint(uint32(b)), err
	case TypeCodeUint:
		n, err := r.ReadUint32()
		return NewUint(n), err
	case TypeCodeUlong0:
		return NewUlong(0), nil
	case TypeCodeSmallUlong:
		b, err := r.ReadByte()
		return NewUlong(uint64(b)), err
	case TypeCodeUlong:
		n, err := r.ReadUint64()
		return NewUlong(n), err

	// signed integers
	case TypeCodeByte:
		b, err := r.ReadByte()
		return NewByte(int8(b)), err
	case TypeCodeShort:
		n, err := r.ReadUint16()
		return NewShort(int16(n)), err
	case TypeCodeSmallint:
		b, err := r.ReadByte()
		return NewInt(int32(int8(b))), err
	case TypeCodeInt:
		n, err := r.ReadUint32()
		return NewInt(int32(n)), err
	case TypeCodeSmalllong:
		b, err := r.ReadByte()
		return NewLong(int64(int8(b))), err
	case TypeCodeLong:
		n, err := r.ReadUint64()
		return NewLong(int64(n)), err

	// floating point
	case TypeCodeFloat:
		n, err := r.ReadUint32()
		return NewFloat(math.Float32frombits(n)), err
	case TypeCodeDouble:
		n, err := r.ReadUint64()
		return NewDouble(math.Float64frombits(n)), err
	case TypeCodeDecimal32, TypeCodeDecimal64, TypeCodeDecimal128:
		buf, ok := r.Next(int64(decimalSize(code)))
		if !ok {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{kind: kindOf(code), raw: append([]byte{}, buf...)}, nil

	// other
	case TypeCodeChar:
		n, err := r.ReadUint32()
		return NewChar(rune(n)), err
	case TypeCodeTimestamp:
		n, err := r.ReadUint64()
		return Value{kind: KindTimestamp, num: n}, err
	case TypeCodeUUID:
		buf, ok := r.Next(16)
		if !ok {
			return Value{}, io.ErrUnexpectedEOF
		}
		var id uuid.UUID
		copy(id[:], buf)
		return NewUUID(id), nil

	// variable length
	case TypeCodeVbin8, TypeCodeVbin32,
		TypeCodeStr8, TypeCodeStr32,
		TypeCodeSym8, TypeCodeSym32:
		buf, err := readVariableType(r, code)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: kindOf(code), raw: append([]byte{}, buf...)}, nil

	// compound
	case TypeCodeList0:
		return NewList(), nil
	case TypeCodeList8, TypeCodeList32, TypeCodeMap8, TypeCodeMap32:
		return readCompound(r, code)
	case TypeCodeArray8, TypeCodeArray32:
		return readArray(r, code)

	default:
		return Value{}, fmt.Errorf("unknown type code %#02x", uint8(code))
	}
}

func readVariableType(r *buffer.Buffer, of AMQPType) ([]byte, error) {
	var n int64
	switch of {
	case TypeCodeVbin8, TypeCodeStr8, TypeCodeSym8:
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		n = int64(b)
	default:
		l, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		n = int64(l)
	}

	if n > int64(r.Len()) {
		return nil, ErrInvalidLength
	}
	buf, _ := r.Next(n)
	return buf, nil
}

// readHeaderSlice reads the size and count of a list, map or array and
// returns a buffer bounded to the remaining encoded size.
func readHeaderSlice(r *buffer.Buffer, small bool) (count int, body *buffer.Buffer, _ error) {
	var size, width int64
	if small {
		s, err := r.ReadByte()
		if err != nil {
			return 0, nil, err
		}
		c, err := r.ReadByte()
		if err != nil {
			return 0, nil, err
		}
		size, count, width = int64(s), int(c), 1
	} else {
		s, err := r.ReadUint32()
		if err != nil {
			return 0, nil, err
		}
		c, err := r.ReadUint32()
		if err != nil {
			return 0, nil, err
		}
		size, count, width = int64(s), int(c), 4
	}

	// size covers the count field
	if size < width || size-width > int64(r.Len()) {
		return 0, nil, ErrInvalidLength
	}
	buf, _ := r.Next(size - width)
	return count, buffer.New(buf), nil
}

func readCompound(r *buffer.Buffer, code AMQPType) (Value, error) {
	small := code == TypeCodeList8 || code == TypeCodeMap8
	count, body, err := readHeaderSlice(r, small)
	if err != nil {
		return Value{}, err
	}
	if count > body.Len() {
		return Value{}, ErrInvalidLength
	}

	v := Value{kind: kindOf(code)}
	if v.kind == KindMap && count%2 != 0 {
		return Value{}, fmt.Errorf("map with odd element count %d", count)
	}
	for i := 0; i < count; i++ {
		c, err := Unmarshal(body)
		if err != nil {
			return Value{}, err
		}
		v.children = append(v.children, c)
	}
	return v, nil
}

func readArray(r *buffer.Buffer, code AMQPType) (Value, error) {
	count, body, err := readHeaderSlice(r, code == TypeCodeArray8)
	if err != nil {
		return Value{}, err
	}

	ctor, err := body.ReadByte()
	if err != nil {
		return Value{}, err
	}
	elemCode := AMQPType(ctor)
	if ctor == 0x0 {
		return Value{}, errors.New("arrays of described values are not supported")
	}
	elem := kindOf(elemCode)
	if elem == KindInvalid {
		return Value{}, fmt.Errorf("unknown array element type code %#02x", ctor)
	}
	if elem == KindNull {
		if count > maxNullArray {
			return Value{}, ErrInvalidLength
		}
	} else if count > body.Len() {
		return Value{}, ErrInvalidLength
	}

	v := NewArray(elem)
	for i := 0; i < count; i++ {
		c, err := readBody(body, elemCode)
		if err != nil {
			return Value{}, err
		}
		v.children = append(v.children, c)
	}
	return v, nil
}

// kindOf maps a constructor to the Kind of the value it decodes to.
func kindOf(code AMQPType) Kind {
	switch code {
	case TypeCodeNull:
		return KindNull
	case TypeCodeBool, TypeCodeBoolTrue, TypeCodeBoolFalse:
		return KindBool
	case TypeCodeUbyte:
		return KindUbyte
	case TypeCodeUshort:
		return KindUshort
	case TypeCodeUint, TypeCodeSmallUint, TypeCodeUint0:
		return KindUint
	case TypeCodeUlong, TypeCodeSmallUlong, TypeCodeUlong0:
		return KindUlong
	case TypeCodeByte:
		return KindByte
	case TypeCodeShort:
		return KindShort
	case TypeCodeInt, TypeCodeSmallint:
		return KindInt
	case TypeCodeLong, TypeCodeSmalllong:
		return KindLong
	case TypeCodeFloat:
		return KindFloat
	case TypeCodeDouble:
		return KindDouble
	case TypeCodeDecimal32:
		return KindDecimal32
	case TypeCodeDecimal64:
		return KindDecimal64
	case TypeCodeDecimal128:
		return KindDecimal128
	case TypeCodeChar:
		return KindChar
	case TypeCodeTimestamp:
		return KindTimestamp
	case TypeCodeUUID:
		return KindUUID
	case TypeCodeVbin8, TypeCodeVbin32:
		return KindBinary
	case TypeCodeStr8, TypeCodeStr32:
		return KindString
	case TypeCodeSym8, TypeCodeSym32:
		return KindSymbol
	case TypeCodeList0, TypeCodeList8, TypeCodeList32:
		return KindList
	case TypeCodeMap8, TypeCodeMap32:
		return KindMap
	case TypeCodeArray8, TypeCodeArray32:
		return KindArray
	default:
		return KindInvalid
	}
}

package encoding

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/qdgo/router/internal/buffer"
)

// Marshal appends the AMQP encoding of v to wr.
func Marshal(wr *buffer.Buffer, v Value) error {
	switch v.kind {
	case KindInvalid:
		return errors.New("cannot marshal an invalid value")
	case KindDescribed:
		if len(v.children) != 2 {
			return errors.New("described value must hold a descriptor and a value")
		}
		wr.AppendByte(0x0) // descriptor constructor
		if err := Marshal(wr, v.children[0]); err != nil {
			return err
		}
		return Marshal(wr, v.children[1])
	case KindList, KindMap, KindArray:
		const withCode, force32 = true, false
		return writeComposite(wr, v, withCode, force32)
	}

	code, err := scalarCode(v)
	if err != nil {
		return err
	}
	wr.AppendByte(byte(code))
	return writeBody(wr, code, v)
}

// scalarCode selects the most compact constructor for a scalar.
func scalarCode(v Value) (AMQPType, error) {
	switch v.kind {
	case KindNull:
		return TypeCodeNull, nil
	case KindBool:
		if v.Bool() {
			return TypeCodeBoolTrue, nil
		}
		return TypeCodeBoolFalse, nil
	case KindUbyte:
		return TypeCodeUbyte, nil
	case KindUshort:
		return TypeCodeUshort, nil
	case KindUint:
		switch {
		case v.num == 0:
			return TypeCodeUint0, nil
		case v.num <= math.MaxUint8:
			return TypeCodeSmallUint, nil
		default:
			return TypeCodeUint, nil
		}
	case KindUlong:
		switch {
		case v.num == 0:
			return TypeCodeUlong0, nil
		case v.num <= math.MaxUint8:
			return TypeCodeSmallUlong, nil
		default:
			return TypeCodeUlong, nil
		}
	case KindByte:
		return TypeCodeByte, nil
	case KindShort:
		return TypeCodeShort, nil
	case KindInt:
		if n := v.Int(); n >= math.MinInt8 && n <= math.MaxInt8 {
			return TypeCodeSmallint, nil
		}
		return TypeCodeInt, nil
	case KindLong:
		if n := v.Int(); n >= math.MinInt8 && n <= math.MaxInt8 {
			return TypeCodeSmalllong, nil
		}
		return TypeCodeLong, nil
	case KindFloat:
		return TypeCodeFloat, nil
	case KindDouble:
		return TypeCodeDouble, nil
	case KindDecimal32:
		return TypeCodeDecimal32, nil
	case KindDecimal64:
		return TypeCodeDecimal64, nil
	case KindDecimal128:
		return TypeCodeDecimal128, nil
	case KindChar:
		return TypeCodeChar, nil
	case KindTimestamp:
		return TypeCodeTimestamp, nil
	case KindUUID:
		return TypeCodeUUID, nil
	case KindBinary:
		return variableCode(TypeCodeVbin8, TypeCodeVbin32, len(v.raw)), nil
	case KindString:
		return variableCode(TypeCodeStr8, TypeCodeStr32, len(v.raw)), nil
	case KindSymbol:
		return variableCode(TypeCodeSym8, TypeCodeSym32, len(v.raw)), nil
	default:
		return 0, fmt.Errorf("no scalar encoding for %s", v.kind)
	}
}

func variableCode(small, large AMQPType, l int) AMQPType {
	if l <= math.MaxUint8 {
		return small
	}
	return large
}

// arrayCode selects the single constructor shared by all elements of an array.
func arrayCode(v Value) (Kind, AMQPType, error) {
	elem := v.elem
	if elem == KindInvalid {
		elem = KindNull
		if len(v.children) > 0 {
			elem = v.children[0].kind
		}
	}

	maxLen := 0
	for _, c := range v.children {
		if c.kind != elem {
			return 0, 0, fmt.Errorf("array element of kind %s in array of %s", c.kind, elem)
		}
		if len(c.raw) > maxLen {
			maxLen = len(c.raw)
		}
	}

	switch elem {
	case KindNull:
		return elem, TypeCodeNull, nil
	case KindBool:
		return elem, TypeCodeBool, nil
	case KindUbyte:
		return elem, TypeCodeUbyte, nil
	case KindUshort:
		return elem, TypeCodeUshort, nil
	case KindUint:
		return elem, TypeCodeUint, nil
	case KindUlong:
		return elem, TypeCodeUlong, nil
	case KindByte:
		return elem, TypeCodeByte, nil
	case KindShort:
		return elem, TypeCodeShort, nil
	case KindInt:
		return elem, TypeCodeInt, nil
	case KindLong:
		return elem, TypeCodeLong, nil
	case KindFloat:
		return elem, TypeCodeFloat, nil
	case KindDouble:
		return elem, TypeCodeDouble, nil
	case KindDecimal32:
		return elem, TypeCodeDecimal32, nil
	case KindDecimal64:
		return elem, TypeCodeDecimal64, nil
	case KindDecimal128:
		return elem, TypeCodeDecimal128, nil
	case KindChar:
		return elem, TypeCodeChar, nil
	case KindTimestamp:
		return elem, TypeCodeTimestamp, nil
	case KindUUID:
		return elem, TypeCodeUUID, nil
	case KindBinary:
		return elem, variableCode(TypeCodeVbin8, TypeCodeVbin32, maxLen), nil
	case KindString:
		return elem, variableCode(TypeCodeStr8, TypeCodeStr32, maxLen), nil
	case KindSymbol:
		return elem, variableCode(TypeCodeSym8, TypeCodeSym32, maxLen), nil
	case KindList:
		return elem, TypeCodeList32, nil
	case KindMap:
		return elem, TypeCodeMap32, nil
	case KindArray:
		return elem, TypeCodeArray32, nil
	default:
		return 0, 0, fmt.Errorf("arrays of %s are not supported", elem)
	}
}

// writeComposite writes a list, map or array. When withCode is false the
// constructor has already been written (array elements) and force32 selects
// the 32-bit layout the shared constructor promised.
func writeComposite(wr *buffer.Buffer, v Value, withCode, force32 bool) error {
	var small, large AMQPType
	count := len(v.children)
	body := &buffer.Buffer{}

	switch v.kind {
	case KindList:
		if count == 0 && withCode {
			wr.AppendByte(byte(TypeCodeList0))
			return nil
		}
		small, large = TypeCodeList8, TypeCodeList32
		for _, c := range v.children {
			if err := Marshal(body, c); err != nil {
				return err
			}
		}
	case KindMap:
		if count%2 != 0 {
			return errors.New("map must hold an even number of elements")
		}
		small, large = TypeCodeMap8, TypeCodeMap32
		for _, c := range v.children {
			if err := Marshal(body, c); err != nil {
				return err
			}
		}
	case KindArray:
		small, large = TypeCodeArray8, TypeCodeArray32
		_, code, err := arrayCode(v)
		if err != nil {
			return err
		}
		body.AppendByte(byte(code))
		for _, c := range v.children {
			if err := writeBody(body, code, c); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%s is not a composite", v.kind)
	}

	n := body.Len()
	switch {
	case !force32 && count <= math.MaxUint8 && n+1 <= math.MaxUint8:
		if withCode {
			wr.AppendByte(byte(small))
		}
		wr.AppendByte(byte(n + 1))
		wr.AppendByte(byte(count))
	case uint64(n)+4 <= math.MaxUint32:
		if withCode {
			wr.AppendByte(byte(large))
		}
		wr.AppendUint32(uint32(n + 4))
		wr.AppendUint32(uint32(count))
	default:
		return fmt.Errorf("%s too large", v.kind)
	}

	wr.Append(body.Bytes())
	return nil
}

// writeBody writes the payload of v for constructor code.
func writeBody(wr *buffer.Buffer, code AMQPType, v Value) error {
	switch code {
	case TypeCodeNull, TypeCodeBoolTrue, TypeCodeBoolFalse, TypeCodeUint0, TypeCodeUlong0:
		// encoded entirely by the constructor
	case TypeCodeBool:
		wr.AppendByte(byte(v.num))
	case TypeCodeUbyte, TypeCodeSmallUint, TypeCodeSmallUlong,
		TypeCodeByte, TypeCodeSmallint, TypeCodeSmalllong:
		wr.AppendByte(byte(v.num))
	case TypeCodeUshort, TypeCodeShort:
		wr.AppendUint16(uint16(v.num))
	case TypeCodeUint, TypeCodeInt, TypeCodeFloat, TypeCodeChar:
		wr.AppendUint32(uint32(v.num))
	case TypeCodeUlong, TypeCodeLong, TypeCodeDouble, TypeCodeTimestamp:
		wr.AppendUint64(v.num)
	case TypeCodeDecimal32, TypeCodeDecimal64, TypeCodeDecimal128:
		if want := decimalSize(code); len(v.raw) != want {
			return fmt.Errorf("%s must be %d bytes, have %d", v.kind, want, len(v.raw))
		}
		wr.Append(v.raw)
	case TypeCodeUUID:
		wr.Append(v.id[:])
	case TypeCodeVbin8, TypeCodeStr8, TypeCodeSym8:
		if err := checkText(v); err != nil {
			return err
		}
		wr.AppendByte(byte(len(v.raw)))
		wr.Append(v.raw)
	case TypeCodeVbin32, TypeCodeStr32, TypeCodeSym32:
		if err := checkText(v); err != nil {
			return err
		}
		if uint64(len(v.raw)) > math.MaxUint32 {
			return errors.New("too long")
		}
		wr.AppendUint32(uint32(len(v.raw)))
		wr.Append(v.raw)
	case TypeCodeList32, TypeCodeMap32, TypeCodeArray32:
		const withCode, force32 = false, true
		return writeComposite(wr, v, withCode, force32)
	default:
		return fmt.Errorf("no encoding for type code %#02x", uint8(code))
	}
	return nil
}

func checkText(v Value) error {
	if v.kind != KindBinary && !utf8.Valid(v.raw) {
		return errors.New("not a valid UTF-8 string")
	}
	return nil
}

func decimalSize(code AMQPType) int {
	switch code {
	case TypeCodeDecimal32:
		return 4
	case TypeCodeDecimal64:
		return 8
	default:
		return 16
	}
}

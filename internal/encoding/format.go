package encoding

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// String renders v in a compact, human readable notation:
// symbols as :sym, strings quoted, binaries as b"..", lists as [..],
// maps as {k=v, ..}, described values as @descriptor value and
// arrays as @elem[..].
func (v Value) String() string {
	var sb strings.Builder
	v.format(&sb)
	return sb.String()
}

func (v Value) format(sb *strings.Builder) {
	switch v.kind {
	case KindInvalid:
		sb.WriteString("<invalid>")
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.Bool()))
	case KindUbyte, KindUshort, KindUint, KindUlong:
		sb.WriteString(strconv.FormatUint(v.Uint(), 10))
	case KindByte, KindShort, KindInt, KindLong:
		sb.WriteString(strconv.FormatInt(v.Int(), 10))
	case KindFloat:
		sb.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, 32))
	case KindDouble:
		sb.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, 64))
	case KindDecimal32, KindDecimal64, KindDecimal128:
		sb.WriteString(v.kind.String())
		sb.WriteString("(0x")
		sb.WriteString(hex.EncodeToString(v.raw))
		sb.WriteByte(')')
	case KindChar:
		sb.WriteString(strconv.QuoteRune(v.Char()))
	case KindTimestamp:
		sb.WriteString(v.Time().Format(time.RFC3339Nano))
	case KindUUID:
		sb.WriteString(v.id.String())
	case KindBinary:
		sb.WriteByte('b')
		sb.WriteString(strconv.Quote(string(v.raw)))
	case KindString:
		sb.WriteString(strconv.Quote(string(v.raw)))
	case KindSymbol:
		sb.WriteByte(':')
		if isBareSymbol(v.raw) {
			sb.Write(v.raw)
		} else {
			sb.WriteString(strconv.Quote(string(v.raw)))
		}
	case KindDescribed:
		sb.WriteByte('@')
		v.Descriptor().format(sb)
		sb.WriteByte(' ')
		v.Described().format(sb)
	case KindArray:
		sb.WriteByte('@')
		sb.WriteString(v.elem.String())
		formatSeq(sb, v.children, '[', ']', ", ")
	case KindList:
		formatSeq(sb, v.children, '[', ']', ", ")
	case KindMap:
		sb.WriteByte('{')
		for i := 0; i+1 < len(v.children); i += 2 {
			if i > 0 {
				sb.WriteString(", ")
			}
			v.children[i].format(sb)
			sb.WriteByte('=')
			v.children[i+1].format(sb)
		}
		sb.WriteByte('}')
	default:
		sb.WriteString(v.kind.String())
	}
}

func formatSeq(sb *strings.Builder, vs []Value, start, end byte, sep string) {
	sb.WriteByte(start)
	for i, c := range vs {
		if i > 0 {
			sb.WriteString(sep)
		}
		c.format(sb)
	}
	sb.WriteByte(end)
}

// isBareSymbol reports whether a symbol can be printed without quotes.
func isBareSymbol(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':', c == '/', c == '$':
		default:
			return false
		}
	}
	return true
}

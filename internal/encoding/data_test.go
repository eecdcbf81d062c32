package encoding

import (
	"testing"

	"github.com/qdgo/router/internal/test"
	"github.com/stretchr/testify/require"
)

// buildProps builds {:address="queue/a", :tags=[1, 2]} :extra.
func buildProps(d *Data) {
	d.PutMap()
	d.Enter()
	d.PutSymbol("address")
	d.PutString("queue/a")
	d.PutSymbol("tags")
	d.PutList()
	d.Enter()
	d.PutUint(1)
	d.PutUint(2)
	d.Exit()
	d.Exit()
	d.PutSymbol("extra")
}

func TestDataPutAndWalk(t *testing.T) {
	d := NewData()
	buildProps(d)
	require.Equal(t, 2, d.Len())
	require.Equal(t, `{:address="queue/a", :tags=[1, 2]} :extra`, d.String())

	d.Rewind()
	require.Equal(t, KindInvalid, d.Type())
	require.False(t, d.Enter(), "enter before the first value")

	require.True(t, d.Next())
	require.Equal(t, KindMap, d.Type())
	require.True(t, d.Enter())

	require.True(t, d.Next())
	require.Equal(t, Symbol("address"), d.SymbolValue())
	require.True(t, d.Next())
	require.Equal(t, "queue/a", d.StringValue())
	require.True(t, d.Next())
	require.True(t, d.Next())
	require.Equal(t, KindList, d.Type())
	require.True(t, d.Enter())
	require.True(t, d.Next())
	require.EqualValues(t, 1, d.UintValue())
	require.True(t, d.Next())
	require.EqualValues(t, 2, d.UintValue())
	require.False(t, d.Next())
	require.EqualValues(t, 2, d.UintValue(), "cursor stays on the last value")
	require.True(t, d.Exit())
	require.False(t, d.Next())
	require.True(t, d.Exit())

	require.Equal(t, KindMap, d.Type())
	require.True(t, d.Next())
	require.Equal(t, Symbol("extra"), d.SymbolValue())
	require.False(t, d.Enter(), "symbols are not composite")
	require.False(t, d.Next())
	require.False(t, d.Exit())
}

func TestDataZeroValue(t *testing.T) {
	var d Data
	require.True(t, d.Empty())
	require.False(t, d.Next())
	require.False(t, d.Exit())

	d.PutSymbol("a")
	d.Rewind()
	require.True(t, d.Next())
	require.Equal(t, Symbol("a"), d.SymbolValue())
}

func TestDataPutAfterRewindAppends(t *testing.T) {
	d := NewData()
	d.PutSymbol("a")
	d.Rewind()
	d.PutSymbol("b")
	require.Equal(t, ":a :b", d.String())
	require.Equal(t, Symbol("b"), d.SymbolValue())
}

func TestDataGettersOnWrongKind(t *testing.T) {
	d := NewData()
	require.Empty(t, d.SymbolValue())

	d.PutString("s")
	require.Empty(t, d.SymbolValue())
	require.Nil(t, d.BinaryValue())
	require.Zero(t, d.IntValue())
	require.False(t, d.BoolValue())

	d.PutBinary([]byte{1})
	require.Equal(t, []byte{1}, d.BinaryValue())
	require.Empty(t, d.StringValue())

	d.PutLong(-3)
	require.EqualValues(t, -3, d.IntValue())
	d.PutBool(true)
	require.True(t, d.BoolValue())
}

func TestDataPutArray(t *testing.T) {
	d := NewData()
	d.PutArray(KindSymbol)
	d.Enter()
	d.PutSymbol("x")
	d.PutSymbol("y")
	d.Exit()

	v, ok := d.Current()
	require.True(t, ok)
	require.Equal(t, KindArray, v.Kind())
	require.Equal(t, KindSymbol, v.ElemKind())
	require.Equal(t, 2, v.Len())
}

func TestDataPutDescribed(t *testing.T) {
	d := NewData()
	d.PutDescribed()
	d.Enter()
	d.PutSymbol("apache.org:selector-filter:string")
	d.PutString("color = 'red'")
	d.Exit()

	v, _ := d.Current()
	require.Equal(t, Symbol("apache.org:selector-filter:string"), Symbol(v.Descriptor().Text()))
	require.Equal(t, "color = 'red'", v.Described().Text())
}

func TestDataCopy(t *testing.T) {
	src := NewData()
	buildProps(src)

	dst := NewData()
	dst.PutSymbol("stale")
	dst.Copy(src)
	if diff := test.Diff(src.Values(), dst.Values()); diff != "" {
		t.Fatalf("copy differs from source (-src +dst): %s", diff)
	}
	require.Equal(t, KindInvalid, dst.Type(), "copy rewinds")

	// mutating the source must not reach the copy
	src.Values()[0].Index(1).Bytes()[0] = 'Q'
	src.Rewind()
	src.PutSymbol("more")
	require.Equal(t, `{:address="queue/a", :tags=[1, 2]} :extra`, dst.String())

	dst.Copy(dst)
	require.Equal(t, 2, dst.Len())

	dst.Copy(nil)
	require.True(t, dst.Empty())

	empty := NewData()
	src.Copy(empty)
	require.True(t, src.Empty())
}

func TestDataBinary(t *testing.T) {
	d := NewData()
	buildProps(d)

	b, err := d.MarshalBinary()
	require.NoError(t, err)

	got := NewData()
	require.NoError(t, got.UnmarshalBinary(b))
	if diff := test.Diff(d.Values(), got.Values()); diff != "" {
		t.Fatalf("decoded data differs (-want +got): %s", diff)
	}

	require.Error(t, got.UnmarshalBinary([]byte{0xa1, 9}))
	require.Equal(t, 2, got.Len(), "failed decode leaves content alone")
}

func TestDataNilString(t *testing.T) {
	var d *Data
	require.Equal(t, "<nil>", d.String())
}

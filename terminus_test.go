package router

import (
	"testing"

	"github.com/qdgo/router/internal/encoding"
	"github.com/qdgo/router/internal/test"
	"github.com/stretchr/testify/require"
)

// putProps stores a single dynamic-node-properties map built from kvs.
func putProps(d *Data, kvs ...Value) {
	d.Clear()
	d.Put(encoding.NewMap(kvs...))
}

func exampleSource() *WireTerminus {
	w := NewWireTerminus(TerminusSource)
	w.SetAddress("queue/a")
	w.SetDurability(DurabilityConfiguration)
	w.SetExpiryPolicy(ExpiryNever)
	w.SetTimeout(30)
	w.SetDynamic(true)
	w.SetDistributionMode(DistributionMove)
	putProps(w.Properties(),
		encoding.NewSymbol(DynamicNodePropertyAddress), encoding.NewString("amqp:replyto:123"),
	)
	w.Filter().Put(encoding.NewMap(
		encoding.NewSymbol("selector"),
		encoding.NewDescribed(encoding.NewSymbol("apache.org:selector-filter:string"), encoding.NewString("color = 'red'")),
	))
	w.Outcomes().PutSymbol("amqp:accepted:list")
	w.Outcomes().PutSymbol("amqp:rejected:list")
	w.Capabilities().PutSymbol("shared")
	w.Capabilities().PutSymbol("global")
	return w
}

func requireSameWire(t *testing.T, want, got *WireTerminus) {
	t.Helper()
	require.Equal(t, want.Address(), got.Address())
	require.Equal(t, want.Durability(), got.Durability())
	require.Equal(t, want.ExpiryPolicy(), got.ExpiryPolicy())
	require.Equal(t, want.Timeout(), got.Timeout())
	require.Equal(t, want.IsDynamic(), got.IsDynamic())
	require.Equal(t, want.DistributionMode(), got.DistributionMode())
	for _, c := range []struct {
		name      string
		want, got *Data
	}{
		{"properties", want.Properties(), got.Properties()},
		{"filter", want.Filter(), got.Filter()},
		{"outcomes", want.Outcomes(), got.Outcomes()},
		{"capabilities", want.Capabilities(), got.Capabilities()},
	} {
		if diff := test.Diff(c.want.Values(), c.got.Values()); diff != "" {
			t.Fatalf("%s differ (-want +got): %s", c.name, diff)
		}
	}
}

func TestTerminusRoundTrip(t *testing.T) {
	w := exampleSource()
	term := NewTerminus(w)
	defer term.Free()

	require.False(t, term.IsAnonymous())
	require.True(t, term.IsDynamic())
	require.False(t, term.IsCoordinator())
	require.Equal(t, DurabilityConfiguration, term.Durability())
	require.Equal(t, ExpiryNever, term.ExpiryPolicy())
	require.EqualValues(t, 30, term.Timeout())
	require.Equal(t, DistributionMove, term.DistributionMode())

	out := NewWireTerminus(TerminusSource)
	term.CopyTo(out)
	requireSameWire(t, w, out)
}

func TestTerminusDoesNotAlias(t *testing.T) {
	w := exampleSource()
	term := NewTerminus(w)
	defer term.Free()

	// changes to the wire terminus after construction are not seen
	w.SetAddress("other")
	w.Capabilities().Clear()
	putProps(w.Properties())
	require.True(t, term.Address().EqualString("queue/a"))
	require.True(t, term.HasCapability("shared"))
	require.Equal(t, "amqp:replyto:123", term.DynamicNodeAddress().String())

	// changes to the terminus after CopyTo are not seen by the copy
	out := NewWireTerminus(TerminusSource)
	term.CopyTo(out)
	term.Capabilities().Clear()
	term.AddCapability("topic")
	term.Outcomes().Clear()
	term.SetAddress("changed")
	require.Equal(t, "queue/a", out.Address())
	require.Equal(t, ":shared :global", out.Capabilities().String())
	require.Equal(t, 2, out.Outcomes().Len())

	// and the other way round
	out.Properties().Clear()
	require.Equal(t, "amqp:replyto:123", term.DynamicNodeAddress().String())
}

func TestTerminusNil(t *testing.T) {
	var nilTerm *Terminus
	require.True(t, nilTerm.IsAnonymous())
	require.NotPanics(t, nilTerm.Free)
	require.Equal(t, "{}", nilTerm.String())

	w := NewWireTerminus(TerminusTarget)
	w.SetAddress("untouched")
	nilTerm.CopyTo(w)
	require.Equal(t, "untouched", w.Address())
	require.Equal(t, ExpirySessionEnd, w.ExpiryPolicy())

	require.Panics(t, func() { nilTerm.IsDynamic() })
}

func TestNewTerminusFromNil(t *testing.T) {
	term := NewTerminus(nil)
	defer term.Free()

	require.True(t, term.IsAnonymous())
	require.False(t, term.IsDynamic())
	require.Nil(t, term.Address())
	require.Nil(t, term.DynamicNodeAddress())
	require.False(t, term.HasCapability("shared"))
	require.Equal(t, DurabilityNone, term.Durability())
	require.Equal(t, ExpiryLinkDetach, term.ExpiryPolicy())
	require.Equal(t, "{<none> exp=link-detach}", term.String())

	w := NewWireTerminus(TerminusSource)
	term.CopyTo(w)
	require.Equal(t, ExpiryLinkDetach, w.ExpiryPolicy())
	require.NoError(t, w.ExpiryPolicy().Validate())

	b, err := w.MarshalBinary()
	require.NoError(t, err)
	require.NoError(t, NewWireTerminus(TerminusUnspecified).UnmarshalBinary(b))
}

func TestNewTerminusEmptyAddressIsAnonymous(t *testing.T) {
	term := NewTerminus(NewWireTerminus(TerminusTarget))
	defer term.Free()
	require.True(t, term.IsAnonymous())

	// copying out an anonymous terminus leaves the wire address alone
	w := NewWireTerminus(TerminusTarget)
	w.SetAddress("kept")
	term.CopyTo(w)
	require.Equal(t, "kept", w.Address())
}

func TestTerminusSetAddress(t *testing.T) {
	for _, addr := range []string{"queue/a", "amqp://host:5672/queue", "x", ""} {
		t.Run(addr, func(t *testing.T) {
			term := NewTerminus(nil)
			defer term.Free()

			term.SetAddress("first")
			term.SetAddress(addr)
			require.False(t, term.IsAnonymous())
			require.True(t, term.Address().EqualString(addr))
			require.Equal(t, len(addr), term.Address().Len())

			w := NewWireTerminus(TerminusSource)
			term.CopyTo(w)
			require.Equal(t, addr, w.Address())
		})
	}
}

func TestTerminusCapabilities(t *testing.T) {
	term := NewTerminus(nil)
	defer term.Free()

	require.False(t, term.HasCapability(""))

	term.AddCapability("shared")
	require.True(t, term.HasCapability("shared"))
	require.False(t, term.HasCapability("share"))

	// only the first capability is examined
	term.AddCapability("global")
	require.True(t, term.HasCapability("shared"))
	require.False(t, term.HasCapability("global"))

	// duplicates are kept
	term.AddCapability("shared")
	require.Equal(t, 3, term.Capabilities().Len())
	require.Equal(t, ":shared :global :shared", term.Capabilities().String())

	w := NewWireTerminus(TerminusTarget)
	term.CopyTo(w)
	require.Equal(t, 3, w.Capabilities().Len())
}

func TestHasCapabilityFirstValueNotSymbol(t *testing.T) {
	w := NewWireTerminus(TerminusSource)
	w.Capabilities().PutString("shared")
	w.Capabilities().PutSymbol("shared")

	term := NewTerminus(w)
	defer term.Free()
	require.False(t, term.HasCapability("shared"))
}

func TestDynamicNodeAddress(t *testing.T) {
	addrKey := encoding.NewSymbol(DynamicNodePropertyAddress)

	tests := []struct {
		label string
		props func(d *Data)
		want  string // "" means no address
	}{
		{
			label: "address",
			props: func(d *Data) { putProps(d, addrKey, encoding.NewString("amqp:replyto:123")) },
			want:  "amqp:replyto:123",
		},
		{
			label: "address followed by other keys",
			props: func(d *Data) {
				putProps(d,
					addrKey, encoding.NewString("tmp/1"),
					encoding.NewSymbol("lifetime-policy"), encoding.NewDescribed(encoding.NewUlong(0x2b), encoding.NewList()),
				)
			},
			want: "tmp/1",
		},
		{
			label: "address not the first key",
			props: func(d *Data) {
				putProps(d,
					encoding.NewSymbol("lifetime-policy"), encoding.NewDescribed(encoding.NewUlong(0x2b), encoding.NewList()),
					addrKey, encoding.NewString("tmp/1"),
				)
			},
		},
		{
			label: "no properties",
			props: func(d *Data) {},
		},
		{
			label: "empty map",
			props: func(d *Data) { putProps(d) },
		},
		{
			label: "other key",
			props: func(d *Data) { putProps(d, encoding.NewSymbol("supported-dist-modes"), encoding.NewString("move")) },
		},
		{
			label: "string key",
			props: func(d *Data) { putProps(d, encoding.NewString("address"), encoding.NewString("tmp/1")) },
		},
		{
			label: "empty value",
			props: func(d *Data) { putProps(d, addrKey, encoding.NewString("")) },
		},
		{
			label: "symbol value",
			props: func(d *Data) { putProps(d, addrKey, encoding.NewSymbol("tmp/1")) },
		},
		{
			label: "not a map",
			props: func(d *Data) { d.PutList() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			w := NewWireTerminus(TerminusTarget)
			w.SetDynamic(true)
			tt.props(w.Properties())

			term := NewTerminus(w)
			defer term.Free()

			it := term.DynamicNodeAddress()
			if tt.want == "" {
				require.Nil(t, it)
				return
			}
			require.NotNil(t, it)
			require.True(t, it.EqualString(tt.want))

			// the iterator survives changes to the terminus
			term.Properties().Clear()
			term.Free()
			require.Equal(t, tt.want, it.String())
		})
	}
}

func TestTerminusFree(t *testing.T) {
	term := NewTerminus(exampleSource())
	term.Free()
	require.True(t, term.IsAnonymous())
	require.Nil(t, term.Address())
	require.Nil(t, term.Capabilities())
	require.Nil(t, term.DynamicNodeAddress())
	require.NotPanics(t, term.Free)
}

func TestTerminusAddressPrefix(t *testing.T) {
	term := NewTerminus(nil)
	defer term.Free()

	term.InsertAddressPrefix("M0")
	require.True(t, term.IsAnonymous())
	term.StripAddressPrefix("M0")
	require.True(t, term.IsAnonymous())

	term.SetAddress("queue/a")
	term.InsertAddressPrefix("M0")
	require.Equal(t, "M0queue/a", term.Address().String())

	term.StripAddressPrefix("X")
	require.Equal(t, "M0queue/a", term.Address().String())

	term.StripAddressPrefix("M0")
	require.Equal(t, "queue/a", term.Address().String())
}

func TestCoordinatorTerminus(t *testing.T) {
	w := NewWireTerminus(TerminusCoordinator)
	w.Capabilities().PutSymbol("amqp:local-transactions")

	term := NewTerminus(w)
	defer term.Free()
	require.True(t, term.IsCoordinator())
	require.True(t, term.IsAnonymous())
	require.True(t, term.HasCapability("amqp:local-transactions"))
	require.Equal(t, "{<none> coordinator exp=session-end caps=:amqp:local-transactions}", term.String())
}

func TestTerminusString(t *testing.T) {
	term := NewTerminus(exampleSource())
	defer term.Free()

	require.Equal(t,
		`{queue/a dur=configuration exp=never timeout=30 dyn dist=move `+
			`props={:address="amqp:replyto:123"} `+
			`filter={:selector=@:apache.org:selector-filter:string "color = 'red'"} `+
			`outcomes=:amqp:accepted:list :amqp:rejected:list caps=:shared :global}`,
		term.String())
}

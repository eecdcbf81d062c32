package router

import (
	"strconv"
	"strings"

	"github.com/qdgo/router/internal/debug"
)

// Terminus is the router's own copy of one end (source or target) of a
// link, taken from or destined for an attach performative.
//
// A Terminus owns its address and its four containers; nothing is shared
// with the WireTerminus it was built from or copied to. It is not safe for
// concurrent use.
type Terminus struct {
	address          *Field // nil for an anonymous terminus
	coordinator      bool
	durability       Durability
	expiryPolicy     ExpiryPolicy
	timeout          uint32
	dynamic          bool
	distributionMode DistributionMode

	properties   *Data
	filter       *Data
	outcomes     *Data
	capabilities *Data
}

// NewTerminus creates a Terminus from w. With a nil w the terminus is
// anonymous and not dynamic, with no durability and link-detach expiry.
// An empty address on w also yields an anonymous terminus.
func NewTerminus(w *WireTerminus) *Terminus {
	t := &Terminus{
		expiryPolicy: ExpiryLinkDetach,
		properties:   NewData(),
		filter:       NewData(),
		outcomes:     NewData(),
		capabilities: NewData(),
	}

	if w == nil {
		return t
	}

	if addr := w.Address(); addr != "" {
		t.address = NewField(addr)
	}

	t.coordinator = w.Type() == TerminusCoordinator
	t.durability = w.Durability()
	t.expiryPolicy = w.ExpiryPolicy()
	t.timeout = w.Timeout()
	t.dynamic = w.IsDynamic()
	t.distributionMode = w.DistributionMode()

	t.properties.Copy(w.Properties())
	t.filter.Copy(w.Filter())
	t.outcomes.Copy(w.Outcomes())
	t.capabilities.Copy(w.Capabilities())

	debug.Log(3, "terminus: created %s from %s", t, w.Type())
	return t
}

// Free releases the address and containers of t. It is safe to call on
// a nil or already freed Terminus.
func (t *Terminus) Free() {
	if t == nil {
		return
	}

	t.address.Free()
	t.address = nil
	for _, d := range []*Data{t.properties, t.filter, t.outcomes, t.capabilities} {
		if d != nil {
			d.Clear()
		}
	}
	t.properties, t.filter, t.outcomes, t.capabilities = nil, nil, nil, nil
}

// CopyTo writes the state of t into w, replacing the content of w's
// containers with deep copies of t's. w's address is left alone when t is
// anonymous. Nothing is written when t is nil.
func (t *Terminus) CopyTo(w *WireTerminus) {
	if t == nil {
		return
	}
	debug.Assert(w != nil)

	if t.address != nil {
		it := t.address.Iterator()
		it.ResetView(ViewAll)
		w.SetAddress(string(it.Copy()))
	}

	w.SetDurability(t.durability)
	w.SetExpiryPolicy(t.expiryPolicy)
	w.SetTimeout(t.timeout)
	w.SetDynamic(t.dynamic)
	w.SetDistributionMode(t.distributionMode)

	w.Properties().Copy(t.properties)
	w.Filter().Copy(t.filter)
	w.Outcomes().Copy(t.outcomes)
	w.Capabilities().Copy(t.capabilities)

	debug.Log(3, "terminus: copied %s to %s", t, w.Type())
}

// AddCapability appends capability as a symbol. Duplicates are kept.
func (t *Terminus) AddCapability(capability string) {
	t.capabilities.Rewind()
	t.capabilities.PutSymbol(Symbol(capability))
}

// HasCapability reports whether the first capability of t is exactly
// capability. Capabilities after the first are not examined.
func (t *Terminus) HasCapability(capability string) bool {
	caps := t.capabilities
	caps.Rewind()
	caps.Next()
	if caps.Type() == KindSymbol {
		return string(caps.SymbolValue()) == capability
	}
	return false
}

// IsAnonymous reports whether t has no address. A nil Terminus is anonymous.
func (t *Terminus) IsAnonymous() bool {
	return t == nil || t.address == nil
}

// IsDynamic reports whether the peer is asked to assign the address.
func (t *Terminus) IsDynamic() bool {
	return t.dynamic
}

// IsCoordinator reports whether t was created from a transaction
// coordinator target.
func (t *Terminus) IsCoordinator() bool {
	return t.coordinator
}

// SetAddress replaces the address of t. Unlike NewTerminus, an empty addr
// is stored as an empty address and t stops being anonymous.
func (t *Terminus) SetAddress(addr string) {
	t.address.Free()
	t.address = NewField(addr)
	debug.Log(3, "terminus: address set to %q", addr)
}

// Address returns an iterator over the address of t, or nil if t is
// anonymous. The iterator belongs to t and is invalidated by SetAddress
// and Free.
func (t *Terminus) Address() *Iterator {
	if t.IsAnonymous() {
		return nil
	}
	return t.address.Iterator()
}

// DynamicNodeAddress returns the address requested through the
// dynamic-node-properties of t, or nil if there is none.
//
// The first value held in the properties must be a map whose first key is
// the DynamicNodePropertyAddress symbol, paired with a non-empty string.
// The returned iterator holds its own copy of the address.
func (t *Terminus) DynamicNodeAddress() *Iterator {
	props := t.properties
	if props == nil {
		return nil
	}

	props.Rewind()
	if !props.Next() {
		return nil
	}
	v, _ := props.Current()
	addr, ok := v.LookupSymbolKey(DynamicNodePropertyAddress)
	if !ok || addr.Kind() != KindString || len(addr.Bytes()) == 0 {
		return nil
	}

	debug.Log(3, "terminus: dynamic node address %q", addr.Text())
	return NewBinaryIterator(addr.Bytes(), ViewAll)
}

// InsertAddressPrefix prepends prefix to the address of t.
// Anonymous termini are left unchanged.
func (t *Terminus) InsertAddressPrefix(prefix string) {
	if t.IsAnonymous() {
		return
	}
	t.SetAddress(prefix + t.address.Iterator().String())
}

// StripAddressPrefix removes prefix from the start of the address of t.
// Anonymous termini and addresses not starting with prefix are left
// unchanged.
func (t *Terminus) StripAddressPrefix(prefix string) {
	if t.IsAnonymous() {
		return
	}
	addr := t.address.Iterator().String()
	if !strings.HasPrefix(addr, prefix) {
		return
	}
	t.SetAddress(addr[len(prefix):])
}

func (t *Terminus) Durability() Durability {
	return t.durability
}

func (t *Terminus) ExpiryPolicy() ExpiryPolicy {
	return t.expiryPolicy
}

// Timeout returns the expiry timeout in seconds.
func (t *Terminus) Timeout() uint32 {
	return t.timeout
}

func (t *Terminus) DistributionMode() DistributionMode {
	return t.distributionMode
}

// Properties returns the dynamic-node-properties container of t.
func (t *Terminus) Properties() *Data {
	return t.properties
}

// Filter returns the filter-set container of t.
func (t *Terminus) Filter() *Data {
	return t.filter
}

// Outcomes returns the outcomes container of t.
func (t *Terminus) Outcomes() *Data {
	return t.outcomes
}

// Capabilities returns the capabilities container of t.
func (t *Terminus) Capabilities() *Data {
	return t.capabilities
}

// String formats t for logging, for example
// {queue/a dur=configuration exp=never timeout=30 dyn caps=:shared}.
func (t *Terminus) String() string {
	if t == nil {
		return "{}"
	}

	var sb strings.Builder
	sb.WriteByte('{')
	if t.IsAnonymous() {
		sb.WriteString("<none>")
	} else {
		sb.WriteString(t.address.Iterator().String())
	}
	if t.coordinator {
		sb.WriteString(" coordinator")
	}
	if t.durability != DurabilityNone {
		sb.WriteString(" dur=")
		sb.WriteString(t.durability.String())
	}
	if t.expiryPolicy != "" {
		sb.WriteString(" exp=")
		sb.WriteString(t.expiryPolicy.String())
	}
	if t.timeout != 0 {
		sb.WriteString(" timeout=")
		sb.WriteString(strconv.FormatUint(uint64(t.timeout), 10))
	}
	if t.dynamic {
		sb.WriteString(" dyn")
	}
	if t.distributionMode != DistributionUnspecified {
		sb.WriteString(" dist=")
		sb.WriteString(t.distributionMode.String())
	}
	for _, c := range []struct {
		name string
		d    *Data
	}{
		{"props", t.properties},
		{"filter", t.filter},
		{"outcomes", t.outcomes},
		{"caps", t.capabilities},
	} {
		if c.d != nil && !c.d.Empty() {
			sb.WriteByte(' ')
			sb.WriteString(c.name)
			sb.WriteByte('=')
			sb.WriteString(c.d.String())
		}
	}
	sb.WriteByte('}')
	return sb.String()
}

package router

import (
	"errors"
	"fmt"

	"github.com/qdgo/router/internal/buffer"
	"github.com/qdgo/router/internal/encoding"
)

// WireTerminus is the protocol-level form of a link's source or target,
// as carried in an attach performative.
//
// Address "" means no address. The four containers are always present
// and owned by the WireTerminus; callers mutate them in place.
type WireTerminus struct {
	typ              TerminusType
	address          string
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

// NewWireTerminus returns an empty terminus of the given type with the
// protocol defaults: no durability, session-end expiry, zero timeout.
func NewWireTerminus(typ TerminusType) *WireTerminus {
	return &WireTerminus{
		typ:          typ,
		expiryPolicy: ExpirySessionEnd,
		properties:   NewData(),
		filter:       NewData(),
		outcomes:     NewData(),
		capabilities: NewData(),
	}
}

func (w *WireTerminus) Type() TerminusType {
	return w.typ
}

func (w *WireTerminus) SetType(typ TerminusType) {
	w.typ = typ
}

func (w *WireTerminus) Address() string {
	return w.address
}

func (w *WireTerminus) SetAddress(address string) {
	w.address = address
}

func (w *WireTerminus) Durability() Durability {
	return w.durability
}

func (w *WireTerminus) SetDurability(d Durability) {
	w.durability = d
}

func (w *WireTerminus) ExpiryPolicy() ExpiryPolicy {
	return w.expiryPolicy
}

func (w *WireTerminus) SetExpiryPolicy(e ExpiryPolicy) {
	w.expiryPolicy = e
}

// Timeout returns the expiry timeout in seconds.
func (w *WireTerminus) Timeout() uint32 {
	return w.timeout
}

func (w *WireTerminus) SetTimeout(seconds uint32) {
	w.timeout = seconds
}

func (w *WireTerminus) IsDynamic() bool {
	return w.dynamic
}

func (w *WireTerminus) SetDynamic(dynamic bool) {
	w.dynamic = dynamic
}

func (w *WireTerminus) DistributionMode() DistributionMode {
	return w.distributionMode
}

func (w *WireTerminus) SetDistributionMode(m DistributionMode) {
	w.distributionMode = m
}

// Properties holds the dynamic-node-properties map.
func (w *WireTerminus) Properties() *Data { return lazyData(&w.properties) }

// Filter holds the filter-set map of a source.
func (w *WireTerminus) Filter() *Data { return lazyData(&w.filter) }

// Outcomes holds the outcome descriptors of a source.
func (w *WireTerminus) Outcomes() *Data { return lazyData(&w.outcomes) }

// Capabilities holds the capability symbols.
func (w *WireTerminus) Capabilities() *Data { return lazyData(&w.capabilities) }

func lazyData(d **Data) *Data {
	if *d == nil {
		*d = NewData()
	}
	return *d
}

func (w *WireTerminus) String() string {
	return fmt.Sprintf("%s{Address: %s, Durable: %s, ExpiryPolicy: %s, Timeout: %d, "+
		"Dynamic: %t, DynamicNodeProperties: %s, DistributionMode: %s, Filter: %s, "+
		"Outcomes: %s, Capabilities: %s}",
		w.typ,
		w.address,
		w.durability,
		w.expiryPolicy,
		w.timeout,
		w.dynamic,
		w.Properties(),
		w.distributionMode,
		w.Filter(),
		w.Outcomes(),
		w.Capabilities(),
	)
}

/*
<type name="source" class="composite" source="list" provides="source">
    <descriptor name="amqp:source:list" code="0x00000000:0x00000028"/>
    <field name="address" type="*" requires="address"/>
    <field name="durable" type="terminus-durability" default="none"/>
    <field name="expiry-policy" type="terminus-expiry-policy" default="session-end"/>
    <field name="timeout" type="seconds" default="0"/>
    <field name="dynamic" type="boolean" default="false"/>
    <field name="dynamic-node-properties" type="node-properties"/>
    <field name="distribution-mode" type="symbol" requires="distribution-mode"/>
    <field name="filter" type="filter-set"/>
    <field name="default-outcome" type="*" requires="outcome"/>
    <field name="outcomes" type="symbol" multiple="true"/>
    <field name="capabilities" type="symbol" multiple="true"/>
</type>

<type name="target" class="composite" source="list" provides="target">
    <descriptor name="amqp:target:list" code="0x00000000:0x00000029"/>
    <field name="address" type="*" requires="address"/>
    <field name="durable" type="terminus-durability" default="none"/>
    <field name="expiry-policy" type="terminus-expiry-policy" default="session-end"/>
    <field name="timeout" type="seconds" default="0"/>
    <field name="dynamic" type="boolean" default="false"/>
    <field name="dynamic-node-properties" type="node-properties"/>
    <field name="capabilities" type="symbol" multiple="true"/>
</type>

<type name="coordinator" class="composite" source="list" provides="target">
    <descriptor name="amqp:coordinator:list" code="0x00000000:0x00000030"/>
    <field name="capabilities" type="symbol" requires="txn-capability" multiple="true"/>
</type>
*/

var descriptorNames = map[Symbol]encoding.AMQPType{
	"amqp:source:list":      encoding.TypeCodeSource,
	"amqp:target:list":      encoding.TypeCodeTarget,
	"amqp:coordinator:list": encoding.TypeCodeCoordinator,
}

// MarshalBinary encodes w as a source, target or coordinator composite.
// Outcomes and capabilities must hold only symbols.
func (w *WireTerminus) MarshalBinary() ([]byte, error) {
	var (
		code   encoding.AMQPType
		fields []Value
	)

	capabilities, err := symbolsField(w.Capabilities())
	if err != nil {
		return nil, fmt.Errorf("capabilities: %w", err)
	}

	switch w.typ {
	case TerminusSource:
		outcomes, err := symbolsField(w.Outcomes())
		if err != nil {
			return nil, fmt.Errorf("outcomes: %w", err)
		}
		code = encoding.TypeCodeSource
		fields = append(w.commonFields(),
			dataField(w.Properties()),
			optionalSymbol(Symbol(w.distributionMode)),
			dataField(w.Filter()),
			encoding.NewNull(), // default-outcome
			outcomes,
			capabilities,
		)
	case TerminusTarget:
		code = encoding.TypeCodeTarget
		fields = append(w.commonFields(),
			dataField(w.Properties()),
			capabilities,
		)
	case TerminusCoordinator:
		code = encoding.TypeCodeCoordinator
		fields = []Value{capabilities}
	default:
		return nil, fmt.Errorf("cannot marshal terminus of type %s", w.typ)
	}

	// trailing null fields are omitted
	for len(fields) > 0 && fields[len(fields)-1].IsNull() {
		fields = fields[:len(fields)-1]
	}

	buf := &buffer.Buffer{}
	composite := encoding.NewDescribed(encoding.NewUlong(uint64(code)), encoding.NewList(fields...))
	if err := encoding.Marshal(buf, composite); err != nil {
		return nil, err
	}
	return buf.Detach(), nil
}

// commonFields returns the fields shared by source and target, up to and
// excluding dynamic-node-properties.
func (w *WireTerminus) commonFields() []Value {
	fields := []Value{
		encoding.NewNull(),
		encoding.NewNull(),
		encoding.NewNull(),
		encoding.NewNull(),
		encoding.NewNull(),
	}
	if w.address != "" {
		fields[0] = encoding.NewString(w.address)
	}
	if w.durability != DurabilityNone {
		fields[1] = encoding.NewUint(uint32(w.durability))
	}
	fields[2] = optionalSymbol(Symbol(w.expiryPolicy))
	if w.timeout != 0 {
		fields[3] = encoding.NewUint(w.timeout)
	}
	if w.dynamic {
		fields[4] = encoding.NewBool(true)
	}
	return fields
}

func optionalSymbol(s Symbol) Value {
	if s == "" {
		return encoding.NewNull()
	}
	return encoding.NewSymbol(s)
}

// dataField converts a container to a single field value: nothing is null,
// one value is itself and several values are a list.
func dataField(d *Data) Value {
	vs := d.Values()
	switch len(vs) {
	case 0:
		return encoding.NewNull()
	case 1:
		return vs[0].Clone()
	}

	clones := make([]Value, len(vs))
	for i, v := range vs {
		clones[i] = v.Clone()
	}
	return encoding.NewList(clones...)
}

// symbolsField converts a container of symbols to a multiple field value:
// nothing is null, one symbol is itself and several are a symbol array.
func symbolsField(d *Data) (Value, error) {
	vs := d.Values()
	for _, v := range vs {
		if v.Kind() != KindSymbol {
			return Value{}, fmt.Errorf("%w, have %s", errNotSymbols, v.Kind())
		}
	}
	switch len(vs) {
	case 0:
		return encoding.NewNull(), nil
	case 1:
		return vs[0].Clone(), nil
	}

	clones := make([]Value, len(vs))
	for i, v := range vs {
		clones[i] = v.Clone()
	}
	return encoding.NewArray(KindSymbol, clones...), nil
}

// UnmarshalBinary decodes a source, target or coordinator composite into w,
// replacing its content. w is left unchanged when b does not decode.
func (w *WireTerminus) UnmarshalBinary(b []byte) error {
	r := buffer.New(b)
	v, err := encoding.Unmarshal(r)
	if err != nil {
		return err
	}
	if r.Len() > 0 {
		return fmt.Errorf("%d trailing bytes after terminus", r.Len())
	}

	decoded := NewWireTerminus(TerminusUnspecified)
	if err := decoded.unmarshalComposite(v); err != nil {
		return err
	}
	*w = *decoded
	return nil
}

func (w *WireTerminus) unmarshalComposite(v Value) error {
	if v.Kind() != KindDescribed {
		return fmt.Errorf("terminus must be a described list, got %s", v.Kind())
	}

	var code encoding.AMQPType
	switch d := v.Descriptor(); d.Kind() {
	case KindUlong:
		code = encoding.AMQPType(d.Uint())
	case KindSymbol:
		code = descriptorNames[Symbol(d.Text())]
	}

	body := v.Described()
	if body.Kind() != KindList {
		return fmt.Errorf("terminus body must be a list, got %s", body.Kind())
	}
	fields := body.Children()

	switch code {
	case encoding.TypeCodeSource:
		w.typ = TerminusSource
		if err := w.unmarshalCommon(fields); err != nil {
			return err
		}
		setDataField(w.properties, field(fields, 5))
		if f := field(fields, 6); !f.IsNull() {
			if f.Kind() != KindSymbol {
				return fmt.Errorf("distribution-mode must be a symbol, got %s", f.Kind())
			}
			w.distributionMode = DistributionMode(f.Text())
		}
		setDataField(w.filter, field(fields, 7))
		if err := setSymbolsField(w.outcomes, field(fields, 9)); err != nil {
			return fmt.Errorf("outcomes: %w", err)
		}
		if err := setSymbolsField(w.capabilities, field(fields, 10)); err != nil {
			return fmt.Errorf("capabilities: %w", err)
		}
		return nil
	case encoding.TypeCodeTarget:
		w.typ = TerminusTarget
		if err := w.unmarshalCommon(fields); err != nil {
			return err
		}
		setDataField(w.properties, field(fields, 5))
		if err := setSymbolsField(w.capabilities, field(fields, 6)); err != nil {
			return fmt.Errorf("capabilities: %w", err)
		}
		return nil
	case encoding.TypeCodeCoordinator:
		w.typ = TerminusCoordinator
		if err := setSymbolsField(w.capabilities, field(fields, 0)); err != nil {
			return fmt.Errorf("capabilities: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown terminus descriptor %s", v.Descriptor())
	}
}

func (w *WireTerminus) unmarshalCommon(fields []Value) error {
	switch f := field(fields, 0); f.Kind() {
	case KindNull:
	case KindString, KindSymbol:
		w.address = f.Text()
	default:
		return fmt.Errorf("address of kind %s is not supported", f.Kind())
	}

	if f := field(fields, 1); !f.IsNull() {
		if f.Kind() != KindUint {
			return fmt.Errorf("durable must be a uint, got %s", f.Kind())
		}
		if f.Uint() > uint64(DurabilityUnsettledState) {
			return fmt.Errorf("unknown durability %d", f.Uint())
		}
		w.durability = Durability(f.Uint())
	}

	if f := field(fields, 2); !f.IsNull() {
		if f.Kind() != KindSymbol {
			return fmt.Errorf("expiry-policy must be a symbol, got %s", f.Kind())
		}
		w.expiryPolicy = ExpiryPolicy(f.Text())
		if err := w.expiryPolicy.Validate(); err != nil {
			return err
		}
	}

	if f := field(fields, 3); !f.IsNull() {
		if f.Kind() != KindUint {
			return fmt.Errorf("timeout must be a uint, got %s", f.Kind())
		}
		w.timeout = uint32(f.Uint())
	}

	if f := field(fields, 4); !f.IsNull() {
		if f.Kind() != KindBool {
			return fmt.Errorf("dynamic must be a bool, got %s", f.Kind())
		}
		w.dynamic = f.Bool()
	}
	return nil
}

// field returns fields[i], or null when the list was truncated.
func field(fields []Value, i int) Value {
	if i >= len(fields) {
		return encoding.NewNull()
	}
	return fields[i]
}

var errNotSymbols = errors.New("multiple field must hold symbols")

// setDataField stores a field value into d.
func setDataField(d *Data, v Value) {
	d.Clear()
	if !v.IsNull() {
		d.Put(v)
		d.Rewind()
	}
}

// setSymbolsField stores a multiple field into d, one top-level symbol
// per element of a symbol array.
func setSymbolsField(d *Data, v Value) error {
	d.Clear()
	switch v.Kind() {
	case KindNull:
		return nil
	case KindSymbol:
		d.Put(v)
	case KindArray:
		if v.ElemKind() != KindSymbol && v.Len() > 0 {
			return fmt.Errorf("%w, have array of %s", errNotSymbols, v.ElemKind())
		}
		for _, c := range v.Children() {
			d.Put(c)
		}
	default:
		return fmt.Errorf("%w, have %s", errNotSymbols, v.Kind())
	}
	d.Rewind()
	return nil
}

package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/qdgo/router"
	"github.com/qdgo/router/internal/encoding"
)

// terminus description file key mapping to WireTerminus fields.
type fileConfig struct {
	Type             string                  `toml:"type"`
	Address          string                  `toml:"address"`
	Durability       string                  `toml:"durability"`
	ExpiryPolicy     string                  `toml:"expiry_policy"`
	Timeout          uint32                  `toml:"timeout"`
	Dynamic          bool                    `toml:"dynamic"`
	DistributionMode string                  `toml:"distribution_mode"`
	Capabilities     []string                `toml:"capabilities"`
	Outcomes         []string                `toml:"outcomes"`
	Properties       map[string]string       `toml:"properties"`
	Filter           map[string]filterConfig `toml:"filter"`
}

// filterConfig is one named entry of a filter-set. Descriptor is either a
// symbolic descriptor or a numeric code such as "0x0000468C00000004".
type filterConfig struct {
	Descriptor string `toml:"descriptor"`
	Value      string `toml:"value"`
}

// loadWireTerminus reads a description file and overlays it onto a
// WireTerminus carrying the protocol defaults.
func loadWireTerminus(path string) (*router.WireTerminus, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load terminus: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load terminus: unknown key %q", undecoded[0].String())
	}

	typ := router.TerminusSource
	if meta.IsDefined("type") {
		if typ, err = encoding.ParseTerminusType(strings.TrimSpace(raw.Type)); err != nil {
			return nil, fmt.Errorf("load terminus: %w", err)
		}
	}
	w := router.NewWireTerminus(typ)

	if meta.IsDefined("address") {
		w.SetAddress(strings.TrimSpace(raw.Address))
	}
	if meta.IsDefined("durability") {
		d, err := encoding.ParseDurability(strings.TrimSpace(raw.Durability))
		if err != nil {
			return nil, fmt.Errorf("load terminus: %w", err)
		}
		w.SetDurability(d)
	}
	if meta.IsDefined("expiry_policy") {
		e := router.ExpiryPolicy(strings.TrimSpace(raw.ExpiryPolicy))
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("load terminus: %w", err)
		}
		w.SetExpiryPolicy(e)
	}
	if meta.IsDefined("timeout") {
		w.SetTimeout(raw.Timeout)
	}
	if meta.IsDefined("dynamic") {
		w.SetDynamic(raw.Dynamic)
	}
	if meta.IsDefined("distribution_mode") {
		m, err := encoding.ParseDistributionMode(strings.TrimSpace(raw.DistributionMode))
		if err != nil {
			return nil, fmt.Errorf("load terminus: %w", err)
		}
		w.SetDistributionMode(m)
	}

	for _, c := range raw.Capabilities {
		w.Capabilities().PutSymbol(router.Symbol(c))
	}
	for _, o := range raw.Outcomes {
		w.Outcomes().PutSymbol(router.Symbol(o))
	}
	if len(raw.Properties) > 0 {
		w.Properties().Put(symbolMap(raw.Properties))
	}
	if len(raw.Filter) > 0 {
		f, err := filterSet(raw.Filter)
		if err != nil {
			return nil, fmt.Errorf("load terminus: %w", err)
		}
		w.Filter().Put(f)
	}
	w.Properties().Rewind()
	w.Filter().Rewind()
	w.Outcomes().Rewind()
	w.Capabilities().Rewind()

	return w, nil
}

// symbolMap converts a TOML table to a map with symbol keys and string
// values. Keys are sorted so that encodings are reproducible.
func symbolMap(m map[string]string) router.Value {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kvs := make([]router.Value, 0, 2*len(keys))
	for _, k := range keys {
		kvs = append(kvs, encoding.NewSymbol(router.Symbol(k)), encoding.NewString(m[k]))
	}
	return encoding.NewMap(kvs...)
}

// filterSet converts named filters to a map keyed by filter name whose
// values are described strings.
func filterSet(m map[string]filterConfig) (router.Value, error) {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	kvs := make([]router.Value, 0, 2*len(names))
	for _, name := range names {
		f := m[name]
		desc := strings.TrimSpace(f.Descriptor)
		if desc == "" {
			return router.Value{}, fmt.Errorf("filter %q has no descriptor", name)
		}
		var d router.Value
		if code, err := strconv.ParseUint(desc, 0, 64); err == nil {
			d = encoding.NewUlong(code)
		} else {
			d = encoding.NewSymbol(router.Symbol(desc))
		}
		kvs = append(kvs, encoding.NewSymbol(router.Symbol(name)), encoding.NewDescribed(d, encoding.NewString(f.Value)))
	}
	return encoding.NewMap(kvs...), nil
}

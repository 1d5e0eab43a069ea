package nml

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
)

// Interchange reshapes namelist documents into plain Go containers so
// they can be emitted as JSON or YAML without losing group or variable
// ordering guarantees beyond what those formats themselves drop.

// ToMap converts the document to nested plain containers: group name to
// variable name to native Go value. Nulls become nil, complex values
// become two-element [re, im] slices, derived types become maps.
func (n *Namelist) ToMap() map[string]map[string]any {
	out := make(map[string]map[string]any, n.Len())
	for _, name := range n.Names() {
		g, _ := n.Group(name)
		out[name] = g.ToMap()
	}
	return out
}

// ToMap converts the group to a map of variable names to native Go
// values.
func (g *Group) ToMap() map[string]any {
	out := make(map[string]any, g.Len())
	for _, name := range g.Names() {
		v, _ := g.Get(name)
		out[name] = v.Interface()
	}
	return out
}

// Interface converts the value to a native Go representation suitable
// for generic encoders.
func (v Value) Interface() any {
	switch v.kind {
	case Null:
		return nil
	case Integer:
		return v.i
	case Real:
		return v.re
	case Complex:
		return []float64{v.re, v.im}
	case Logical:
		return v.b
	case Character:
		return v.s
	case Array:
		items := make([]any, len(v.items))
		for i, it := range v.items {
			items[i] = it.Interface()
		}
		return items
	case DerivedType:
		fields := make(map[string]any, len(v.fields))
		for name, fv := range v.fields {
			fields[name] = fv.Interface()
		}
		return fields
	case DerivedTypeArray:
		elems := make([]any, len(v.elems))
		for i, fields := range v.elems {
			m := make(map[string]any, len(fields))
			for name, fv := range fields {
				m[name] = fv.Interface()
			}
			elems[i] = m
		}
		return elems
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n *Namelist) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.ToMap())
}

// MarshalJSON implements json.Marshaler.
func (g *Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.ToMap())
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (n *Namelist) MarshalYAML() (any, error) {
	return n.ToMap(), nil
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (g *Group) MarshalYAML() (any, error) {
	return g.ToMap(), nil
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}

// EncodeJSON renders the document as indented JSON.
func (n *Namelist) EncodeJSON() ([]byte, error) {
	b, err := json.MarshalIndent(n.ToMap(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode namelist as json: %w", err)
	}
	return b, nil
}

// EncodeYAML renders the document as YAML.
func (n *Namelist) EncodeYAML() ([]byte, error) {
	b, err := yaml.Marshal(n.ToMap())
	if err != nil {
		return nil, fmt.Errorf("encode namelist as yaml: %w", err)
	}
	return b, nil
}

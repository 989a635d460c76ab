// Package generation invokes a generative model with a prompt and an optional
// output schema, returning free text or a schema-conformed JSON object.
package generation

import (
	"encoding/json"
	"fmt"
)

// Type is the JSON type of a schema node
type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
)

// Schema describes the shape of a structured generation result.
// Property order is kept so rendered schemas are deterministic.
type Schema struct {
	Type        Type
	Description string
	Properties  map[string]*Schema
	Order       []string
	Items       *Schema
	Enum        []string
}

// Property is a named object member used with Object
type Property struct {
	Name   string
	Schema *Schema
}

// Prop builds a Property
func Prop(name string, s *Schema) Property {
	return Property{Name: name, Schema: s}
}

// Object builds an object schema from ordered properties
func Object(props ...Property) *Schema {
	s := &Schema{Type: TypeObject, Properties: make(map[string]*Schema, len(props))}
	for _, p := range props {
		s.Properties[p.Name] = p.Schema
		s.Order = append(s.Order, p.Name)
	}
	return s
}

// Array builds an array schema
func Array(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

// String builds a string schema
func String() *Schema {
	return &Schema{Type: TypeString}
}

// Number builds a number schema
func Number() *Schema {
	return &Schema{Type: TypeNumber}
}

// Boolean builds a boolean schema
func Boolean() *Schema {
	return &Schema{Type: TypeBoolean}
}

// Enum builds a string schema restricted to a closed set of values
func Enum(values ...string) *Schema {
	return &Schema{Type: TypeString, Enum: append([]string(nil), values...)}
}

// JSONSchema renders the schema as a JSON Schema document
func (s *Schema) JSONSchema() map[string]any {
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	switch s.Type {
	case TypeObject:
		props := make(map[string]any, len(s.Properties))
		for _, name := range s.Order {
			props[name] = s.Properties[name].JSONSchema()
		}
		out["properties"] = props
	case TypeArray:
		if s.Items != nil {
			out["items"] = s.Items.JSONSchema()
		}
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	return out
}

// String returns the schema as compact JSON
func (s *Schema) String() string {
	b, err := json.Marshal(s.JSONSchema())
	if err != nil {
		return fmt.Sprintf("<invalid schema: %v>", err)
	}
	return string(b)
}

// Conform checks a decoded JSON value against the schema.
// It is permissive: missing arrays become empty, members of the wrong type and
// enum values outside the allowed set are dropped, and undeclared members are
// removed. The boolean is false when v itself cannot be kept.
func (s *Schema) Conform(v any) (any, bool) {
	switch s.Type {
	case TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		out := make(map[string]any, len(s.Properties))
		for _, name := range s.Order {
			child := s.Properties[name]
			raw, present := obj[name]
			if !present || raw == nil {
				if child.Type == TypeArray {
					out[name] = []any{}
				}
				continue
			}
			if conformed, ok := child.Conform(raw); ok {
				out[name] = conformed
			} else if child.Type == TypeArray {
				out[name] = []any{}
			}
		}
		return out, true

	case TypeArray:
		arr, ok := v.([]any)
		if !ok {
			return nil, false
		}
		out := make([]any, 0, len(arr))
		for _, item := range arr {
			if s.Items == nil {
				out = append(out, item)
				continue
			}
			if conformed, ok := s.Items.Conform(item); ok {
				out = append(out, conformed)
			}
		}
		return out, true

	case TypeString:
		str, ok := v.(string)
		if !ok {
			return nil, false
		}
		if len(s.Enum) > 0 && !contains(s.Enum, str) {
			return nil, false
		}
		return str, true

	case TypeNumber:
		n, ok := v.(float64)
		return n, ok

	case TypeBoolean:
		b, ok := v.(bool)
		return b, ok
	}
	return nil, false
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

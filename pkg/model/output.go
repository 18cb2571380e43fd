package model

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Output is the typed result of a build: every schema key, in schema order,
// mapped to a string, float64 or bool. Output is immutable; accessors return
// copies.
type Output struct {
	keys   []string
	values map[string]any
}

// NewOutput copies keys and values into a new Output. Keys missing from values
// are skipped.
func NewOutput(keys []string, values map[string]any) Output {
	out := Output{
		keys:   make([]string, 0, len(keys)),
		values: make(map[string]any, len(keys)),
	}
	for _, key := range keys {
		value, ok := values[key]
		if !ok {
			continue
		}
		if _, dup := out.values[key]; dup {
			continue
		}
		out.keys = append(out.keys, key)
		out.values[key] = value
	}
	return out
}

// Get returns the value stored under key.
func (o Output) Get(key string) (any, bool) {
	value, ok := o.values[key]
	return value, ok
}

// Keys returns the keys in schema order.
func (o Output) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Len returns the number of keys.
func (o Output) Len() int {
	return len(o.keys)
}

// Map returns a plain map copy of the values.
func (o Output) Map() map[string]any {
	out := make(map[string]any, len(o.values))
	for key, value := range o.values {
		out[key] = value
	}
	return out
}

// Compact applies the display convention of dropping values equal to an
// empty sentinel: the empty string and numeric zero. Booleans are kept.
func (o Output) Compact() Output {
	keys := make([]string, 0, len(o.keys))
	for _, key := range o.keys {
		if isEmptySentinel(o.values[key]) {
			continue
		}
		keys = append(keys, key)
	}
	return NewOutput(keys, o.values)
}

// MarshalJSON writes the values as a JSON object in schema order.
func (o Output) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, key := range o.keys {
		if idx > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONPair(&buf, key, o.values[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML emits a mapping node so YAML output keeps schema order.
func (o Output) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range o.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(o.values[key]); err != nil {
			return nil, fmt.Errorf("model: encode %q: %w", key, err)
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}

func isEmptySentinel(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case float64:
		return v == 0
	case int:
		return v == 0
	default:
		return false
	}
}

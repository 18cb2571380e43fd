package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FormData is an insertion-ordered mapping of field key to FormEntry. The zero
// value is ready to use.
type FormData struct {
	keys    []string
	entries map[string]FormEntry
}

// NewFormData returns an empty FormData.
func NewFormData() *FormData {
	return &FormData{entries: make(map[string]FormEntry)}
}

// FormDataFromMap builds FormData from a plain map, ordering keys as listed in
// order first and appending any remaining keys in sorted order.
func FormDataFromMap(entries map[string]FormEntry, order ...string) *FormData {
	out := NewFormData()
	for _, key := range order {
		if entry, ok := entries[key]; ok {
			out.Set(key, entry)
		}
	}
	rest := make([]string, 0, len(entries))
	for key := range entries {
		if !out.Has(key) {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		out.Set(key, entries[key])
	}
	return out
}

// Set stores entry under key. Existing keys keep their original position.
func (f *FormData) Set(key string, entry FormEntry) {
	if f.entries == nil {
		f.entries = make(map[string]FormEntry)
	}
	if _, exists := f.entries[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.entries[key] = entry
}

// Get returns the entry stored under key.
func (f *FormData) Get(key string) (FormEntry, bool) {
	if f == nil || f.entries == nil {
		return FormEntry{}, false
	}
	entry, ok := f.entries[key]
	return entry, ok
}

// Has reports whether key is present.
func (f *FormData) Has(key string) bool {
	_, ok := f.Get(key)
	return ok
}

// Keys returns a copy of the keys in insertion order.
func (f *FormData) Keys() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.keys...)
}

// Len returns the number of entries.
func (f *FormData) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Each visits entries in insertion order until fn returns false.
func (f *FormData) Each(fn func(key string, entry FormEntry) bool) {
	if f == nil {
		return
	}
	for _, key := range f.keys {
		if !fn(key, f.entries[key]) {
			return
		}
	}
}

// MarshalJSON writes the entries as a JSON object in insertion order.
func (f *FormData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, key := range f.Keys() {
		if idx > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONPair(&buf, key, f.entries[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a `{key: {value, isTemplate}}` object, keeping the
// document order. Scalar values are accepted as static entries.
func (f *FormData) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("model: decode form data: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("model: form data must be a JSON object")
	}

	out := NewFormData()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("model: decode form data key: %w", err)
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("model: decode form entry %q: %w", key, err)
		}
		entry, err := decodeEntryJSON(raw)
		if err != nil {
			return fmt.Errorf("model: decode form entry %q: %w", key, err)
		}
		out.Set(key, entry)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("model: decode form data: %w", err)
	}

	*f = *out
	return nil
}

// UnmarshalYAML decodes a YAML mapping keeping the document order.
func (f *FormData) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("model: form data must be a mapping (line %d)", node.Line)
	}

	out := NewFormData()
	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		key := node.Content[idx].Value
		entry, err := decodeEntryYAML(node.Content[idx+1])
		if err != nil {
			return fmt.Errorf("model: decode form entry %q: %w", key, err)
		}
		out.Set(key, entry)
	}

	*f = *out
	return nil
}

func decodeEntryJSON(raw json.RawMessage) (FormEntry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var payload struct {
			Value      any  `json:"value"`
			IsTemplate bool `json:"isTemplate"`
		}
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return FormEntry{}, err
		}
		value, err := scalarString(payload.Value)
		if err != nil {
			return FormEntry{}, err
		}
		return FormEntry{Value: value, IsTemplate: payload.IsTemplate}, nil
	}

	var scalar any
	if err := json.Unmarshal(trimmed, &scalar); err != nil {
		return FormEntry{}, err
	}
	value, err := scalarString(scalar)
	if err != nil {
		return FormEntry{}, err
	}
	return Static(value), nil
}

func decodeEntryYAML(node *yaml.Node) (FormEntry, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return Static(yamlScalar(node)), nil
	case yaml.MappingNode:
		var entry FormEntry
		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			key, value := node.Content[idx], node.Content[idx+1]
			switch key.Value {
			case "value":
				if value.Kind != yaml.ScalarNode {
					return FormEntry{}, fmt.Errorf("value must be a scalar (line %d)", value.Line)
				}
				entry.Value = yamlScalar(value)
			case "isTemplate":
				if err := value.Decode(&entry.IsTemplate); err != nil {
					return FormEntry{}, err
				}
			}
		}
		return entry, nil
	default:
		return FormEntry{}, fmt.Errorf("unsupported entry (line %d)", node.Line)
	}
}

func yamlScalar(node *yaml.Node) string {
	if node.Tag == "!!null" {
		return ""
	}
	return node.Value
}

// scalarString mirrors how the editor stores typed widget values as strings.
func scalarString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", value)
	}
}

func writeJSONPair(buf *bytes.Buffer, key string, value any) error {
	encodedKey, err := json.Marshal(key)
	if err != nil {
		return err
	}
	encodedValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("model: encode %q: %w", key, err)
	}
	buf.Write(encodedKey)
	buf.WriteByte(':')
	buf.Write(encodedValue)
	return nil
}

package model

import (
	"slices"
	"strings"
)

// FieldType is the closed set of output field kinds a schema can declare.
type FieldType string

const (
	FieldTypeText     FieldType = "TEXT"
	FieldTypeTextArea FieldType = "TEXTAREA"
	FieldTypeFloat    FieldType = "FLOAT"
	FieldTypeYesOrNo  FieldType = "YESORNO"
	FieldTypePicklist FieldType = "PICKLIST"
)

// FieldTypes lists every supported field type in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeTextArea,
		FieldTypeFloat,
		FieldTypeYesOrNo,
		FieldTypePicklist,
	}
}

// Valid reports whether t is one of the supported field types.
func (t FieldType) Valid() bool {
	return slices.Contains(FieldTypes(), t)
}

// ParseFieldType normalises raw (trimmed, upper-cased) and reports whether it
// names a supported type. "BOOLEAN" is accepted as an alias of YESORNO.
func ParseFieldType(raw string) (FieldType, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if normalized == "BOOLEAN" {
		return FieldTypeYesOrNo, true
	}
	t := FieldType(normalized)
	return t, t.Valid()
}

// Sanitize policies applicable to TEXT and TEXTAREA fields.
const (
	SanitizeNone   = ""
	SanitizeStrict = "strict"
	SanitizeUGC    = "ugc"
)

// FieldDefinition describes one output field. Definitions are static and
// read-only once a schema is loaded.
type FieldDefinition struct {
	Key         string    `json:"key" yaml:"key"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Type        FieldType `json:"type" yaml:"type"`
	Picklist    []string  `json:"picklist,omitempty" yaml:"picklist,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Sanitize    string    `json:"sanitize,omitempty" yaml:"sanitize,omitempty"`
}

// DisplayLabel returns the label, falling back to the key.
func (f FieldDefinition) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Key
}

// Allows reports whether value is one of the picklist options.
func (f FieldDefinition) Allows(value string) bool {
	return slices.Contains(f.Picklist, value)
}

// Schema is the ordered set of output fields.
type Schema struct {
	Name   string            `json:"name,omitempty" yaml:"name,omitempty"`
	Fields []FieldDefinition `json:"fields" yaml:"fields"`
}

// Field returns the definition registered under key.
func (s Schema) Field(key string) (FieldDefinition, bool) {
	for _, field := range s.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return FieldDefinition{}, false
}

// Keys returns the field keys in schema order.
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		keys = append(keys, field.Key)
	}
	return keys
}

// FormEntry is the raw editor state for one field: a string value and whether
// that value should be rendered as a template.
type FormEntry struct {
	Value      string `json:"value" yaml:"value"`
	IsTemplate bool   `json:"isTemplate" yaml:"isTemplate"`
}

// Static returns a literal entry.
func Static(value string) FormEntry {
	return FormEntry{Value: value}
}

// Template returns an entry rendered against the input data.
func Template(value string) FormEntry {
	return FormEntry{Value: value, IsTemplate: true}
}

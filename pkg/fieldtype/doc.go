// Package fieldtype implements one coercion strategy per model.FieldType. Each
// Codec turns the resolved string produced by the template resolver into the
// typed value stored in the output and advertises the widget an editing
// surface should use for the field. The Registry maps field types to codecs
// so callers can swap or extend strategies without touching the builder.
package fieldtype

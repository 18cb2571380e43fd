// Package model defines the types shared by the resolver, the output builder
// and the caller-side collaborators. A Schema is an ordered list of
// FieldDefinition values, each tagged with one of the FieldType variants
// (TEXT, TEXTAREA, FLOAT, YESORNO, PICKLIST). FormData carries the raw
// per-field editor state as an insertion-ordered mapping of FormEntry values,
// and Output carries the typed result in schema order. Both ordered types
// serialise to JSON and YAML without losing their key order, so snapshots and
// CLI output stay deterministic.
package model

package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formmap/pkg/model"
)

// OpenAPI extension keys understood by FromOpenAPI.
const (
	ExtensionType     = "x-formmap-type"
	ExtensionSanitize = "x-formmap-sanitize"
	ExtensionOrder    = "x-order"
)

// FromOpenAPI derives a schema from components.schemas.<component> of an
// OpenAPI 3 document (JSON or YAML). Scalar properties map onto field types:
// strings to TEXT (TEXTAREA with format "textarea"), numbers and integers to
// FLOAT, booleans to YESORNO and string enums to PICKLIST. x-formmap-type
// overrides the inferred type. Object and array properties are skipped.
// Fields are ordered by x-order, then by name.
func FromOpenAPI(ctx context.Context, data []byte, component string) (model.Schema, error) {
	if err := ctx.Err(); err != nil {
		return model.Schema{}, err
	}
	if len(data) == 0 {
		return model.Schema{}, errors.New("schema: openapi document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return model.Schema{}, fmt.Errorf("schema: load openapi document: %w", err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return model.Schema{}, errors.New("schema: openapi document has no component schemas")
	}

	ref, ok := doc.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return model.Schema{}, fmt.Errorf("schema: openapi component %q not found", component)
	}
	src := ref.Value
	if len(src.Properties) == 0 {
		return model.Schema{}, fmt.Errorf("schema: openapi component %q declares no properties", component)
	}

	type candidate struct {
		name  string
		order float64
		field model.FieldDefinition
	}
	candidates := make([]candidate, 0, len(src.Properties))
	for name, propRef := range src.Properties {
		if propRef == nil || propRef.Value == nil {
			continue
		}
		field, ok := fieldFromOpenAPI(name, propRef.Value)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{
			name:  name,
			order: extensionOrder(propRef.Value.Extensions),
			field: field,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].order != candidates[j].order {
			return candidates[i].order < candidates[j].order
		}
		return candidates[i].name < candidates[j].name
	})

	name := strings.TrimSpace(src.Title)
	if name == "" {
		name = component
	}
	out := model.Schema{Name: name, Fields: make([]model.FieldDefinition, 0, len(candidates))}
	for _, c := range candidates {
		out.Fields = append(out.Fields, c.field)
	}
	if err := Validate(out); err != nil {
		return model.Schema{}, err
	}
	return out, nil
}

// FromOpenAPIDocument is FromOpenAPI over a loaded Document.
func FromOpenAPIDocument(ctx context.Context, doc Document, component string) (model.Schema, error) {
	return FromOpenAPI(ctx, doc.Raw(), component)
}

func fieldFromOpenAPI(name string, src *openapi3.Schema) (model.FieldDefinition, bool) {
	field := model.FieldDefinition{
		Key:         name,
		Label:       strings.TrimSpace(src.Title),
		Description: strings.TrimSpace(src.Description),
		Sanitize:    extensionString(src.Extensions, ExtensionSanitize),
	}

	if override := extensionString(src.Extensions, ExtensionType); override != "" {
		kind, ok := model.ParseFieldType(override)
		if !ok {
			kind = model.FieldType(override)
		}
		field.Type = kind
		if kind == model.FieldTypePicklist {
			field.Picklist = enumStrings(src.Enum)
		}
		return field, true
	}

	switch schemaType(src.Type) {
	case "string":
		switch {
		case len(src.Enum) > 0:
			field.Type = model.FieldTypePicklist
			field.Picklist = enumStrings(src.Enum)
		case strings.EqualFold(src.Format, "textarea"):
			field.Type = model.FieldTypeTextArea
		default:
			field.Type = model.FieldTypeText
		}
	case "number", "integer":
		field.Type = model.FieldTypeFloat
	case "boolean":
		field.Type = model.FieldTypeYesOrNo
	default:
		return model.FieldDefinition{}, false
	}
	return field, true
}

// schemaType returns the first non-null type of a property.
func schemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, value := range types.Slice() {
		if value != "null" {
			return value
		}
	}
	return ""
}

func enumStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		out = append(out, fmt.Sprint(value))
	}
	return out
}

func extensionString(extensions map[string]any, key string) string {
	value, ok := extensions[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

// extensionOrder returns +Inf when the property carries no usable x-order.
func extensionOrder(extensions map[string]any) float64 {
	switch v := extensions[ExtensionOrder].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	return math.Inf(1)
}

package schema

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formmap/pkg/model"
)

// Validate checks the domain rules a schema must satisfy before it can be
// used to build output: keys are non-empty and unique, types are known,
// picklists are non-empty and only declared on PICKLIST fields, and sanitize
// policies only appear on text fields. It returns a *DefinitionError listing
// every issue, or nil.
func Validate(s model.Schema) error {
	problems := &DefinitionError{}
	seen := make(map[string]int, len(s.Fields))

	for idx, field := range s.Fields {
		ref := fieldRef(idx, field)

		if strings.TrimSpace(field.Key) == "" {
			problems.add(ref, "key is required")
		} else if first, dup := seen[field.Key]; dup {
			problems.add(ref, "duplicate key (first declared at fields[%d])", first)
		} else {
			seen[field.Key] = idx
		}

		if !field.Type.Valid() {
			problems.add(ref, "unknown type %q", field.Type)
			continue
		}

		switch {
		case field.Type == model.FieldTypePicklist && len(field.Picklist) == 0:
			problems.add(ref, "picklist must declare at least one option")
		case field.Type != model.FieldTypePicklist && len(field.Picklist) > 0:
			problems.add(ref, "picklist is only allowed on %s fields", model.FieldTypePicklist)
		}
		if dup := firstDuplicate(field.Picklist); dup != "" {
			problems.add(ref, "duplicate picklist option %q", dup)
		}

		switch field.Sanitize {
		case model.SanitizeNone:
		case model.SanitizeStrict, model.SanitizeUGC:
			if field.Type != model.FieldTypeText && field.Type != model.FieldTypeTextArea {
				problems.add(ref, "sanitize is only allowed on %s and %s fields", model.FieldTypeText, model.FieldTypeTextArea)
			}
		default:
			problems.add(ref, "unknown sanitize policy %q", field.Sanitize)
		}
	}

	return problems.orNil()
}

func fieldRef(idx int, field model.FieldDefinition) string {
	if key := strings.TrimSpace(field.Key); key != "" {
		return key
	}
	return fmt.Sprintf("fields[%d]", idx)
}

func firstDuplicate(values []string) string {
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			return value
		}
		seen[value] = struct{}{}
	}
	return ""
}

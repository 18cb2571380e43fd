package mapper

import (
	"errors"
	"strings"
)

// Field error codes.
const (
	// CodeTypeMismatch marks a resolved value that does not satisfy its field
	// type.
	CodeTypeMismatch = "TYPE_MISMATCH"
	// CodeCoercionFailed marks any other codec failure.
	CodeCoercionFailed = "COERCION_FAILED"
)

// FieldError is a problem scoped to one output field.
type FieldError struct {
	Key     string `json:"key"`
	Label   string `json:"label,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Key + ": " + e.Message
}

// ValidationError aggregates every field that failed coercion. A build that
// returns a ValidationError produces no output.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return "mapper: validation failed"
	}
	parts := make([]string, len(e.Errors))
	for idx, fieldErr := range e.Errors {
		parts[idx] = fieldErr.Error()
	}
	return "mapper: validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Errors) > 0
}

// Keys returns the failing field keys in schema order.
func (e *ValidationError) Keys() []string {
	if e == nil {
		return nil
	}
	keys := make([]string, 0, len(e.Errors))
	seen := make(map[string]struct{}, len(e.Errors))
	for _, fieldErr := range e.Errors {
		if _, ok := seen[fieldErr.Key]; ok {
			continue
		}
		seen[fieldErr.Key] = struct{}{}
		keys = append(keys, fieldErr.Key)
	}
	return keys
}

// ByField groups messages by field key, trimming blanks and duplicates.
func (e *ValidationError) ByField() map[string][]string {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	grouped := make(map[string][]string)
	for _, fieldErr := range e.Errors {
		grouped[fieldErr.Key] = append(grouped[fieldErr.Key], fieldErr.Message)
	}
	for key, messages := range grouped {
		grouped[key] = normalizeMessages(messages)
	}
	return grouped
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

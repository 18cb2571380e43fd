package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDocumentTooLarge reports a source larger than the loader's size cap.
var ErrDocumentTooLarge = errors.New("schema: document exceeds size limit")

// Issue is a single problem found in a schema definition.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return i.Field + ": " + i.Message
}

// DefinitionError lists every problem found in a schema definition.
type DefinitionError struct {
	Location string
	Issues   []Issue
}

func (e *DefinitionError) Error() string {
	parts := make([]string, len(e.Issues))
	for idx, issue := range e.Issues {
		parts[idx] = issue.String()
	}
	if e.Location != "" {
		return fmt.Sprintf("schema: invalid definition in %s: %s", e.Location, strings.Join(parts, "; "))
	}
	return "schema: invalid definition: " + strings.Join(parts, "; ")
}

func (e *DefinitionError) add(field, format string, args ...any) {
	e.Issues = append(e.Issues, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e *DefinitionError) orNil() error {
	if e == nil || len(e.Issues) == 0 {
		return nil
	}
	return e
}

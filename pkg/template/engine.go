package template

import (
	"strings"

	"github.com/goliatone/go-formmap/pkg/helpers"
)

// Dialect names understood by the default registry.
const (
	DialectHandlebars = "handlebars"
	DialectDjango     = "django"
)

// DefaultDialect is used when no dialect is configured.
const DefaultDialect = DialectHandlebars

// Engine compiles and renders a single template source against data.
// Implementations must be safe for concurrent use and must not mutate data.
type Engine interface {
	Name() string
	Render(source string, data map[string]any) (string, error)
}

// Factory builds an engine bound to a fixed helper set.
type Factory func(funcs helpers.Map) (Engine, error)

// NormalizeDialect lower-cases name and maps aliases onto canonical dialect
// names. Empty input selects DefaultDialect.
func NormalizeDialect(name string) string {
	switch normalized := strings.ToLower(strings.TrimSpace(name)); normalized {
	case "":
		return DefaultDialect
	case "hbs", "mustache":
		return DialectHandlebars
	case "pongo", "pongo2", "jinja":
		return DialectDjango
	default:
		return normalized
	}
}

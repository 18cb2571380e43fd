package formmap

import (
	"github.com/goliatone/go-formmap/pkg/template"
	"github.com/goliatone/go-formmap/pkg/template/handlebars"
	"github.com/goliatone/go-formmap/pkg/template/pongo"
)

// DefaultTemplates returns a fresh registry with the Handlebars and Django
// dialects registered. Callers may register further dialects on it.
func DefaultTemplates() *template.Registry {
	registry := template.NewRegistry()
	registry.MustRegister(template.DialectHandlebars, handlebars.Factory)
	registry.MustRegister(template.DialectDjango, pongo.Factory)
	return registry
}

// Package resolver turns one form entry into its resolved string. Static
// entries pass through untouched; template entries are rendered against the
// input object with a fixed template engine. Rendering is best effort: any
// parse or render failure yields the original, unrendered value.
package resolver

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/goliatone/go-formmap/pkg/helpers"
	"github.com/goliatone/go-formmap/pkg/model"
	"github.com/goliatone/go-formmap/pkg/template"
	"github.com/goliatone/go-formmap/pkg/template/handlebars"
)

// Option configures the resolver before construction.
type Option func(*config)

type config struct {
	engine  template.Engine
	funcs   helpers.Map
	logger  logr.Logger
	hasFunc bool
}

// WithEngine renders templates with engine. It takes precedence over
// WithHelpers, which only configures the default Handlebars engine.
func WithEngine(engine template.Engine) Option {
	return func(cfg *config) {
		cfg.engine = engine
	}
}

// WithHelpers replaces the default helper set of the Handlebars engine.
func WithHelpers(funcs helpers.Map) Option {
	return func(cfg *config) {
		cfg.funcs = helpers.Merge(cfg.funcs, funcs)
		cfg.hasFunc = true
	}
}

// WithLogger routes fallback diagnostics to logger.
func WithLogger(logger logr.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// Resolver renders form entries. It holds no mutable state after
// construction and is safe for concurrent use.
type Resolver struct {
	engine template.Engine
	logger logr.Logger
}

// New constructs a Resolver. Without options it renders Handlebars templates
// with helpers.Builtins.
func New(options ...Option) (*Resolver, error) {
	cfg := &config{logger: logr.Discard()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	engine := cfg.engine
	if engine == nil {
		funcs := cfg.funcs
		if !cfg.hasFunc {
			funcs = helpers.Builtins()
		}
		hbs, err := handlebars.New(handlebars.WithHelpers(funcs))
		if err != nil {
			return nil, fmt.Errorf("resolver: %w", err)
		}
		engine = hbs
	}

	return &Resolver{engine: engine, logger: cfg.logger}, nil
}

// Engine returns the template engine in use.
func (r *Resolver) Engine() template.Engine {
	return r.engine
}

// Resolve returns the resolved string for entry. It never fails: template
// problems are logged at V(1) and the raw value is returned.
func (r *Resolver) Resolve(input map[string]any, entry model.FormEntry) string {
	out, err := r.Explain(input, entry)
	if err != nil && r != nil {
		r.logger.V(1).Info("template fallback", "engine", r.engineName(), "template", entry.Value, "error", err.Error())
	}
	return out
}

func (r *Resolver) engineName() string {
	if r.engine == nil {
		return ""
	}
	return r.engine.Name()
}

// Explain behaves like Resolve and also reports the template error that
// triggered a fallback, if any. The returned string is always the value
// Resolve would return.
func (r *Resolver) Explain(input map[string]any, entry model.FormEntry) (out string, err error) {
	if !entry.IsTemplate || entry.Value == "" {
		return entry.Value, nil
	}
	if r == nil || r.engine == nil {
		return entry.Value, errors.New("resolver: no template engine configured")
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			out, err = entry.Value, fmt.Errorf("resolver: template panic: %v", recovered)
		}
	}()

	rendered, err := r.engine.Render(entry.Value, input)
	if err != nil {
		return entry.Value, err
	}
	return rendered, nil
}

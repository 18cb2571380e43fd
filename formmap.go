// Package formmap maps a JSON input object onto a fixed, typed output schema.
// Each schema field is fed by a form entry that is either a static string or
// a template rendered against the input; the resolved strings are coerced to
// the field types and returned as a single typed object, or rejected with a
// *ValidationError that names every failing field.
//
//	m, err := formmap.New(schema)
//	out, err := m.Map(input, form)
package formmap

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/goliatone/go-formmap/pkg/fieldtype"
	"github.com/goliatone/go-formmap/pkg/helpers"
	"github.com/goliatone/go-formmap/pkg/input"
	"github.com/goliatone/go-formmap/pkg/mapper"
	"github.com/goliatone/go-formmap/pkg/model"
	"github.com/goliatone/go-formmap/pkg/resolver"
	"github.com/goliatone/go-formmap/pkg/template"
)

// Schema is the ordered set of output fields.
type Schema = model.Schema

// FieldDefinition describes one output field.
type FieldDefinition = model.FieldDefinition

// FormData is the insertion-ordered per-field editor state.
type FormData = model.FormData

// FormEntry is the raw value of one field.
type FormEntry = model.FormEntry

// Output is the typed result of Map.
type Output = model.Output

// ValidationError aggregates every field that failed coercion.
type ValidationError = mapper.ValidationError

// FieldError describes one failing field.
type FieldError = mapper.FieldError

// Option configures a Mapper.
type Option func(*options)

type options struct {
	dialect   string
	funcs     helpers.Map
	sprig     []string
	useSprig  bool
	templates *template.Registry
	engine    template.Engine
	codecs    *fieldtype.Registry
	logger    logr.Logger
}

// WithDialect selects the template dialect ("handlebars" or "django").
func WithDialect(dialect string) Option {
	return func(o *options) {
		o.dialect = dialect
	}
}

// WithHelpers adds helpers on top of the built-in set. Later calls win on
// name clashes.
func WithHelpers(funcs helpers.Map) Option {
	return func(o *options) {
		o.funcs = helpers.Merge(o.funcs, funcs)
	}
}

// WithSprig exposes the named sprig string functions as helpers. No names
// exposes every compatible function.
func WithSprig(names ...string) Option {
	return func(o *options) {
		o.useSprig = true
		o.sprig = append(o.sprig, names...)
	}
}

// WithTemplates resolves the dialect from registry instead of
// DefaultTemplates.
func WithTemplates(registry *template.Registry) Option {
	return func(o *options) {
		o.templates = registry
	}
}

// WithEngine bypasses dialect lookup and renders templates with engine.
// Helper options are ignored; the engine owns its helpers.
func WithEngine(engine template.Engine) Option {
	return func(o *options) {
		o.engine = engine
	}
}

// WithCodecs replaces the field type codecs.
func WithCodecs(codecs *fieldtype.Registry) Option {
	return func(o *options) {
		o.codecs = codecs
	}
}

// WithLogger routes template fallbacks and build diagnostics to logger.
func WithLogger(logger logr.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Mapper binds a schema to a template engine and helper set.
type Mapper struct {
	builder  *mapper.Builder
	resolver *resolver.Resolver
}

// New validates schema and constructs a Mapper.
func New(schema Schema, opts ...Option) (*Mapper, error) {
	cfg := &options{logger: logr.Discard()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	engine, err := cfg.buildEngine()
	if err != nil {
		return nil, fmt.Errorf("formmap: %w", err)
	}

	res, err := resolver.New(resolver.WithEngine(engine), resolver.WithLogger(cfg.logger))
	if err != nil {
		return nil, fmt.Errorf("formmap: %w", err)
	}

	builder, err := mapper.New(schema,
		mapper.WithResolver(res),
		mapper.WithCodecs(cfg.codecs),
		mapper.WithLogger(cfg.logger),
	)
	if err != nil {
		return nil, err
	}

	return &Mapper{builder: builder, resolver: res}, nil
}

func (o *options) buildEngine() (template.Engine, error) {
	if o.engine != nil {
		return o.engine, nil
	}

	funcs := helpers.Builtins()
	if o.useSprig {
		sprigFuncs, err := helpers.Sprig(o.sprig...)
		if err != nil {
			return nil, err
		}
		funcs = helpers.Merge(funcs, sprigFuncs)
	}
	funcs = helpers.Merge(funcs, o.funcs)

	registry := o.templates
	if registry == nil {
		registry = DefaultTemplates()
	}
	return registry.New(o.dialect, funcs)
}

// Schema returns a copy of the bound schema.
func (m *Mapper) Schema() Schema {
	return m.builder.Schema()
}

// Dialect names the template engine in use.
func (m *Mapper) Dialect() string {
	return m.resolver.Engine().Name()
}

// Map resolves form against input and returns the typed output. Validation
// failures are returned as *ValidationError.
func (m *Mapper) Map(data map[string]any, form *FormData) (Output, error) {
	if m == nil {
		return Output{}, errors.New("formmap: mapper is nil")
	}
	return m.builder.Build(data, form)
}

// MapJSON parses raw as the input object and calls Map. Blank input maps as
// an empty object.
func (m *Mapper) MapJSON(raw []byte, form *FormData) (Output, error) {
	data, err := input.Parse(raw)
	if err != nil {
		return Output{}, err
	}
	return m.Map(data, form)
}

// Resolve returns the resolved string of a single entry.
func (m *Mapper) Resolve(data map[string]any, entry FormEntry) string {
	return m.resolver.Resolve(data, entry)
}

// Explain resolves entry and reports the template error behind a fallback.
func (m *Mapper) Explain(data map[string]any, entry FormEntry) (string, error) {
	return m.resolver.Explain(data, entry)
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	return mapper.AsValidationError(err)
}

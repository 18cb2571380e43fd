// Package mapper builds the typed output object. A Builder resolves every
// form entry, coerces the resolved strings through the codec of each schema
// field and either returns a complete model.Output or a *ValidationError that
// lists every failing field.
package mapper

import (
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/goliatone/go-formmap/pkg/fieldtype"
	"github.com/goliatone/go-formmap/pkg/model"
	"github.com/goliatone/go-formmap/pkg/resolver"
	"github.com/goliatone/go-formmap/pkg/schema"
)

// Option configures the builder before construction.
type Option func(*config)

type config struct {
	resolver *resolver.Resolver
	codecs   *fieldtype.Registry
	logger   logr.Logger
}

// WithResolver sets the resolver used for template entries.
func WithResolver(r *resolver.Resolver) Option {
	return func(cfg *config) {
		cfg.resolver = r
	}
}

// WithCodecs replaces the field type codecs.
func WithCodecs(codecs *fieldtype.Registry) Option {
	return func(cfg *config) {
		cfg.codecs = codecs
	}
}

// WithLogger routes build diagnostics to logger.
func WithLogger(logger logr.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// Builder maps input data and form entries onto a fixed schema. It keeps no
// state between builds and is safe for concurrent use.
type Builder struct {
	schema   model.Schema
	known    map[string]struct{}
	resolver *resolver.Resolver
	codecs   *fieldtype.Registry
	logger   logr.Logger
}

// New validates s and constructs a Builder for it.
func New(s model.Schema, options ...Option) (*Builder, error) {
	cfg := &config{logger: logr.Discard()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if err := schema.Validate(s); err != nil {
		return nil, err
	}

	if cfg.codecs == nil {
		cfg.codecs = fieldtype.NewRegistry()
	}
	for _, field := range s.Fields {
		if _, ok := cfg.codecs.Resolve(field.Type); !ok {
			return nil, fmt.Errorf("mapper: no codec for field %q of type %s", field.Key, field.Type)
		}
	}

	if cfg.resolver == nil {
		r, err := resolver.New(resolver.WithLogger(cfg.logger))
		if err != nil {
			return nil, fmt.Errorf("mapper: %w", err)
		}
		cfg.resolver = r
	}

	known := make(map[string]struct{}, len(s.Fields))
	for _, key := range s.Keys() {
		known[key] = struct{}{}
	}

	return &Builder{
		schema:   cloneSchema(s),
		known:    known,
		resolver: cfg.resolver,
		codecs:   cfg.codecs,
		logger:   cfg.logger,
	}, nil
}

// Schema returns a copy of the schema the builder maps onto.
func (b *Builder) Schema() model.Schema {
	return cloneSchema(b.schema)
}

// Resolver returns the resolver used for template entries.
func (b *Builder) Resolver() *resolver.Resolver {
	return b.resolver
}

// Build resolves every entry of form against input and coerces the results
// to the schema's field types. Schema keys missing from form are coerced
// from the empty string; form keys unknown to the schema are dropped. On any
// coercion failure it returns a *ValidationError and no output.
func (b *Builder) Build(input map[string]any, form *model.FormData) (model.Output, error) {
	if b == nil {
		return model.Output{}, errors.New("mapper: builder is nil")
	}

	candidate := make(map[string]string, form.Len())
	form.Each(func(key string, entry model.FormEntry) bool {
		if _, ok := b.known[key]; !ok {
			b.logger.V(1).Info("dropping unknown form key", "key", key)
			return true
		}
		candidate[key] = b.resolver.Resolve(input, entry)
		return true
	})

	values := make(map[string]any, len(b.schema.Fields))
	problems := &ValidationError{}
	for _, field := range b.schema.Fields {
		value, err := b.codecs.Coerce(field, candidate[field.Key])
		if err != nil {
			problems.Errors = append(problems.Errors, fieldError(field, err))
			continue
		}
		values[field.Key] = value
	}

	if problems.HasErrors() {
		b.logger.V(1).Info("build failed", "fields", problems.Keys())
		return model.Output{}, problems
	}
	return model.NewOutput(b.schema.Keys(), values), nil
}

func fieldError(field model.FieldDefinition, err error) FieldError {
	code := CodeTypeMismatch
	if !errors.Is(err, fieldtype.ErrTypeMismatch) {
		code = CodeCoercionFailed
	}
	return FieldError{
		Key:     field.Key,
		Label:   field.DisplayLabel(),
		Code:    code,
		Message: err.Error(),
	}
}

func cloneSchema(s model.Schema) model.Schema {
	out := model.Schema{Name: s.Name, Fields: make([]model.FieldDefinition, len(s.Fields))}
	for idx, field := range s.Fields {
		field.Picklist = append([]string(nil), field.Picklist...)
		out.Fields[idx] = field
	}
	return out
}

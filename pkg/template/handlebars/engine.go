// Package handlebars renders Handlebars templates with raymond. Helpers are
// attached to each compiled template, so engines never touch raymond's
// process-wide helper table.
package handlebars

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/aymerick/raymond"

	"github.com/goliatone/go-formmap/pkg/helpers"
	"github.com/goliatone/go-formmap/pkg/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	funcs helpers.Map
}

// WithHelpers adds funcs to the helper set. Later calls win on collisions.
func WithHelpers(funcs helpers.Map) Option {
	return func(cfg *config) {
		cfg.funcs = helpers.Merge(cfg.funcs, funcs)
	}
}

// Engine satisfies template.Engine using raymond.
type Engine struct {
	funcs map[string]any
}

var _ template.Engine = (*Engine)(nil)

// New constructs an Engine. Helper sets are validated up front because
// raymond panics on malformed helpers at registration time.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if err := cfg.funcs.Validate(); err != nil {
		return nil, fmt.Errorf("handlebars: %w", err)
	}
	funcs := cfg.funcs.Clone()
	for name, fn := range funcs {
		funcs[name] = strictArity(name, fn)
	}
	return &Engine{funcs: funcs}, nil
}

var optionsType = reflect.TypeOf((*raymond.Options)(nil))

// strictArity wraps fn so a call one argument short fails. raymond fills a
// trailing parameter that accepts *raymond.Options with the options value
// instead of reporting the missing argument.
func strictArity(name string, fn any) any {
	value := reflect.ValueOf(fn)
	if value.Kind() != reflect.Func || value.Type().IsVariadic() {
		return fn
	}
	fnType := value.Type()
	last := fnType.NumIn() - 1
	if last < 0 || fnType.In(last) == optionsType || !optionsType.AssignableTo(fnType.In(last)) {
		return fn
	}
	return reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		if _, ok := args[last].Interface().(*raymond.Options); ok {
			panic(fmt.Errorf("helper %q called with %d arguments, needs %d", name, last, last+1))
		}
		return value.Call(args)
	}).Interface()
}

// Factory adapts New to template.Factory.
func Factory(funcs helpers.Map) (template.Engine, error) {
	return New(WithHelpers(funcs))
}

// Name returns the dialect name.
func (e *Engine) Name() string {
	return template.DialectHandlebars
}

// Render parses source and executes it against data.
func (e *Engine) Render(source string, data map[string]any) (out string, err error) {
	if e == nil {
		return "", errors.New("handlebars: engine is nil")
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("handlebars: render panic: %v", r)
		}
	}()

	tpl, err := raymond.Parse(source)
	if err != nil {
		return "", fmt.Errorf("handlebars: parse template: %w", err)
	}
	if len(e.funcs) > 0 {
		tpl.RegisterHelpers(e.funcs)
	}

	rendered, err := tpl.Exec(data)
	if err != nil {
		return "", fmt.Errorf("handlebars: execute template: %w", err)
	}
	return rendered, nil
}

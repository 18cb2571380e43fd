// Package pongo renders Django-syntax templates with pongo2. Helpers are
// exposed as callable context values, so `{{ uppercase(name) }}` and
// `{% if gte(score, 60) %}` work alongside pongo2's own filters.
package pongo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strings"
	"sync"
	"testing/fstest"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formmap/pkg/helpers"
	"github.com/goliatone/go-formmap/pkg/template"
)

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	funcs      helpers.Map
	globalData map[string]any
}

// WithBaseDir lets templates include partials from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS lets templates include partials from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithHelpers adds funcs to the helper set. Later calls win on collisions.
func WithHelpers(funcs helpers.Map) Option {
	return func(cfg *config) {
		cfg.funcs = helpers.Merge(cfg.funcs, funcs)
	}
}

// WithGlobalData seeds values available to every render. Input data wins on
// key collisions.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// Engine satisfies template.Engine using pongo2.
type Engine struct {
	templateSet *pongo2.TemplateSet
	funcs       helpers.Map
	globals     pongo2.Context
}

var _ template.Engine = (*Engine)(nil)

var registerFiltersOnce sync.Once

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if err := cfg.funcs.Validate(); err != nil {
		return nil, fmt.Errorf("pongo: %w", err)
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("pongo: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	// without configured loaders every include resolves against an empty fs
	if len(loaders) == 0 {
		loaders = append(loaders, pongo2.NewFSLoader(fstest.MapFS{}))
	}
	set := pongo2.NewSet("formmap", loaders...)
	if err := set.BanTag("ssi"); err != nil {
		return nil, fmt.Errorf("pongo: ban ssi tag: %w", err)
	}

	globals, err := convertToContext(cfg.globalData)
	if err != nil {
		return nil, fmt.Errorf("pongo: apply global data: %w", err)
	}

	registerFiltersOnce.Do(registerDefaultFilters)

	return &Engine{
		templateSet: set,
		funcs:       cfg.funcs.Clone(),
		globals:     globals,
	}, nil
}

// Factory adapts New to template.Factory.
func Factory(funcs helpers.Map) (template.Engine, error) {
	return New(WithHelpers(funcs))
}

// Name returns the dialect name.
func (e *Engine) Name() string {
	return template.DialectDjango
}

// Render parses source and executes it against data.
func (e *Engine) Render(source string, data map[string]any) (out string, err error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("pongo: engine is nil")
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("pongo: render panic: %v", r)
		}
	}()

	tmpl, err := e.templateSet.FromString(source)
	if err != nil {
		return "", fmt.Errorf("pongo: parse template string: %w", err)
	}

	viewContext, err := e.context(data)
	if err != nil {
		return "", fmt.Errorf("pongo: convert data: %w", err)
	}

	rendered, err := tmpl.Execute(viewContext)
	if err != nil {
		return "", fmt.Errorf("pongo: execute template string: %w", err)
	}
	return rendered, nil
}

// context layers globals, input data and helpers. Helpers shadow input keys,
// matching how Handlebars resolves a name that is both a helper and a field.
func (e *Engine) context(data map[string]any) (pongo2.Context, error) {
	input, err := convertToContext(data)
	if err != nil {
		return nil, err
	}
	ctx := make(pongo2.Context, len(e.globals)+len(input)+len(e.funcs))
	ctx.Update(e.globals)
	ctx.Update(input)
	for name, fn := range e.funcs {
		ctx[name] = fn
	}
	return ctx, nil
}

func convertToContext(data map[string]any) (pongo2.Context, error) {
	out := make(pongo2.Context, len(data))
	for key, value := range data {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		converted, err := convertValue(value)
		if err != nil {
			return nil, err
		}
		out[key] = converted
	}
	return out, nil
}

// convertValue normalises decoded JSON for pongo2. Integral floats become
// int64 so `{{ count }}` renders as 5 rather than 5.000000.
func convertValue(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool:
		return v, nil
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int64(v), nil
		}
		return v, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			converted, err := convertValue(item)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			converted, err := convertValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	default:
		raw, err := jsonToAny(v)
		if err != nil {
			return nil, err
		}
		return convertValue(raw)
	}
}

func jsonToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

package resolver

import (
	"errors"
	"sync"
	"testing"

	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formmap/pkg/helpers"
	"github.com/goliatone/go-formmap/pkg/model"
	"github.com/goliatone/go-formmap/pkg/template/pongo"
)

func newResolver(t *testing.T, options ...Option) *Resolver {
	t.Helper()
	r, err := New(options...)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return r
}

func TestResolve_StaticEntriesPassThrough(t *testing.T) {
	t.Parallel()

	r := newResolver(t)
	input := map[string]any{"name": "Alice"}
	for _, value := range []string{"", "plain", "{{name}}", "{{#if name}}Hello", "  spaced  "} {
		if got := r.Resolve(input, model.Static(value)); got != value {
			t.Fatalf("Resolve(static %q) = %q", value, got)
		}
	}
}

func TestResolve_EmptyTemplatePassesThrough(t *testing.T) {
	t.Parallel()

	r := newResolver(t)
	out, err := r.Explain(map[string]any{"a": 1}, model.Template(""))
	if err != nil || out != "" {
		t.Fatalf("expected empty passthrough, got %q (%v)", out, err)
	}
}

func TestResolve_TemplateWithoutPlaceholders(t *testing.T) {
	t.Parallel()

	r := newResolver(t)
	for _, value := range []string{"Hello world", "a + b = c", "100%"} {
		if got := r.Resolve(map[string]any{}, model.Template(value)); got != value {
			t.Fatalf("Resolve(%q) = %q", value, got)
		}
	}
}

func TestResolve_Templates(t *testing.T) {
	t.Parallel()

	r := newResolver(t)

	cases := []struct {
		name  string
		input map[string]any
		value string
		want  string
	}{
		{
			name: "dotted path",
			input: map[string]any{
				"user": map[string]any{"profile": map[string]any{"email": "a@b.com"}},
			},
			value: "{{user.profile.email}}",
			want:  "a@b.com",
		},
		{
			name:  "missing intermediate key",
			input: map[string]any{"user": "flat"},
			value: "<{{user.profile.email}}>",
			want:  "<>",
		},
		{
			name:  "conditional true",
			input: map[string]any{"isActive": true},
			value: "{{#if isActive}}Active{{else}}Inactive{{/if}}",
			want:  "Active",
		},
		{
			name:  "conditional false",
			input: map[string]any{"isActive": false},
			value: "{{#if isActive}}Active{{else}}Inactive{{/if}}",
			want:  "Inactive",
		},
		{
			name:  "helper invocation",
			input: map[string]any{"a": float64(5), "b": float64(3)},
			value: "{{a}} + {{b}} = {{add a b}}",
			want:  "5 + 3 = 8",
		},
		{
			name:  "comparison helper",
			input: map[string]any{"age": float64(17)},
			value: "{{#if (gte age 18)}}adult{{else}}minor{{/if}}",
			want:  "minor",
		},
	}

	for _, tc := range cases {
		if got := r.Resolve(tc.input, model.Template(tc.value)); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestResolve_MalformedTemplateFallsBack(t *testing.T) {
	t.Parallel()

	r := newResolver(t)
	entry := model.Template("{{#if name}}Hello")

	if got := r.Resolve(map[string]any{"name": "Alice"}, entry); got != entry.Value {
		t.Fatalf("expected raw value, got %q", got)
	}

	out, err := r.Explain(map[string]any{"name": "Alice"}, entry)
	if err == nil {
		t.Fatalf("expected Explain to report the parse error")
	}
	if out != entry.Value {
		t.Fatalf("Explain must return the fallback value, got %q", out)
	}
}

func TestResolve_HelperPanicFallsBack(t *testing.T) {
	t.Parallel()

	r := newResolver(t, WithHelpers(helpers.Map{
		"explode": func(v any) string { panic(errors.New("boom")) },
	}))
	entry := model.Template("{{explode name}}")
	if got := r.Resolve(map[string]any{"name": "x"}, entry); got != entry.Value {
		t.Fatalf("expected raw value after helper panic, got %q", got)
	}
}

func TestResolve_CustomEngine(t *testing.T) {
	t.Parallel()

	engine, err := pongo.New(pongo.WithHelpers(helpers.Builtins()))
	if err != nil {
		t.Fatalf("pongo engine: %v", err)
	}
	r := newResolver(t, WithEngine(engine))

	got := r.Resolve(map[string]any{"name": "Bob"}, model.Template("Welcome, {{ name }}!"))
	if got != "Welcome, Bob!" {
		t.Fatalf("got %q", got)
	}
	if r.Engine().Name() != "django" {
		t.Fatalf("unexpected engine %q", r.Engine().Name())
	}
}

func TestNew_InvalidHelpers(t *testing.T) {
	t.Parallel()

	if _, err := New(WithHelpers(helpers.Map{"bad": 1})); err == nil {
		t.Fatalf("expected invalid helper error")
	}
}

func TestResolve_LogsFallbackAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newResolver(t, WithLogger(zapr.NewLogger(zap.New(core))))

	r.Resolve(map[string]any{}, model.Template("{{#if x}}open"))
	r.Resolve(map[string]any{"x": "ok"}, model.Template("{{x}}"))

	entries := logs.FilterMessage("template fallback").All()
	if len(entries) != 1 {
		t.Fatalf("expected one fallback entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["template"] != "{{#if x}}open" || fields["engine"] != "handlebars" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestResolve_ConcurrentUse(t *testing.T) {
	t.Parallel()

	r := newResolver(t)
	input := map[string]any{"a": float64(2), "b": float64(40)}
	entry := model.Template("{{add a b}}")

	var wg sync.WaitGroup
	results := make([]string, 32)
	for idx := range results {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = r.Resolve(input, entry)
		}(idx)
	}
	wg.Wait()

	for idx, got := range results {
		if got != "42" {
			t.Fatalf("result %d = %q", idx, got)
		}
	}
}

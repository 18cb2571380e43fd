package mapper_test

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/zapr"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formmap/pkg/fieldtype"
	"github.com/goliatone/go-formmap/pkg/mapper"
	"github.com/goliatone/go-formmap/pkg/model"
	"github.com/goliatone/go-formmap/pkg/schema"
	"github.com/goliatone/go-formmap/pkg/testsupport"
)

func newBuilder(t *testing.T, s model.Schema, options ...mapper.Option) *mapper.Builder {
	t.Helper()
	b, err := mapper.New(s, options...)
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	return b
}

func singleField(key string, kind model.FieldType, picklist ...string) model.Schema {
	return model.Schema{Fields: []model.FieldDefinition{{Key: key, Type: kind, Picklist: picklist}}}
}

func form(entries ...any) *model.FormData {
	out := model.NewFormData()
	for idx := 0; idx+1 < len(entries); idx += 2 {
		out.Set(entries[idx].(string), entries[idx+1].(model.FormEntry))
	}
	return out
}

func TestBuild_Greeting(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, singleField("greeting", model.FieldTypeText))
	out, err := b.Build(map[string]any{"name": "Bob"}, form("greeting", model.Template("Welcome, {{name}}!")))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"greeting": "Welcome, Bob!"}, out.Map()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_YesOrNo(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, singleField("active", model.FieldTypeYesOrNo))

	out, err := b.Build(map[string]any{}, form("active", model.Static("true")))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"active": true}, out.Map()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	out, err = b.Build(map[string]any{}, form("active", model.Static("notaboolean")))
	validationErr, ok := mapper.AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if diff := cmp.Diff([]string{"active"}, validationErr.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output on failure, got %v", out.Map())
	}
}

func TestBuild_FloatMismatch(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, singleField("numField", model.FieldTypeFloat))
	out, err := b.Build(map[string]any{}, form("numField", model.Static("notanumber")))

	var validationErr *mapper.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "numField") {
		t.Fatalf("expected error to mention numField: %v", err)
	}
	if got := validationErr.Errors[0].Code; got != mapper.CodeTypeMismatch {
		t.Fatalf("expected %s, got %s", mapper.CodeTypeMismatch, got)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output on failure")
	}
}

func TestBuild_AggregatesEveryFailure(t *testing.T) {
	t.Parallel()

	s := model.Schema{Fields: []model.FieldDefinition{
		{Key: "name", Type: model.FieldTypeText},
		{Key: "amount", Label: "Amount", Type: model.FieldTypeFloat},
		{Key: "agree", Type: model.FieldTypeYesOrNo},
		{Key: "status", Type: model.FieldTypePicklist, Picklist: []string{"open", "closed"}},
	}}
	b := newBuilder(t, s)

	_, err := b.Build(map[string]any{"state": "pending"}, form(
		"status", model.Template("{{state}}"),
		"agree", model.Static("yes"),
		"amount", model.Static("12abc"),
		"name", model.Static("ok"),
	))
	validationErr, ok := mapper.AsValidationError(err)
	if !ok || !validationErr.HasErrors() {
		t.Fatalf("expected validation error, got %v", err)
	}

	if diff := cmp.Diff([]string{"amount", "agree", "status"}, validationErr.Keys()); diff != "" {
		t.Fatalf("failing keys mismatch (-want +got):\n%s", diff)
	}
	if validationErr.Errors[0].Label != "Amount" || validationErr.Errors[1].Label != "agree" {
		t.Fatalf("unexpected labels: %+v", validationErr.Errors)
	}

	want := map[string][]string{
		"amount": {`expected number, received "12abc"`},
		"agree":  {`expected boolean, received "yes"`},
		"status": {`invalid option "pending", expected one of "open" | "closed"`},
	}
	if diff := cmp.Diff(want, validationErr.ByField()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_DefaultsAndDroppedKeys(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := model.Schema{Fields: []model.FieldDefinition{
		{Key: "title", Type: model.FieldTypeText},
		{Key: "count", Type: model.FieldTypeFloat},
		{Key: "done", Type: model.FieldTypeYesOrNo},
		{Key: "kind", Type: model.FieldTypePicklist, Picklist: []string{"a"}},
	}}
	b := newBuilder(t, s, mapper.WithLogger(zapr.NewLogger(zap.New(core))))

	out, err := b.Build(map[string]any{}, form("unknown", model.Static("x"), "count", model.Static("")))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := map[string]any{"title": "", "count": float64(0), "done": false, "kind": ""}
	if diff := cmp.Diff(want, out.Map()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"title", "count", "done", "kind"}, out.Keys()); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"done": false}, out.Compact().Map()); diff != "" {
		t.Fatalf("compact mismatch (-want +got):\n%s", diff)
	}

	dropped := logs.FilterMessage("dropping unknown form key").All()
	if len(dropped) != 1 || dropped[0].ContextMap()["key"] != "unknown" {
		t.Fatalf("expected dropped key log, got %v", dropped)
	}
}

func TestBuild_TemplatesFeedCoercion(t *testing.T) {
	t.Parallel()

	s := model.Schema{Fields: []model.FieldDefinition{
		{Key: "total", Type: model.FieldTypeFloat},
		{Key: "adult", Type: model.FieldTypeYesOrNo},
	}}
	b := newBuilder(t, s)

	out, err := b.Build(map[string]any{"a": float64(5), "b": float64(3), "age": float64(30)}, form(
		"total", model.Template("{{add a b}}"),
		"adult", model.Template("{{gte age 18}}"),
	))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"total": float64(8), "adult": true}, out.Map()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_MalformedTemplateIsValidatedAsLiteral(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, singleField("greeting", model.FieldTypeText))
	out, err := b.Build(map[string]any{"name": "Alice"}, form("greeting", model.Template("{{#if name}}Hello")))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got, _ := out.Get("greeting"); got != "{{#if name}}Hello" {
		t.Fatalf("expected raw template text, got %q", got)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	t.Parallel()

	s := model.Schema{Fields: []model.FieldDefinition{
		{Key: "greeting", Type: model.FieldTypeText},
		{Key: "score", Type: model.FieldTypeFloat},
	}}
	b := newBuilder(t, s)
	input := map[string]any{"name": "Bob", "score": float64(7)}
	entries := form("greeting", model.Template("Hi {{name}}"), "score", model.Template("{{score}}"))

	first, err := b.Build(input, entries)
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	second, err := b.Build(input, entries)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if diff := cmp.Diff(first.Map(), second.Map()); diff != "" {
		t.Fatalf("builds differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"name": "Bob", "score": float64(7)}, input); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}

	_, errA := b.Build(input, form("score", model.Static("x")))
	_, errB := b.Build(input, form("score", model.Static("x")))
	if errA == nil || errA.Error() != errB.Error() {
		t.Fatalf("failing builds differ: %v vs %v", errA, errB)
	}
}

func TestBuild_NilForm(t *testing.T) {
	t.Parallel()

	b := newBuilder(t, singleField("flag", model.FieldTypeYesOrNo))
	out, err := b.Build(nil, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"flag": false}, out.Map()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_RejectsInvalidSchema(t *testing.T) {
	t.Parallel()

	_, err := mapper.New(model.Schema{Fields: []model.FieldDefinition{
		{Key: "status", Type: model.FieldTypePicklist},
	}})
	var defErr *schema.DefinitionError
	if !errors.As(err, &defErr) {
		t.Fatalf("expected DefinitionError, got %v", err)
	}
}

func TestNew_RequiresCodecForEveryType(t *testing.T) {
	t.Parallel()

	empty := &fieldtype.Registry{}
	if _, err := mapper.New(singleField("x", model.FieldTypeText), mapper.WithCodecs(empty)); err == nil {
		t.Fatalf("expected missing codec error")
	}
}

func TestBuild_SchemaIsCopied(t *testing.T) {
	t.Parallel()

	s := singleField("status", model.FieldTypePicklist, "open")
	b := newBuilder(t, s)
	s.Fields[0].Picklist[0] = "mutated"

	if _, err := b.Build(nil, form("status", model.Static("open"))); err != nil {
		t.Fatalf("builder must not observe caller mutations: %v", err)
	}
}

func TestBuild_Fixture(t *testing.T) {
	t.Parallel()

	s := testsupport.MustLoadSchema(t, filepath.Join("testdata", "schema.yaml"))
	input := testsupport.MustLoadInput(t, filepath.Join("testdata", "input.json"))
	entries := testsupport.MustLoadFormData(t, filepath.Join("testdata", "form.yaml"))

	out, err := newBuilder(t, s).Build(input, entries)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		t.Fatalf("marshal output: %v", err)
	}
	payload = append(payload, '\n')

	golden := filepath.Join("testdata", "output.golden.json")
	if testsupport.WriteMaybeGolden(t, golden, payload) {
		return
	}
	want := testsupport.MustReadGoldenString(t, golden)
	if diff := testsupport.CompareGolden(want, string(payload)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestValidationError_ByFieldNormalizes(t *testing.T) {
	t.Parallel()

	err := &mapper.ValidationError{Errors: []mapper.FieldError{
		{Key: "a", Message: " bad "},
		{Key: "a", Message: "bad"},
		{Key: "a", Message: "  "},
		{Key: "b", Message: "worse"},
	}}
	want := map[string][]string{"a": {"bad"}, "b": {"worse"}}
	if diff := cmp.Diff(want, err.ByField()); diff != "" {
		t.Fatalf("by field mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(err.Error(), "mapper: validation failed: a:") {
		t.Fatalf("unexpected message %q", err.Error())
	}

	var empty *mapper.ValidationError
	if empty.HasErrors() || empty.ByField() != nil {
		t.Fatalf("nil validation error must report no errors")
	}
}

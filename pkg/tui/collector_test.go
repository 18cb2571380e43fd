package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formmap/pkg/model"
)

type stubDriver struct {
	inputs    []string
	selectIdx []int
	confirm   []bool
	textAreas []string

	inputCfgs    []InputConfig
	confirmCfgs  []ConfirmConfig
	selectCfgs   []SelectConfig
	infoMessages []string

	inputPos   int
	selectPos  int
	confirmPos int
	textPos    int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.inputCfgs = append(s.inputCfgs, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.confirmCfgs = append(s.confirmCfgs, cfg)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectCfgs = append(s.selectCfgs, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

type abortingDriver struct{ stubDriver }

func (a *abortingDriver) Confirm(context.Context, ConfirmConfig) (bool, error) {
	return false, ErrAborted
}

func testSchema() model.Schema {
	return model.Schema{Fields: []model.FieldDefinition{
		{Key: "name", Label: "Name", Type: model.FieldTypeText},
		{Key: "notes", Type: model.FieldTypeTextArea},
		{Key: "age", Label: "Age", Type: model.FieldTypeFloat},
		{Key: "active", Type: model.FieldTypeYesOrNo},
		{Key: "color", Type: model.FieldTypePicklist, Picklist: []string{"red", "blue"}},
	}}
}

func TestCollect_EveryWidget(t *testing.T) {
	driver := &stubDriver{
		// template toggles interleaved with the YESORNO switch
		confirm:   []bool{true, false, false, false, true, false},
		inputs:    []string{"{{first}} {{last}}", "42"},
		textAreas: []string{"line one\nline two"},
		selectIdx: []int{2},
	}
	collector := New(WithPromptDriver(driver))

	got, err := collector.Collect(context.Background(), testSchema(), nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := map[string]model.FormEntry{
		"name":   model.Template("{{first}} {{last}}"),
		"notes":  model.Static("line one\nline two"),
		"age":    model.Static("42"),
		"active": model.Static("true"),
		"color":  model.Static("blue"),
	}
	gotEntries := make(map[string]model.FormEntry, got.Len())
	got.Each(func(key string, entry model.FormEntry) bool {
		gotEntries[key] = entry
		return true
	})
	if diff := cmp.Diff(want, gotEntries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(testSchema().Keys(), got.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	if msg := driver.confirmCfgs[0].Message; msg != "Enable templating for Name?" {
		t.Fatalf("unexpected toggle message %q", msg)
	}
	if help := driver.inputCfgs[0].Help; help != templateHelp {
		t.Fatalf("expected template help, got %q", help)
	}
	if opts := driver.selectCfgs[0].Options; !cmp.Equal(opts, []string{NoneOption, "red", "blue"}) {
		t.Fatalf("unexpected select options %v", opts)
	}
}

func TestCollect_NoneOptionYieldsEmpty(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{0}}
	collector := New(WithPromptDriver(driver), WithTemplateToggle(false))

	schema := model.Schema{Fields: []model.FieldDefinition{
		{Key: "color", Type: model.FieldTypePicklist, Picklist: []string{"red"}},
	}}
	prefill := model.NewFormData()
	prefill.Set("color", model.Static("red"))

	got, err := collector.Collect(context.Background(), schema, prefill)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	entry, _ := got.Get("color")
	if entry != model.Static("") {
		t.Fatalf("expected empty static entry, got %+v", entry)
	}
	if idx := driver.selectCfgs[0].DefaultIndex; idx != 1 {
		t.Fatalf("expected prefill to select index 1, got %d", idx)
	}
}

func TestCollect_TemplateToggleClearsValue(t *testing.T) {
	driver := &stubDriver{
		confirm: []bool{true},
		inputs:  []string{"{{name}}"},
	}
	collector := New(WithPromptDriver(driver))

	schema := model.Schema{Fields: []model.FieldDefinition{{Key: "name", Type: model.FieldTypeText}}}
	prefill := model.NewFormData()
	prefill.Set("name", model.Static("Jane"))

	if _, err := collector.Collect(context.Background(), schema, prefill); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if def := driver.inputCfgs[0].Default; def != "" {
		t.Fatalf("expected cleared default after toggling, got %q", def)
	}
}

func TestCollect_PrefillKeepsModeAndValue(t *testing.T) {
	driver := &stubDriver{
		confirm: []bool{false},
		inputs:  []string{"Jane"},
	}
	collector := New(WithPromptDriver(driver), WithTheme(Theme{PromptPrefix: "> "}))

	schema := model.Schema{Fields: []model.FieldDefinition{{Key: "name", Label: "Name", Type: model.FieldTypeText}}}
	prefill := model.NewFormData()
	prefill.Set("name", model.Static("Jane"))

	if _, err := collector.Collect(context.Background(), schema, prefill); err != nil {
		t.Fatalf("collect: %v", err)
	}
	cfg := driver.inputCfgs[0]
	if cfg.Default != "Jane" || cfg.Message != "> Name" {
		t.Fatalf("unexpected input config %+v", cfg)
	}
}

func TestCollect_FloatValidator(t *testing.T) {
	driver := &stubDriver{inputs: []string{""}}
	collector := New(WithPromptDriver(driver), WithTemplateToggle(false))

	schema := model.Schema{Fields: []model.FieldDefinition{{Key: "age", Type: model.FieldTypeFloat}}}
	if _, err := collector.Collect(context.Background(), schema, nil); err != nil {
		t.Fatalf("collect: %v", err)
	}

	validate := driver.inputCfgs[0].Validator
	if validate == nil {
		t.Fatalf("expected number validator")
	}
	for _, ok := range []string{"", "  ", "1.5", " -3 "} {
		if err := validate(ok); err != nil {
			t.Errorf("validate(%q): unexpected error %v", ok, err)
		}
	}
	for _, bad := range []string{"abc", "NaN", "1,5"} {
		if err := validate(bad); err == nil {
			t.Errorf("validate(%q): expected error", bad)
		}
	}
}

func TestCollect_InvalidSelectionRetries(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{9, 1}}
	collector := New(WithPromptDriver(driver), WithTemplateToggle(false), WithTheme(Theme{InfoPrefix: "! "}))

	schema := model.Schema{Fields: []model.FieldDefinition{
		{Key: "color", Type: model.FieldTypePicklist, Picklist: []string{"red"}},
	}}
	got, err := collector.Collect(context.Background(), schema, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if entry, _ := got.Get("color"); entry.Value != "red" {
		t.Fatalf("expected red, got %+v", entry)
	}
	if diff := cmp.Diff([]string{"! Invalid color selection"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_Aborted(t *testing.T) {
	collector := New(WithPromptDriver(&abortingDriver{}))

	_, err := collector.Collect(context.Background(), testSchema(), nil)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestCollect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(WithPromptDriver(&stubDriver{})).Collect(ctx, testSchema(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

package schema_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formmap/pkg/model"
	"github.com/goliatone/go-formmap/pkg/schema"
	"github.com/goliatone/go-formmap/pkg/testsupport"
)

func contactSchema() model.Schema {
	return model.Schema{
		Name: "contact",
		Fields: []model.FieldDefinition{
			{Key: "fullName", Label: "Full name", Type: model.FieldTypeText},
			{Key: "notes", Label: "Notes", Type: model.FieldTypeTextArea, Sanitize: model.SanitizeUGC},
			{Key: "score", Type: model.FieldTypeFloat},
			{Key: "subscribed", Label: "Subscribed", Type: model.FieldTypeYesOrNo},
			{Key: "tier", Label: "Tier", Type: model.FieldTypePicklist, Picklist: []string{"bronze", "silver", "gold"}},
		},
	}
}

func TestLoadFile_JSONAndYAMLAgree(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"contact.json", "contact.yaml"} {
		got := testsupport.MustLoadSchema(t, filepath.Join("testdata", name))
		if diff := cmp.Diff(contactSchema(), got); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestParseDocument(t *testing.T) {
	t.Parallel()

	doc := testsupport.LoadDocument(t, filepath.Join("testdata", "contact.yaml"))
	if doc.Format() != schema.FormatYAML {
		t.Fatalf("expected yaml format, got %q", doc.Format())
	}
	got, err := schema.ParseDocument(doc)
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	if diff := cmp.Diff(contactSchema().Keys(), got.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_DomainRules(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile(filepath.Join("testdata", "invalid_rules.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	_, err = schema.Parse(data, schema.FormatYAML)

	var defErr *schema.DefinitionError
	if !errors.As(err, &defErr) {
		t.Fatalf("expected DefinitionError, got %v", err)
	}

	want := []schema.Issue{
		{Field: "status", Message: "picklist must declare at least one option"},
		{Field: "status", Message: "duplicate key (first declared at fields[0])"},
		{Field: "amount", Message: "picklist is only allowed on PICKLIST fields"},
		{Field: "when", Message: `unknown type "DATE"`},
		{Field: "flag", Message: "sanitize is only allowed on TEXT and TEXTAREA fields"},
	}
	if diff := cmp.Diff(want, defErr.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_ShapeErrors(t *testing.T) {
	t.Parallel()

	_, err := schema.LoadFile(filepath.Join("testdata", "invalid_shape.json"))

	var defErr *schema.DefinitionError
	if !errors.As(err, &defErr) {
		t.Fatalf("expected DefinitionError, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"invalid_shape.json", "key is required", "type is required", "colour"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in %q", fragment, msg)
		}
	}
}

func TestParse_MalformedDocument(t *testing.T) {
	t.Parallel()

	if _, err := schema.Parse([]byte(`{"fields": [`), schema.FormatJSON); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
	if _, err := schema.Parse([]byte("fields: [\n  - key"), schema.FormatYAML); err == nil {
		t.Fatalf("expected error for malformed YAML")
	}
}

func TestValidate_EmptyKey(t *testing.T) {
	t.Parallel()

	err := schema.Validate(model.Schema{Fields: []model.FieldDefinition{{Type: model.FieldTypeText}}})
	if err == nil || !strings.Contains(err.Error(), "fields[0]: key is required") {
		t.Fatalf("expected empty key issue, got %v", err)
	}
	if err := schema.Validate(contactSchema()); err != nil {
		t.Fatalf("valid schema rejected: %v", err)
	}
}

func TestLoadFS(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"forms/greeting.json": {Data: []byte(`{"fields":[{"key":"greeting","type":"TEXT"}]}`)},
	}
	got, err := schema.LoadFS(files, "forms/greeting.json")
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if diff := cmp.Diff([]string{"greeting"}, got.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	catalog, err := schema.LoadCatalog(os.DirFS(filepath.Join("testdata", "catalog")))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if diff := cmp.Diff([]string{"lead", "ticket"}, catalog.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	ticket, ok := catalog.Schema("ticket")
	if !ok || ticket.Name != "ticket" {
		t.Fatalf("expected ticket schema named after its file, got %+v", ticket)
	}
}

func TestLoadCatalog_Duplicate(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"a.json": {Data: []byte(`{"name":"dup","fields":[{"key":"x","type":"TEXT"}]}`)},
		"b.yaml": {Data: []byte("name: dup\nfields:\n  - key: y\n    type: TEXT\n")},
	}
	if _, err := schema.LoadCatalog(files); err == nil || !strings.Contains(err.Error(), `duplicate schema "dup"`) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestFormatFromLocation(t *testing.T) {
	t.Parallel()

	cases := map[string]schema.Format{
		"schema.yaml":                        schema.FormatYAML,
		"dir/schema.YML":                     schema.FormatYAML,
		"schema.json":                        schema.FormatJSON,
		"schema":                             schema.FormatJSON,
		"https://example.com/s.yaml?rev=2":   schema.FormatYAML,
		"https://example.com/schemas/s.json": schema.FormatJSON,
	}
	for in, want := range cases {
		if got := schema.FormatFromLocation(in); got != want {
			t.Fatalf("FormatFromLocation(%q) = %q, want %q", in, got, want)
		}
	}
}

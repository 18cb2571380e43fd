package formmap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	internalLoader "github.com/goliatone/go-formmap/internal/loader"
	"github.com/goliatone/go-formmap/pkg/model"
	"github.com/goliatone/go-formmap/pkg/schema"
)

// NewLoader constructs a loader using the internal implementation while
// keeping the concrete type hidden from consumers.
func NewLoader(opts ...schema.LoaderOption) schema.Loader {
	cfg := schema.NewLoaderOptions(opts...)
	return internalLoader.New(cfg)
}

// LoadSchema loads and parses a schema document from a path or URL.
func LoadSchema(ctx context.Context, location string, opts ...schema.LoaderOption) (Schema, error) {
	doc, err := load(ctx, location, opts)
	if err != nil {
		return Schema{}, err
	}
	return schema.ParseDocument(doc)
}

// LoadOpenAPISchema derives a schema from the named component of an OpenAPI
// document at location.
func LoadOpenAPISchema(ctx context.Context, location, component string, opts ...schema.LoaderOption) (Schema, error) {
	doc, err := load(ctx, location, opts)
	if err != nil {
		return Schema{}, err
	}
	return schema.FromOpenAPIDocument(ctx, doc, component)
}

// LoadFormData loads a JSON or YAML form data document from a path or URL.
func LoadFormData(ctx context.Context, location string, opts ...schema.LoaderOption) (*FormData, error) {
	doc, err := load(ctx, location, opts)
	if err != nil {
		return nil, err
	}
	form, err := ParseFormData(doc.Raw(), doc.Format())
	if err != nil {
		return nil, fmt.Errorf("formmap: %s: %w", location, err)
	}
	return form, nil
}

// ParseFormData decodes form data keeping the document's key order. Blank
// documents yield empty form data.
func ParseFormData(data []byte, format schema.Format) (*FormData, error) {
	form := model.NewFormData()
	if len(bytes.TrimSpace(data)) == 0 {
		return form, nil
	}
	var err error
	if format == schema.FormatYAML {
		err = yaml.Unmarshal(data, form)
	} else {
		err = json.Unmarshal(data, form)
	}
	if err != nil {
		return nil, err
	}
	return form, nil
}

func load(ctx context.Context, location string, opts []schema.LoaderOption) (schema.Document, error) {
	if location == "" {
		return schema.Document{}, fmt.Errorf("formmap: location is required")
	}
	return NewLoader(opts...).Load(ctx, schema.SourceFromLocation(location))
}

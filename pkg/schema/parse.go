package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formmap/pkg/model"
)

//go:embed fields.schema.json
var fieldsSchema string

var (
	fieldsSchemaOnce     sync.Once
	fieldsSchemaCompiled *gojsonschema.Schema
	fieldsSchemaErr      error
)

func metaSchema() (*gojsonschema.Schema, error) {
	fieldsSchemaOnce.Do(func() {
		fieldsSchemaCompiled, fieldsSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(fieldsSchema))
	})
	return fieldsSchemaCompiled, fieldsSchemaErr
}

type rawDocument struct {
	Name   string     `json:"name"`
	Fields []rawField `json:"fields"`
}

type rawField struct {
	Key         string   `json:"key"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Picklist    []string `json:"picklist"`
	Description string   `json:"description"`
	Sanitize    string   `json:"sanitize"`
}

// Parse decodes a schema document, checks its shape against the embedded
// field meta schema and validates the domain rules. Type names are matched
// case-insensitively and BOOLEAN is accepted for YESORNO.
func Parse(data []byte, format Format) (model.Schema, error) {
	return parse(data, format, "")
}

// ParseDocument parses doc using the format implied by its location.
func ParseDocument(doc Document) (model.Schema, error) {
	return parse(doc.Raw(), doc.Format(), doc.Location())
}

// LoadFile reads and parses the schema at path.
func LoadFile(path string) (model.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Schema{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return parse(data, FormatFromLocation(path), path)
}

// LoadFS reads and parses name from fsys.
func LoadFS(fsys fs.FS, name string) (model.Schema, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return model.Schema{}, fmt.Errorf("schema: read %s: %w", name, err)
	}
	return parse(data, FormatFromLocation(name), name)
}

func parse(data []byte, format Format, location string) (model.Schema, error) {
	payload, err := toJSON(data, format)
	if err != nil {
		return model.Schema{}, fmt.Errorf("schema: decode %s: %w", describe(location, format), err)
	}
	if err := checkShape(payload, location); err != nil {
		return model.Schema{}, err
	}

	var doc rawDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return model.Schema{}, fmt.Errorf("schema: decode %s: %w", describe(location, format), err)
	}

	out := model.Schema{Name: doc.Name, Fields: make([]model.FieldDefinition, 0, len(doc.Fields))}
	for _, raw := range doc.Fields {
		kind, ok := model.ParseFieldType(raw.Type)
		if !ok {
			kind = model.FieldType(raw.Type)
		}
		out.Fields = append(out.Fields, model.FieldDefinition{
			Key:         raw.Key,
			Label:       raw.Label,
			Type:        kind,
			Picklist:    raw.Picklist,
			Description: raw.Description,
			Sanitize:    raw.Sanitize,
		})
	}

	if err := Validate(out); err != nil {
		if defErr, ok := err.(*DefinitionError); ok {
			defErr.Location = location
		}
		return model.Schema{}, err
	}
	return out, nil
}

func toJSON(data []byte, format Format) ([]byte, error) {
	if format != FormatYAML {
		return data, nil
	}
	var decoded any
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		return nil, err
	}
	return json.Marshal(decoded)
}

func checkShape(payload []byte, location string) error {
	compiled, err := metaSchema()
	if err != nil {
		return fmt.Errorf("schema: compile meta schema: %w", err)
	}
	result, err := compiled.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return fmt.Errorf("schema: shape validation: %w", err)
	}
	if result.Valid() {
		return nil
	}
	problems := &DefinitionError{Location: location}
	for _, desc := range result.Errors() {
		problems.Issues = append(problems.Issues, Issue{Field: desc.Field(), Message: desc.Description()})
	}
	return problems
}

func describe(location string, format Format) string {
	if location != "" {
		return location
	}
	return string(format) + " document"
}

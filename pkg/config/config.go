// Package config holds the formmap CLI configuration. A Config is loaded
// from an optional YAML file, overlaid by command-line flags and validated
// with struct tags before any schema or input is read.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formmap/pkg/template"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinPath selects standard input for Input.
const StdinPath = "-"

// ErrInvalid is wrapped by every validation failure returned from Validate.
var ErrInvalid = errors.New("config: invalid configuration")

// Config captures every knob exposed by cmd/formmap.
type Config struct {
	Schema      string   `yaml:"schema" validate:"required_without=OpenAPI,excluded_with=OpenAPI"`
	OpenAPI     string   `yaml:"openapi"`
	Component   string   `yaml:"component" validate:"required_with=OpenAPI"`
	Form        string   `yaml:"form"`
	Input       string   `yaml:"input"`
	InputPath   string   `yaml:"inputPath"`
	Dialect     string   `yaml:"dialect" validate:"oneof=handlebars django"`
	Format      string   `yaml:"format" validate:"oneof=json yaml"`
	Compact     bool     `yaml:"compact"`
	Interactive bool     `yaml:"interactive"`
	Explain     bool     `yaml:"explain"`
	Sprig       []string `yaml:"sprig" validate:"dive,required"`
	LogLevel    string   `yaml:"logLevel" validate:"omitempty,oneof=debug trace info"`
}

// Default returns a Config with the default dialect and output format.
func Default() Config {
	return Config{
		Dialect: template.DefaultDialect,
		Format:  FormatJSON,
	}
}

// Load reads a YAML file on top of Default. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize canonicalises dialect aliases and the output format.
func (c *Config) Normalize() {
	c.Dialect = template.NormalizeDialect(c.Dialect)
	switch format := strings.ToLower(strings.TrimSpace(c.Format)); format {
	case "":
		c.Format = FormatJSON
	case "yml":
		c.Format = FormatYAML
	default:
		c.Format = format
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

// ReadsStdin reports whether the input document comes from standard input.
func (c Config) ReadsStdin() bool {
	return c.Input == StdinPath
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			return yamlName(field.Tag.Get("yaml"), field.Name)
		})
	})
	return validate
}

// Validate checks the configuration and reports every failing field.
func (c Config) Validate() error {
	err := structValidator().Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config: validate: %w", err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describe(fe))
	}
	sort.Strings(messages)
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(messages, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required_without":
		return "one of schema or openapi is required"
	case "excluded_with":
		return "schema and openapi are mutually exclusive"
	case "required_with":
		return fmt.Sprintf("%s is required with openapi", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "required":
		return fmt.Sprintf("%s must not be empty", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

func yamlName(tag, fallback string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return fallback
	}
	return name
}

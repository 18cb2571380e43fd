// Command formmap maps a JSON input document onto a typed schema using a form
// data document of static values and templates.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	formmap "github.com/goliatone/go-formmap"
	"github.com/goliatone/go-formmap/pkg/config"
	"github.com/goliatone/go-formmap/pkg/input"
	"github.com/goliatone/go-formmap/pkg/logging"
	"github.com/goliatone/go-formmap/pkg/model"
	"github.com/goliatone/go-formmap/pkg/schema"
	"github.com/goliatone/go-formmap/pkg/tui"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2

	httpTimeout = 10 * time.Second
)

type stdio struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// collectFunc prompts for form data; swapped out in tests.
var collectFunc = func(ctx context.Context, s model.Schema, prefill *model.FormData) (*model.FormData, error) {
	return tui.New().Collect(ctx, s, prefill)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], stdio{in: os.Stdin, out: os.Stdout, err: os.Stderr})
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, std stdio) int {
	cfg, err := parseConfig(args, std.err)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(std.err, "formmap: %v\n", err)
		return exitUsage
	}

	level := cfg.LogLevel
	if cfg.Explain && level == "" {
		level = "debug"
	}
	logger, sync, err := logging.NewLoggerWithLevel(level)
	if err != nil {
		fmt.Fprintf(std.err, "formmap: logger: %v\n", err)
		return exitFailure
	}
	defer sync()

	if err := execute(ctx, cfg, logger, std); err != nil {
		if validationErr, ok := formmap.AsValidationError(err); ok {
			for _, fieldErr := range validationErr.Errors {
				fmt.Fprintln(std.err, fieldErr.Error())
			}
			return exitFailure
		}
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(std.err, "formmap: aborted")
			return exitFailure
		}
		fmt.Fprintf(std.err, "formmap: %v\n", err)
		return exitFailure
	}
	return exitOK
}

// parseConfig loads the optional config file and overlays explicitly set
// flags on top of it.
func parseConfig(args []string, stderr io.Writer) (config.Config, error) {
	fs := flag.NewFlagSet("formmap", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var flags config.Config
	configPath := fs.String("config", "", "YAML config file")
	fs.StringVar(&flags.Schema, "schema", "", "schema document (JSON or YAML) path or URL")
	fs.StringVar(&flags.OpenAPI, "openapi", "", "OpenAPI document path or URL")
	fs.StringVar(&flags.Component, "component", "", "OpenAPI component schema to map onto")
	fs.StringVar(&flags.Form, "form", "", "form data document (JSON or YAML)")
	fs.StringVar(&flags.Input, "input", "", "input JSON file, - for stdin")
	fs.StringVar(&flags.InputPath, "input-path", "", "gjson path selecting the input object")
	fs.StringVar(&flags.Dialect, "dialect", "", "template dialect: handlebars or django")
	fs.StringVar(&flags.Format, "format", "", "output format: json or yaml")
	fs.BoolVar(&flags.Compact, "compact", false, "omit empty strings and zero numbers from the output")
	fs.BoolVar(&flags.Interactive, "interactive", false, "collect form data with prompts")
	fs.BoolVar(&flags.Explain, "explain", false, "report template fallbacks")
	sprigNames := fs.String("sprig", "", "comma separated sprig helpers to expose")
	fs.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, trace or info")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}
	if fs.NArg() > 0 {
		return config.Config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return config.Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "schema":
			cfg.Schema = flags.Schema
		case "openapi":
			cfg.OpenAPI = flags.OpenAPI
		case "component":
			cfg.Component = flags.Component
		case "form":
			cfg.Form = flags.Form
		case "input":
			cfg.Input = flags.Input
		case "input-path":
			cfg.InputPath = flags.InputPath
		case "dialect":
			cfg.Dialect = flags.Dialect
		case "format":
			cfg.Format = flags.Format
		case "compact":
			cfg.Compact = flags.Compact
		case "interactive":
			cfg.Interactive = flags.Interactive
		case "explain":
			cfg.Explain = flags.Explain
		case "sprig":
			cfg.Sprig = splitList(*sprigNames)
		case "log-level":
			cfg.LogLevel = flags.LogLevel
		}
	})

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func execute(ctx context.Context, cfg config.Config, logger logr.Logger, std stdio) error {
	loaderOpts := []schema.LoaderOption{schema.WithHTTPFallback(httpTimeout)}

	var (
		s   model.Schema
		err error
	)
	if cfg.OpenAPI != "" {
		s, err = formmap.LoadOpenAPISchema(ctx, cfg.OpenAPI, cfg.Component, loaderOpts...)
	} else {
		s, err = formmap.LoadSchema(ctx, cfg.Schema, loaderOpts...)
	}
	if err != nil {
		return err
	}

	form := model.NewFormData()
	if cfg.Form != "" {
		form, err = formmap.LoadFormData(ctx, cfg.Form, loaderOpts...)
		if err != nil {
			return err
		}
	}
	if cfg.Interactive {
		form, err = collectFunc(ctx, s, form)
		if err != nil {
			return err
		}
	}

	data, err := readInput(cfg, std.in)
	if err != nil {
		return err
	}

	opts := []formmap.Option{
		formmap.WithDialect(cfg.Dialect),
		formmap.WithLogger(logger),
	}
	if len(cfg.Sprig) > 0 {
		opts = append(opts, formmap.WithSprig(cfg.Sprig...))
	}
	m, err := formmap.New(s, opts...)
	if err != nil {
		return err
	}

	if cfg.Explain {
		explain(m, data, form, std.err)
	}

	out, err := m.Map(data, form)
	if err != nil {
		return err
	}
	if cfg.Compact {
		out = out.Compact()
	}
	return writeOutput(std.out, out, cfg.Format)
}

func readInput(cfg config.Config, stdin io.Reader) (map[string]any, error) {
	var (
		raw []byte
		err error
	)
	switch {
	case cfg.ReadsStdin():
		raw, err = io.ReadAll(stdin)
	case cfg.Input != "":
		raw, err = os.ReadFile(cfg.Input)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if cfg.InputPath != "" {
		return input.Select(raw, cfg.InputPath)
	}
	return input.Parse(raw)
}

func explain(m *formmap.Mapper, data map[string]any, form *model.FormData, w io.Writer) {
	form.Each(func(key string, entry model.FormEntry) bool {
		if _, err := m.Explain(data, entry); err != nil {
			fmt.Fprintf(w, "explain: %s: %v\n", key, err)
		}
		return true
	})
}

func writeOutput(w io.Writer, out model.Output, format string) error {
	if format == config.FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(payload))
	return err
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

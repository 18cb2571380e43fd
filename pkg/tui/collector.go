// Package tui collects form data interactively in a terminal. Every schema
// field is prompted with the widget its field type advertises, and each field
// can be switched into template mode where the value is template source.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formmap/pkg/fieldtype"
	"github.com/goliatone/go-formmap/pkg/model"
)

// NoneOption is the leading picklist choice that leaves the field empty.
const NoneOption = "(none)"

const templateHelp = "Template source rendered against the input, e.g. {{name}}"

// Collector walks a schema and prompts for one form entry per field.
type Collector struct {
	driver      PromptDriver
	codecs      *fieldtype.Registry
	theme       Theme
	askTemplate bool
}

// New constructs a Collector backed by survey unless WithPromptDriver is set.
func New(options ...Option) *Collector {
	c := &Collector{
		driver:      newSurveyDriver(),
		codecs:      fieldtype.NewRegistry(),
		askTemplate: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Collect prompts for every field of schema in order. Entries in prefill
// seed the prompt defaults. Fields are always returned in schema order.
func (c *Collector) Collect(ctx context.Context, schema model.Schema, prefill *model.FormData) (*model.FormData, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if c.driver == nil {
		return nil, ErrNoDriver
	}

	out := model.NewFormData()
	for _, field := range schema.Fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current, _ := prefill.Get(field.Key)
		entry, err := c.promptField(ctx, field, current)
		if err != nil {
			return nil, err
		}
		out.Set(field.Key, entry)
	}
	return out, nil
}

func (c *Collector) promptField(ctx context.Context, field model.FieldDefinition, current model.FormEntry) (model.FormEntry, error) {
	isTemplate := current.IsTemplate
	if c.askTemplate {
		enabled, err := c.driver.Confirm(ctx, ConfirmConfig{
			Message: c.message(fmt.Sprintf("Enable templating for %s?", field.DisplayLabel())),
			Default: current.IsTemplate,
		})
		if err != nil {
			return model.FormEntry{}, err
		}
		// switching modes starts the value over
		if enabled != current.IsTemplate {
			current.Value = ""
		}
		isTemplate = enabled
	}

	if isTemplate {
		value, err := c.driver.Input(ctx, InputConfig{
			Message: c.message(field.DisplayLabel()),
			Default: current.Value,
			Help:    templateHelp,
		})
		if err != nil {
			return model.FormEntry{}, err
		}
		return model.Template(value), nil
	}

	value, err := c.promptValue(ctx, field, current.Value)
	if err != nil {
		return model.FormEntry{}, err
	}
	return model.Static(value), nil
}

func (c *Collector) promptValue(ctx context.Context, field model.FieldDefinition, current string) (string, error) {
	label := c.message(field.DisplayLabel())
	help := field.Description

	switch c.codecs.Widget(field) {
	case fieldtype.WidgetTextArea:
		return c.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current, Help: help})
	case fieldtype.WidgetNumber:
		return c.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   current,
			Help:      help,
			Validator: c.validator(field),
		})
	case fieldtype.WidgetSwitch:
		checked, _ := strconv.ParseBool(current)
		resp, err := c.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: checked, Help: help})
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(resp), nil
	case fieldtype.WidgetSelect:
		return c.promptSelect(ctx, field, label, help, current)
	default:
		return c.driver.Input(ctx, InputConfig{Message: label, Default: current, Help: help})
	}
}

func (c *Collector) promptSelect(ctx context.Context, field model.FieldDefinition, label, help, current string) (string, error) {
	options := append([]string{NoneOption}, field.Picklist...)
	defaultIdx := 0
	if current != "" {
		if idx := indexOf(field.Picklist, current); idx >= 0 {
			defaultIdx = idx + 1
		}
	}

	for {
		idx, err := c.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         help,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(options) {
			_ = c.driver.Info(ctx, c.info(fmt.Sprintf("Invalid %s selection", field.Key)))
			continue
		}
		if idx == 0 {
			return "", nil
		}
		return options[idx], nil
	}
}

// validator accepts empty answers and anything the field's codec coerces.
func (c *Collector) validator(field model.FieldDefinition) func(string) error {
	return func(answer string) error {
		if strings.TrimSpace(answer) == "" {
			return nil
		}
		_, err := c.codecs.Coerce(field, answer)
		return err
	}
}

func (c *Collector) message(msg string) string {
	return c.theme.PromptPrefix + msg
}

func (c *Collector) info(msg string) string {
	return c.theme.InfoPrefix + msg
}

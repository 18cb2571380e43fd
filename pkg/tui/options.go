package tui

import (
	"github.com/goliatone/go-formmap/pkg/fieldtype"
)

// Theme captures optional prefixes the collector applies to prompt messages.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
}

// Option configures the Collector.
type Option func(*Collector)

// WithPromptDriver overrides the prompt driver used by the collector.
func WithPromptDriver(driver PromptDriver) Option {
	return func(c *Collector) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithCodecs validates typed answers with registry instead of the built-in
// codecs.
func WithCodecs(registry *fieldtype.Registry) Option {
	return func(c *Collector) {
		if registry != nil {
			c.codecs = registry
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(c *Collector) {
		c.theme = theme
	}
}

// WithTemplateToggle controls whether every field first asks to enable
// templating. It is on by default.
func WithTemplateToggle(enabled bool) Option {
	return func(c *Collector) {
		c.askTemplate = enabled
	}
}

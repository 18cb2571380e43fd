package loader

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/goliatone/go-formmap/pkg/schema"
)

// formatFromContentType maps a response media type onto a document format.
// Generic types such as text/plain yield "".
func formatFromContentType(header string) schema.Format {
	if header == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	switch {
	case mediaType == "application/json", strings.HasSuffix(mediaType, "+json"):
		return schema.FormatJSON
	case strings.HasSuffix(mediaType, "/yaml"),
		strings.HasSuffix(mediaType, "/x-yaml"),
		strings.HasSuffix(mediaType, "+yaml"):
		return schema.FormatYAML
	default:
		return ""
	}
}

// sniffFormat trusts a .json/.yaml/.yml extension and otherwise inspects the
// payload: JSON objects and arrays are JSON, anything else is read as YAML.
func sniffFormat(location string, data []byte) schema.Format {
	if format, ok := schema.FormatFromExtension(location); ok {
		return format
	}
	for detected := mimetype.Detect(data); detected != nil; detected = detected.Parent() {
		if detected.Is("application/json") {
			return schema.FormatJSON
		}
	}
	return schema.FormatYAML
}

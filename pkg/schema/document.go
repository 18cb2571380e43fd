package schema

import "errors"

// Document wraps a raw schema payload and its origin.
type Document struct {
	source Source
	raw    []byte
	format Format
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// WithFormat returns a copy of d that reports format instead of the one
// inferred from its location.
func (d Document) WithFormat(format Format) Document {
	d.format = format
	return d
}

// Format reports the document encoding. Loaders record it from the
// transport or payload; otherwise it is inferred from the location.
func (d Document) Format() Format {
	if d.format != "" {
		return d.format
	}
	return FormatFromLocation(d.Location())
}

// Package loader reads schema, form and OpenAPI documents from files, an
// fs.FS or HTTP. Every read is capped at the configured document size and
// the resulting document carries the format detected for it.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-formmap/pkg/schema"
)

// Loader implements schema.Loader over files, an fs.FS and HTTP.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
	limit     int64
}

var _ schema.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options schema.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := options.MaxDocumentSize
	if limit <= 0 {
		limit = schema.DefaultMaxDocumentSize
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
		limit:     limit,
	}
}

// Load reads src and wraps it in a schema.Document. A media type announced
// over HTTP wins; otherwise the format comes from the extension or payload.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("loader: source is nil")
	}

	var (
		data   []byte
		format schema.Format
		err    error
	)

	location := src.Location()
	switch src.Kind() {
	case schema.SourceKindFile:
		data, err = readFile(ctx, location, l.limit)
	case schema.SourceKindFS:
		data, err = readFromFS(ctx, l.fs, location, l.limit)
	case schema.SourceKindURL:
		if !l.allowHTTP {
			return schema.Document{}, errors.New("loader: http support disabled")
		}
		data, format, err = fetch(ctx, l.http, location, l.timeout, l.limit)
	default:
		err = errors.New("loader: unsupported source kind")
	}
	if err != nil {
		return schema.Document{}, err
	}

	doc, err := schema.NewDocument(src, data)
	if err != nil {
		return schema.Document{}, err
	}
	if format == "" {
		format = sniffFormat(location, data)
	}
	return doc.WithFormat(format), nil
}

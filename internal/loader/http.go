package loader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goliatone/go-formmap/pkg/schema"
)

const acceptDocuments = "application/json, application/yaml;q=0.9, text/yaml;q=0.8"

// fetch downloads url and reports the format named by the response
// Content-Type, if any.
func fetch(ctx context.Context, client *http.Client, url string, timeout time.Duration, limit int64) ([]byte, schema.Format, error) {
	if client == nil {
		return nil, "", errors.New("loader: http client is not configured")
	}
	if url == "" {
		return nil, "", errors.New("loader: url is required")
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Accept", acceptDocuments)

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("loader: unexpected status %s from %s", resp.Status, url)
	}
	if resp.ContentLength > limit {
		return nil, "", fmt.Errorf("%w: %s declares %d bytes, limit is %d", schema.ErrDocumentTooLarge, url, resp.ContentLength, limit)
	}

	data, err := readLimited(resp.Body, limit, url)
	if err != nil {
		return nil, "", err
	}
	return data, formatFromContentType(resp.Header.Get("Content-Type")), nil
}

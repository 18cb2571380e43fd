package loader

import (
	"fmt"
	"io"

	"github.com/goliatone/go-formmap/pkg/schema"
)

// readLimited reads r to EOF, failing once more than limit bytes arrive.
func readLimited(r io.Reader, limit int64, location string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", location, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", schema.ErrDocumentTooLarge, location, limit)
	}
	return data, nil
}

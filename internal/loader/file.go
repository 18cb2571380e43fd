package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

func readFile(ctx context.Context, path string, limit int64) ([]byte, error) {
	if path == "" {
		return nil, errors.New("loader: file path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	if info, err := file.Stat(); err == nil && info.IsDir() {
		return nil, fmt.Errorf("loader: %s is a directory", path)
	}
	return readLimited(file, limit, path)
}

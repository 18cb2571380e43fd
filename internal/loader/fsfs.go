package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

func readFromFS(ctx context.Context, filesystem fs.FS, name string, limit int64) ([]byte, error) {
	if filesystem == nil {
		return nil, errors.New("loader: filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("loader: fs path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := filesystem.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	if info, err := file.Stat(); err == nil && info.IsDir() {
		return nil, fmt.Errorf("loader: %s is a directory", name)
	}
	return readLimited(file, limit, name)
}

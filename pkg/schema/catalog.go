package schema

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-formmap/pkg/model"
)

// Catalog holds named schemas loaded from a directory tree.
type Catalog struct {
	schemas map[string]model.Schema
}

// LoadCatalog walks fsys and parses every JSON/YAML schema file. A schema is
// registered under its declared name, or its file name without extension
// when the document has none. When fsys is nil the catalog is empty.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	catalog := &Catalog{schemas: make(map[string]model.Schema)}
	if fsys == nil {
		return catalog, nil
	}

	err := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(name) {
			return nil
		}

		parsed, err := LoadFS(fsys, name)
		if err != nil {
			return err
		}

		id := strings.TrimSpace(parsed.Name)
		if id == "" {
			id = strings.TrimSuffix(path.Base(name), path.Ext(name))
			parsed.Name = id
		}
		if _, exists := catalog.schemas[id]; exists {
			return fmt.Errorf("schema: duplicate schema %q (file %s)", id, name)
		}
		catalog.schemas[id] = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// Schema returns the schema registered under name.
func (c *Catalog) Schema(name string) (model.Schema, bool) {
	if c == nil {
		return model.Schema{}, false
	}
	s, ok := c.schemas[name]
	return s, ok
}

// Names returns the registered schema names in sorted order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.schemas))
	for name := range c.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isSchemaFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

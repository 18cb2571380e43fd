package schema

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Source identifies where a schema document originated so loaders can read
// files, fs.FS entries or URLs behind one contract.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string { return s.raw }
func (s urlSource) Kind() SourceKind { return SourceKindURL }

// SourceFromURL parses raw and returns a Source. It panics if the URL is
// invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("schema: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("schema: invalid URL %q: %v", raw, err))
	}
	return urlSource{raw: raw}
}

// SourceFromLocation picks a URL source for http(s) locations and a file
// source otherwise.
func SourceFromLocation(location string) Source {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return SourceFromURL(location)
	}
	return SourceFromFile(location)
}

// Format names a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromLocation guesses the format from the file extension. Anything
// other than .yaml/.yml is treated as JSON.
func FormatFromLocation(location string) Format {
	if format, ok := FormatFromExtension(location); ok {
		return format
	}
	return FormatJSON
}

// FormatFromExtension reports the format named by the extension of a path or
// URL. ok is false when the extension names neither JSON nor YAML.
func FormatFromExtension(location string) (format Format, ok bool) {
	if u, err := url.Parse(location); err == nil && u.Scheme != "" {
		location = u.Path
	}
	switch strings.ToLower(path.Ext(filepath.ToSlash(location))) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	default:
		return "", false
	}
}

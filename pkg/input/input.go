// Package input decodes the JSON object templates are rendered against.
// Parsing is a caller concern: the builder only ever sees an already
// decoded map.
package input

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrInvalidJSON reports input that is not valid JSON.
	ErrInvalidJSON = errors.New("input: invalid JSON input")
	// ErrNotObject reports valid JSON whose top level is not an object.
	ErrNotObject = errors.New("input: JSON input must be an object")
	// ErrPathNotFound reports a selection path that matched nothing.
	ErrPathNotFound = errors.New("input: path not found")
)

// Parse decodes data into a JSON object. Blank input yields an empty map.
func Parse(data []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}
	if !gjson.ValidBytes(trimmed) {
		return nil, ErrInvalidJSON
	}
	if !gjson.ParseBytes(trimmed).IsObject() {
		return nil, ErrNotObject
	}

	var out map[string]any
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return out, nil
}

// Select evaluates a gjson path against data and decodes the matched object.
// An empty path behaves like Parse.
func Select(data []byte, path string) (map[string]any, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Parse(data)
	}
	trimmed := bytes.TrimSpace(data)
	if !gjson.ValidBytes(trimmed) {
		return nil, ErrInvalidJSON
	}

	result := gjson.GetBytes(trimmed, path)
	if !result.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	if !result.IsObject() {
		return nil, fmt.Errorf("%w (path %s)", ErrNotObject, path)
	}
	return Parse([]byte(result.Raw))
}

// Lookup returns the value at a gjson path of an already decoded object.
// It is used to preview individual paths while authoring templates.
func Lookup(data map[string]any, path string) (any, bool) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, false
	}
	result := gjson.GetBytes(payload, path)
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}

// Package helpers holds the named functions templates may call. Helpers are
// passed explicitly to template engines at construction; nothing in this
// package registers global state.
package helpers

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Map associates helper names with plain Go functions. Every function must
// take a fixed number of arguments and return exactly one value.
type Map map[string]any

// reserved names are claimed by block helpers of the template dialects.
var reserved = map[string]struct{}{
	"if":     {},
	"unless": {},
	"each":   {},
	"with":   {},
	"log":    {},
	"lookup": {},
	"equal":  {},
}

// ErrInvalidHelper is wrapped by every Validate failure.
var ErrInvalidHelper = errors.New("helpers: invalid helper")

// IsReserved reports whether name belongs to a built-in block helper.
func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}

// Validate checks every entry and reports all problems at once.
func (m Map) Validate() error {
	var problems []string
	for _, name := range m.Names() {
		if err := validateOne(name, m[name]); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidHelper, strings.Join(problems, "; "))
}

func validateOne(name string, fn any) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("empty helper name")
	}
	if IsReserved(name) {
		return fmt.Errorf("%q is a reserved block helper", name)
	}
	if fn == nil {
		return fmt.Errorf("%q is nil", name)
	}
	fnType := reflect.TypeOf(fn)
	if fnType.Kind() != reflect.Func {
		return fmt.Errorf("%q is a %s, not a function", name, fnType.Kind())
	}
	if fnType.IsVariadic() {
		return fmt.Errorf("%q must not be variadic", name)
	}
	if fnType.NumOut() != 1 {
		return fmt.Errorf("%q must return exactly one value", name)
	}
	return nil
}

// Names returns the helper names in sorted order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a shallow copy so callers can keep mutating their own map.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for name, fn := range m {
		out[name] = fn
	}
	return out
}

// Merge combines maps; later maps win on name collisions.
func Merge(maps ...Map) Map {
	out := Map{}
	for _, m := range maps {
		for name, fn := range m {
			out[name] = fn
		}
	}
	return out
}

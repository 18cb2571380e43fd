package helpers

import (
	"fmt"

	"github.com/Masterminds/sprig/v3"
)

// Sprig returns sprig's string helpers whose signature is
// func(string) string. With no names every compatible helper is returned;
// otherwise each name must exist and be compatible.
func Sprig(names ...string) (Map, error) {
	catalogue := sprig.GenericFuncMap()
	out := Map{}
	if len(names) == 0 {
		for name, fn := range catalogue {
			if _, ok := fn.(func(string) string); ok && !IsReserved(name) {
				out[name] = fn
			}
		}
		return out, nil
	}

	for _, name := range names {
		fn, ok := catalogue[name]
		if !ok {
			return nil, fmt.Errorf("helpers: unknown sprig function %q", name)
		}
		if _, ok := fn.(func(string) string); !ok {
			return nil, fmt.Errorf("helpers: sprig function %q is not a string helper", name)
		}
		out[name] = fn
	}
	return out, nil
}

// SprigNames lists the compatible sprig helpers in sorted order.
func SprigNames() []string {
	m, _ := Sprig()
	return m.Names()
}

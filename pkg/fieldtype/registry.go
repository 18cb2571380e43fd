package fieldtype

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-formmap/pkg/model"
)

// Registry resolves codecs by field type. The default registry carries one
// codec per built-in type; Register replaces an existing entry.
type Registry struct {
	mu     sync.RWMutex
	codecs map[model.FieldType]Codec
}

// NewRegistry constructs a registry with the built-in codecs registered.
func NewRegistry() *Registry {
	reg := &Registry{codecs: make(map[model.FieldType]Codec)}
	reg.registerBuiltins()
	return reg
}

func (r *Registry) registerBuiltins() {
	for _, codec := range []Codec{Text(), TextArea(), Float(), YesOrNo(), Picklist()} {
		r.codecs[codec.Type()] = codec
	}
}

// Register adds or replaces the codec for its type.
func (r *Registry) Register(codec Codec) {
	if r == nil || codec == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.codecs == nil {
		r.codecs = make(map[model.FieldType]Codec)
	}
	r.codecs[codec.Type()] = codec
}

// Resolve returns the codec registered for kind.
func (r *Registry) Resolve(kind model.FieldType) (Codec, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	codec, ok := r.codecs[kind]
	return codec, ok
}

// Coerce looks up the codec for field.Type and coerces raw with it.
func (r *Registry) Coerce(field model.FieldDefinition, raw string) (any, error) {
	codec, ok := r.Resolve(field.Type)
	if !ok {
		return nil, fmt.Errorf("fieldtype: no codec registered for %q", field.Type)
	}
	return codec.Coerce(field, raw)
}

// Widget returns the widget name for field, falling back to WidgetInput.
func (r *Registry) Widget(field model.FieldDefinition) string {
	if codec, ok := r.Resolve(field.Type); ok {
		return codec.Widget()
	}
	return WidgetInput
}

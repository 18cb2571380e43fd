package fieldtype

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-formmap/pkg/model"
)

// Widget identifiers advertised by the built-in codecs.
const (
	WidgetInput    = "input"
	WidgetTextArea = "textarea"
	WidgetNumber   = "number"
	WidgetSwitch   = "switch"
	WidgetSelect   = "select"
)

// ErrTypeMismatch reports a resolved value that does not satisfy the declared
// field type.
var ErrTypeMismatch = errors.New("fieldtype: type mismatch")

// MismatchError carries the offending value and a human readable reason.
type MismatchError struct {
	Type   model.FieldType
	Value  string
	Reason string
}

func (e *MismatchError) Error() string {
	return e.Reason
}

// Unwrap lets callers match the error with errors.Is(err, ErrTypeMismatch).
func (e *MismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// Codec is the per-variant strategy used to coerce resolved strings.
type Codec interface {
	// Type returns the field type handled by the codec.
	Type() model.FieldType
	// Coerce converts raw into the typed output value. Empty input yields the
	// codec's zero value.
	Coerce(field model.FieldDefinition, raw string) (any, error)
	// Zero returns the value used when a field is not provided.
	Zero() any
	// Widget names the input control suited to the type.
	Widget() string
}

type textCodec struct {
	kind   model.FieldType
	widget string
}

func (c textCodec) Type() model.FieldType { return c.kind }
func (c textCodec) Zero() any             { return "" }
func (c textCodec) Widget() string        { return c.widget }

func (c textCodec) Coerce(field model.FieldDefinition, raw string) (any, error) {
	return Sanitize(field.Sanitize, raw), nil
}

type floatCodec struct{}

// decimalNumber is plain decimal notation: sign, digits, optional fraction
// and exponent. Go literal forms such as 0x1p4 and 1_000 do not match.
var decimalNumber = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

func (floatCodec) Type() model.FieldType { return model.FieldTypeFloat }
func (floatCodec) Zero() any             { return float64(0) }
func (floatCodec) Widget() string        { return WidgetNumber }

func (floatCodec) Coerce(_ model.FieldDefinition, raw string) (any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return float64(0), nil
	}
	var (
		value float64
		err   error
	)
	if !decimalNumber.MatchString(trimmed) {
		err = strconv.ErrSyntax
	} else {
		value, err = strconv.ParseFloat(trimmed, 64)
	}
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, &MismatchError{
			Type:   model.FieldTypeFloat,
			Value:  raw,
			Reason: fmt.Sprintf("expected number, received %q", raw),
		}
	}
	return value, nil
}

type yesOrNoCodec struct{}

func (yesOrNoCodec) Type() model.FieldType { return model.FieldTypeYesOrNo }
func (yesOrNoCodec) Zero() any             { return false }
func (yesOrNoCodec) Widget() string        { return WidgetSwitch }

func (yesOrNoCodec) Coerce(_ model.FieldDefinition, raw string) (any, error) {
	switch raw {
	case "":
		return false, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return nil, &MismatchError{
			Type:   model.FieldTypeYesOrNo,
			Value:  raw,
			Reason: fmt.Sprintf("expected boolean, received %q", raw),
		}
	}
}

type picklistCodec struct{}

func (picklistCodec) Type() model.FieldType { return model.FieldTypePicklist }
func (picklistCodec) Zero() any             { return "" }
func (picklistCodec) Widget() string        { return WidgetSelect }

func (picklistCodec) Coerce(field model.FieldDefinition, raw string) (any, error) {
	if raw == "" || field.Allows(raw) {
		return raw, nil
	}
	return nil, &MismatchError{
		Type:  model.FieldTypePicklist,
		Value: raw,
		Reason: fmt.Sprintf("invalid option %q, expected one of %s",
			raw, quoteAll(field.Picklist)),
	}
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for idx, value := range values {
		quoted[idx] = strconv.Quote(value)
	}
	return strings.Join(quoted, " | ")
}

// Text returns the codec for TEXT fields.
func Text() Codec { return textCodec{kind: model.FieldTypeText, widget: WidgetInput} }

// TextArea returns the codec for TEXTAREA fields.
func TextArea() Codec { return textCodec{kind: model.FieldTypeTextArea, widget: WidgetTextArea} }

// Float returns the codec for FLOAT fields.
func Float() Codec { return floatCodec{} }

// YesOrNo returns the codec for YESORNO fields.
func YesOrNo() Codec { return yesOrNoCodec{} }

// Picklist returns the codec for PICKLIST fields.
func Picklist() Codec { return picklistCodec{} }

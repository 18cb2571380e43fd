package helpers

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Builtins returns the default helper catalogue: arithmetic, comparison,
// boolean logic and a handful of string utilities.
func Builtins() Map {
	return Map{
		"add":       add,
		"subtract":  subtract,
		"multiply":  multiply,
		"divide":    divide,
		"gt":        gt,
		"gte":       gte,
		"lt":        lt,
		"lte":       lte,
		"eq":        eq,
		"ne":        ne,
		"and":       and,
		"or":        or,
		"not":       not,
		"default":   defaultValue,
		"uppercase": uppercase,
		"lowercase": lowercase,
		"trim":      trim,
		"contains":  contains,
		"join":      join,
		"len":       length,
		"json":      toJSON,
	}
}

func add(a, b any) float64 {
	return toFloat(a) + toFloat(b)
}

func subtract(a, b any) float64 {
	return toFloat(a) - toFloat(b)
}

func multiply(a, b any) float64 {
	return toFloat(a) * toFloat(b)
}

// divide yields 0 when the divisor is zero.
func divide(a, b any) float64 {
	divisor := toFloat(b)
	if divisor == 0 {
		return 0
	}
	return toFloat(a) / divisor
}

func gt(a, b any) bool  { return compare(a, b) > 0 }
func gte(a, b any) bool { return compare(a, b) >= 0 }
func lt(a, b any) bool  { return compare(a, b) < 0 }
func lte(a, b any) bool { return compare(a, b) <= 0 }

func eq(a, b any) bool {
	if left, ok := coerceNumber(a); ok {
		if right, ok := coerceNumber(b); ok {
			return left == right
		}
	}
	if left, ok := a.(bool); ok {
		if right, ok := b.(bool); ok {
			return left == right
		}
	}
	return toString(a) == toString(b)
}

func ne(a, b any) bool { return !eq(a, b) }

func and(a, b any) bool { return truthy(a) && truthy(b) }
func or(a, b any) bool  { return truthy(a) || truthy(b) }
func not(a any) bool    { return !truthy(a) }

func defaultValue(value, fallback any) any {
	if truthy(value) {
		return value
	}
	return fallback
}

func uppercase(value any) string { return strings.ToUpper(toString(value)) }
func lowercase(value any) string { return strings.ToLower(toString(value)) }
func trim(value any) string      { return strings.TrimSpace(toString(value)) }

// contains checks substrings for strings and membership for lists.
func contains(haystack, needle any) bool {
	if items, ok := toList(haystack); ok {
		for _, item := range items {
			if eq(item, needle) {
				return true
			}
		}
		return false
	}
	return strings.Contains(toString(haystack), toString(needle))
}

func join(list any, separator any) string {
	items, ok := toList(list)
	if !ok {
		return toString(list)
	}
	parts := make([]string, len(items))
	for idx, item := range items {
		parts[idx] = toString(item)
	}
	return strings.Join(parts, toString(separator))
}

func length(value any) int {
	if value == nil {
		return 0
	}
	if s, ok := value.(string); ok {
		return len([]rune(s))
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
		return rv.Len()
	default:
		return 0
	}
}

func toJSON(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(data)
}

package util

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidationError represents parameter validation errors with detailed information.
type ValidationError struct {
	Field   string `json:"field"`   // Field that failed validation
	Value   any    `json:"value"`   // Value that was provided
	Message string `json:"message"` // Human-readable error message
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// TypeHints derives a field-name to type-hint map from a Go struct using
// reflection. Agents use it to declare capability input/output schemas from
// the same types their handlers decode, so docs never drift from code.
func TypeHints(structType any) map[string]string {
	t := reflect.TypeOf(structType)
	if t == nil {
		return map[string]string{}
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return map[string]string{}
	}

	hints := make(map[string]string)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		fieldName := field.Name
		if jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" {
				fieldName = parts[0]
			}
		}

		hints[fieldName] = typeHint(field.Type)
	}
	return hints
}

// typeHint maps a Go type onto the hint vocabulary used by capability schemas.
func typeHint(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array<" + typeHint(t.Elem()) + ">"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Ptr:
		return typeHint(t.Elem())
	default:
		return "any"
	}
}

// ValidateRequired checks that every named field is present and non-empty in
// the input map, returning the first violation.
func ValidateRequired(input map[string]any, fields ...string) error {
	for _, f := range fields {
		v, ok := input[f]
		if !ok || v == nil || v == "" {
			return &ValidationError{Field: f, Value: v, Message: "required field missing"}
		}
	}
	return nil
}

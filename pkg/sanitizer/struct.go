package sanitizer

import (
	"errors"
	"reflect"
)

// ErrNotStructPointer is returned when SanitizeStruct receives anything
// other than a non-nil pointer to a struct.
var ErrNotStructPointer = errors.New("sanitizer: expected a non-nil pointer to a struct")

// SanitizeStruct sanitizes string fields in place according to their
// `sanitize` struct tag. Supported tag values are "html" (safe formatting
// kept) and "strip" (all markup removed). Nested structs are walked
// recursively; unexported fields are skipped.
func SanitizeStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotStructPointer
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return ErrNotStructPointer
	}
	sanitizeStructValue(rv)
	return nil
}

func sanitizeStructValue(rv reflect.Value) {
	rt := rv.Type()
	for i := range rt.NumField() {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		fv := rv.Field(i)
		switch fv.Kind() {
		case reflect.String:
			switch field.Tag.Get("sanitize") {
			case "html":
				fv.SetString(SanitizeHTML(fv.String()))
			case "strip":
				fv.SetString(StripHTML(fv.String()))
			}
		case reflect.Struct:
			sanitizeStructValue(fv)
		case reflect.Pointer:
			if !fv.IsNil() && fv.Elem().Kind() == reflect.Struct {
				sanitizeStructValue(fv.Elem())
			}
		}
	}
}

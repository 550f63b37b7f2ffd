package client

import (
	"encoding"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
)

// Modeler is implemented by values that convert themselves to a plain JSON
// compatible value (maps, slices and scalars) before being sent in a JSON
// body.
type Modeler interface {
	ToModel() (any, error)
}

// FieldMarshaler is implemented by values that render themselves as a form
// field.
type FieldMarshaler interface {
	MarshalField() (string, error)
}

// normalizeJSON converts the JSON body fields in place.
func normalizeJSON(fields map[string]any) error {
	for name, v := range fields {
		nv, err := jsonValue(v)
		if err != nil {
			return &SerializationError{Body: "json", Field: name, Cause: err}
		}
		fields[name] = nv
	}
	return nil
}

func jsonValue(v any) (any, error) {
	switch tv := v.(type) {
	case nil, bool, string, float32, float64,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		json.Number, map[string]any, []any:
		return v, nil
	case Modeler:
		return tv.ToModel()
	case json.Marshaler:
		return toModel(v)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		return toModel(rv.Interface())
	case reflect.Map, reflect.Slice, reflect.Array,
		reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if _, err := json.Marshal(v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}

// toModel converts any JSON encodable value to its generic decoded form.
func toModel(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var model any
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, err
	}
	return model, nil
}

// normalizeForm converts the form body fields in place. Uploads are kept
// as is.
func normalizeForm(fields map[string]any) error {
	for name, v := range fields {
		nv, err := formValue(v)
		if err != nil {
			return &SerializationError{Body: "form", Field: name, Cause: err}
		}
		fields[name] = nv
	}
	return nil
}

func formValue(v any) (any, error) {
	switch tv := v.(type) {
	case nil:
		return "null", nil
	case File, *File, io.Reader:
		return v, nil
	case []byte:
		return string(tv), nil
	case string, bool, float32, float64,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v, nil
	case FieldMarshaler:
		return tv.MarshalField()
	case json.Marshaler:
		data, err := tv.MarshalJSON()
		return string(data), err
	case encoding.TextMarshaler:
		data, err := tv.MarshalText()
		return string(data), err
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprint(v), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}

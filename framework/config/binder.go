package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Bind populates target (a pointer to struct) from the environment subtree
// under prefix. Field keys come from the `config` tag, the `yaml` tag, or
// the lower-cased field name; nested structs bind nested subtrees. Values
// absent from the environment fall back to the `default` tag. After
// population the struct is checked against its `validate` tags.
//
//	// Spring: @ConfigurationProperties(prefix = "...") binding
func Bind(env *Environment, prefix string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: bind target must be a non-nil pointer to struct, got %T", target)
	}
	if err := bindStruct(env, prefix, rv.Elem()); err != nil {
		return err
	}
	if err := validate.Struct(target); err != nil {
		return fmt.Errorf("config: properties %q: %w", prefix, err)
	}
	return nil
}

func bindStruct(env *Environment, prefix string, v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		key := fieldKey(field)
		if key == "-" {
			continue
		}
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}

		fv := v.Field(i)
		if fv.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := bindStruct(env, full, fv); err != nil {
				return err
			}
			continue
		}

		val, ok := env.Get(full)
		if !ok {
			def, has := field.Tag.Lookup("default")
			if !has {
				continue
			}
			val = ValueOf(def)
		}
		if err := setField(fv, field, val, full); err != nil {
			return err
		}
	}
	return nil
}

func fieldKey(field reflect.StructField) string {
	for _, tag := range []string{"config", "yaml"} {
		if v, ok := field.Tag.Lookup(tag); ok {
			name, _, _ := strings.Cut(v, ",")
			if name != "" {
				return name
			}
		}
	}
	return strings.ToLower(field.Name)
}

func setField(fv reflect.Value, field reflect.StructField, val Value, key string) error {
	if field.Type == reflect.TypeOf(time.Duration(0)) {
		s, ok := val.String()
		if !ok {
			return coercionError(key, field)
		}
		d, err := time.ParseDuration(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("config: key %q: %w", key, err)
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		s, ok := val.String()
		if !ok {
			return coercionError(key, field)
		}
		fv.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := val.Int64()
		if !ok {
			return coercionError(key, field)
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := val.Int64()
		if !ok || n < 0 {
			return coercionError(key, field)
		}
		fv.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		f, ok := val.Float64()
		if !ok {
			return coercionError(key, field)
		}
		fv.SetFloat(f)
	case reflect.Bool:
		b, ok := val.Bool()
		if !ok {
			return coercionError(key, field)
		}
		fv.SetBool(b)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return coercionError(key, field)
		}
		items, ok := val.StringSlice()
		if !ok {
			return coercionError(key, field)
		}
		fv.Set(reflect.ValueOf(items))
	default:
		return coercionError(key, field)
	}
	return nil
}

func coercionError(key string, field reflect.StructField) error {
	return fmt.Errorf("config: key %q: cannot bind value to field %s (%s)", key, field.Name, field.Type)
}

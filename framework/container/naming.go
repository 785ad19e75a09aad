package container

import (
	"reflect"
	"unicode"
	"unicode/utf8"
)

// DefaultBeanName derives the canonical bean name from a type: the short
// type name with its first code point lower-cased.
//
//	DefaultBeanName[*UserService]()            // "userService"
//	DefaultBeanName[*DatabaseConnectionPool]() // "databaseConnectionPool"
//
//	// Spring: @Component on UserService registers bean "userService"
func DefaultBeanName[T any]() string {
	return beanNameForType(reflect.TypeOf((*T)(nil)).Elem())
}

func beanNameForType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return decapitalize(t.Name())
}

func decapitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

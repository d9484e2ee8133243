// Package assert panics on wiring mistakes, it is only called from
// constructors where a bad argument means the program cannot work.
package assert

import (
	"fmt"
	"reflect"
)

// NotNil panics when value is nil, including a nil pointer, map or func held
// in an interface.
func NotNil(value any) {
	if value == nil {
		panic("assert: unexpected nil value")
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan:
		if v.IsNil() {
			panic(fmt.Sprintf("assert: unexpected nil %s", v.Type()))
		}
	}
}

func NotEmptyStr(str string) {
	if str == "" {
		panic("assert: unexpected empty string")
	}
}

func Positive(n int) {
	if n <= 0 {
		panic(fmt.Sprintf("assert: expected a positive number, got %d", n))
	}
}

package harness

import (
	"reflect"
	"strings"
)

// Describe lists the exported methods of v, sorted by name.
func Describe(v any) string {
	if v == nil {
		return "[]"
	}

	t := reflect.TypeOf(v)
	names := make([]string, 0, t.NumMethod())
	for i := range t.NumMethod() {
		names = append(names, t.Method(i).Name)
	}
	return "[" + strings.Join(names, " ") + "]"
}

package config

import (
	"maps"
	"slices"
	"strings"
)

// Values is the raw key/value view of a loaded TOML document. Tables are
// map[string]any and arrays are []any, as decoded by go-toml.
type Values map[string]any

// Lookup resolves a dotted key such as "server.port".
func (v Values) Lookup(key string) (any, bool) {
	var cur any = map[string]any(v)
	for _, part := range strings.Split(key, ".") {
		table, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = table[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Keys returns the top-level keys in sorted order.
func (v Values) Keys() []string {
	return slices.Sorted(maps.Keys(v))
}

func (v Values) clone() Values {
	if v == nil {
		return Values{}
	}
	return Values(cloneTable(v))
}

func cloneTable(t map[string]any) map[string]any {
	out := make(map[string]any, len(t))
	for k, val := range t {
		out[k] = cloneValue(val)
	}
	return out
}

func cloneValue(val any) any {
	switch typed := val.(type) {
	case map[string]any:
		return cloneTable(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}

package mongo

import (
	"fmt"
	"reflect"
	"strings"
)

// SanitizeKeys returns a copy of m in which every "." in a key is replaced
// by "-", recursing into nested mappings. Any Go map counts as a mapping,
// whatever its key and value types; nested ones come back as
// map[string]any. Values other than mappings, including lists, are kept as
// they are. SanitizeKeys is idempotent.
func SanitizeKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if sub, ok := asMapping(v); ok {
			v = SanitizeKeys(sub)
		}
		out[strings.ReplaceAll(k, ".", "-")] = v
	}
	return out
}

// asMapping normalizes any map value (map[string]any, bson.M,
// map[string]string, map[any]any as produced by YAML decoders, ...) to
// map[string]any. Keys that are not strings are formatted with fmt.Sprint.
func asMapping(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.IsNil() {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[mapKey(iter.Key())] = iter.Value().Interface()
	}
	return out, true
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

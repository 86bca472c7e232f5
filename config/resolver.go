package config

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Settings maps a setting name to its resolved value. Absent settings map to nil.
type Settings map[string]any

// String returns the named setting formatted as a string, or "" when absent.
func (s Settings) String(name string) string {
	v := s[name]
	if v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}

// Resolver resolves the settings of one returner. Namespace is the
// returner's config prefix ("mongo", "xmpp").
type Resolver struct {
	Source    Source
	Namespace string
}

// NewResolver creates a resolver over src for namespace.
func NewResolver(src Source, namespace string) *Resolver {
	return &Resolver{Source: src, Namespace: namespace}
}

// Lookup resolves a single config key. When alt names an alternate
// namespace the order is:
//
//	<alt>.<ns>: {key: v}   mapping under the alternate namespace
//	<alt>.<ns>.<key>: v    flat key under the alternate namespace
//	<ns>: {key: v}         mapping under the primary namespace
//	<ns>.<key>: v          flat key under the primary namespace
//
// Inside one namespace the mapping entry shadows the flat key whenever the
// entry exists, even if it is empty. An empty alternate value falls through
// to the primary namespace; an empty final value resolves to nil.
func (r *Resolver) Lookup(key, alt string) any {
	if alt != "" {
		if v := r.lookupIn(alt+"."+r.Namespace, key); !IsEmpty(v) {
			return v
		}
	}
	v := r.lookupIn(r.Namespace, key)
	if IsEmpty(v) {
		return nil
	}
	return v
}

func (r *Resolver) lookupIn(ns, key string) any {
	if r.Source == nil {
		return nil
	}
	if m, ok := asMap(r.Source.Get(ns)); ok {
		if v, found := m[key]; found {
			return v
		}
	}
	return r.Source.Get(ns + "." + key)
}

// Resolve resolves every entry of attrs (setting name -> config key) and
// returns the result keyed by setting name.
func (r *Resolver) Resolve(attrs map[string]string, alt string) Settings {
	out := make(Settings, len(attrs))
	for name, key := range attrs {
		out[name] = r.Lookup(key, alt)
	}
	return out
}

// LookupMap reads a whole top-level mapping, such as a credentials
// profile, from src.
func LookupMap(src Source, key string) (map[string]any, bool) {
	if src == nil || key == "" {
		return nil, false
	}
	return asMap(src.Get(key))
}

// IsEmpty reports whether v counts as "not configured": nil, the zero
// value of a scalar, or an empty string, slice or mapping.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return rv.IsZero()
	}
}

// Decode copies settings into a typed struct using mapstructure tags.
// Input is weakly typed: "27017" decodes into an int, "5s" into a duration.
// A bare number given for a duration counts seconds, so "timeout: 10" is 10s.
func Decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		DecodeHook:       DecodeHook(),
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}
	return nil
}

// DecodeHook is the hook chain used by Decode and LoadConfig: numbers and
// duration strings decode into time.Duration, comma lists into slices.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.DecodeHookFuncType(secondsToDurationHook),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

var durationType = reflect.TypeOf(time.Duration(0))

// secondsToDurationHook reads numbers, and strings holding only a number,
// as seconds when the target is a time.Duration.
func secondsToDurationHook(from, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	var seconds float64
	switch v := reflect.ValueOf(data); from.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if from == durationType {
			return data, nil
		}
		seconds = float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		seconds = float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		seconds = v.Float()
	case reflect.String:
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return data, nil
		}
		seconds = f
	default:
		return data, nil
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

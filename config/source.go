package config

import (
	"fmt"
	"strings"

	"dario.cat/mergo"
	"github.com/spf13/viper"
)

// Source is a read-only view over the agent's options. Get returns nil when
// the key is absent. Keys use "." both as a namespace separator inside a
// literal key ("alternative.mongo") and as a nesting separator.
type Source interface {
	Get(key string) any
}

// ViperSource adapts a *viper.Viper.
type ViperSource struct {
	v *viper.Viper
}

// NewViperSource wraps v.
func NewViperSource(v *viper.Viper) *ViperSource {
	return &ViperSource{v: v}
}

// Get returns the value stored under key.
func (s *ViperSource) Get(key string) any {
	if !s.v.IsSet(key) {
		return nil
	}
	return s.v.Get(key)
}

// Viper returns the underlying viper instance.
func (s *ViperSource) Viper() *viper.Viper { return s.v }

// MapSource serves an options map shaped like the agent's in-memory opts:
// flat dotted keys and nested mappings may be mixed freely.
type MapSource struct {
	opts map[string]any
}

// NewMapSource merges the given layers into one options map. Earlier layers
// win; nested mappings are merged key by key.
func NewMapSource(layers ...map[string]any) (*MapSource, error) {
	merged := make(map[string]any)
	for i, layer := range layers {
		if err := mergo.Merge(&merged, copyMap(layer)); err != nil {
			return nil, fmt.Errorf("merge options layer %d: %w", i, err)
		}
	}
	return &MapSource{opts: merged}, nil
}

// Get looks up key verbatim first, then walks nested mappings segment by
// segment, trying the longest literal prefix at every level.
func (s *MapSource) Get(key string) any {
	if v, ok := s.opts[key]; ok {
		return v
	}
	return walk(s.opts, strings.Split(key, "."))
}

func walk(m map[string]any, parts []string) any {
	for i := len(parts); i >= 1; i-- {
		head := strings.Join(parts[:i], ".")
		v, ok := m[head]
		if !ok {
			continue
		}
		if i == len(parts) {
			return v
		}
		if sub, ok := asMap(v); ok {
			if found := walk(sub, parts[i:]); found != nil {
				return found
			}
		}
	}
	return nil
}

// Layered consults its sources in order; the first non-nil value wins.
// It mirrors the agent's lookup chain of minion opts, pillar, master opts.
type Layered []Source

// Get returns the first non-nil value for key.
func (l Layered) Get(key string) any {
	for _, src := range l {
		if src == nil {
			continue
		}
		if v := src.Get(key); v != nil {
			return v
		}
	}
	return nil
}

// copyMap deep-copies nested mappings so merging never mutates caller input.
func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if sub, ok := asMap(v); ok {
			out[k] = copyMap(sub)
			continue
		}
		out[k] = v
	}
	return out
}

// asMap normalizes the mapping types produced by YAML and JSON decoders.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, true
	default:
		return nil, false
	}
}

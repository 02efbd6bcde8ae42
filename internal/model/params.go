package model

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// ParameterSet is a resolved name→value mapping for one simulation run.
// Values are float64 or string; numeric inputs are normalised on the way in.
type ParameterSet map[string]any

// Float returns the numeric value for name, or def when absent or non-numeric.
func (p ParameterSet) Float(name string, def float64) float64 {
	if v, ok := p[name]; ok && v != nil {
		if f, ok := toFloat(v); ok {
			return f
		}
	}
	return def
}

// String returns the string value for name, or def when absent or empty.
func (p ParameterSet) String(name string, def string) string {
	if v, ok := p[name]; ok && v != nil {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return def
}

// Has reports whether name is set.
func (p ParameterSet) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Clone returns a shallow copy of p.
func (p ParameterSet) Clone() ParameterSet {
	out := make(ParameterSet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Names returns parameter names in sorted order.
func (p ParameterSet) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Canonical serialises the set as sorted "name=value;" pairs. Two sets with
// the same contents always produce the same string regardless of map order.
func (p ParameterSet) Canonical() string {
	var b strings.Builder
	for _, name := range p.Names() {
		b.WriteString(name)
		b.WriteByte('=')
		switch v := p[name].(type) {
		case string:
			b.WriteString(strconv.Quote(v))
		default:
			if f, ok := toFloat(v); ok {
				b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
			} else {
				b.WriteString("null")
			}
		}
		b.WriteByte(';')
	}
	return b.String()
}

// Normalize converts numeric values to float64 and drops unsupported kinds.
func Normalize(in map[string]any) ParameterSet {
	out := make(ParameterSet, len(in))
	for k, v := range in {
		if nv, ok := normalizeValue(v); ok {
			out[k] = nv
		}
	}
	return out
}

// Resolve overlays overrides onto defaults. Only keys present in defaults are
// taken, and only when the override has the same kind (numeric or string) as
// the default. Skipped keys are returned sorted.
func Resolve(defaults ParameterSet, overrides map[string]any) (ParameterSet, []string) {
	out := defaults.Clone()
	var ignored []string
	for k, v := range overrides {
		def, known := defaults[k]
		if !known {
			ignored = append(ignored, k)
			continue
		}
		nv, ok := normalizeValue(v)
		if !ok || !sameKind(def, nv) {
			ignored = append(ignored, k)
			continue
		}
		out[k] = nv
	}
	sort.Strings(ignored)
	return out, ignored
}

func sameKind(a, b any) bool {
	_, aStr := a.(string)
	_, bStr := b.(string)
	return aStr == bStr
}

func normalizeValue(v any) (any, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	if f, ok := toFloat(v); ok {
		return f, true
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

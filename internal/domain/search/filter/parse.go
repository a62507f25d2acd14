package filter

import (
	"encoding/json"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/kailas-cloud/discovery/internal/domain"
)

const filtersField = "filters"

// ParseFilters decodes client filters given as a JSON string or an already structured map.
// Empty input yields an empty map; malformed JSON is a validation error.
func ParseFilters(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case string:
		return decodeObject([]byte(v))
	case []byte:
		return decodeObject(v)
	case map[string]any:
		return maps.Clone(v), nil
	case map[string][]string:
		out := make(map[string]any, len(v))
		for k, vals := range v {
			list := make([]any, len(vals))
			for i, s := range vals {
				list[i] = s
			}
			out[k] = list
		}
		return out, nil
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, nil
	}
	return nil, domain.NewValidationError(filtersField, "unsupported type %T", raw)
}

func decodeObject(data []byte) (map[string]any, error) {
	if strings.TrimSpace(string(data)) == "" {
		return map[string]any{}, nil
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, domain.NewValidationError(filtersField, "malformed JSON: %v", err)
	}
	switch v := decoded.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	}
	return nil, domain.NewValidationError(filtersField, "expected a JSON object")
}

// NormalizeClientFilters coalesces client aliases into canonical keys.
// Unknown keys and values of the wrong shape are dropped, never reported.
func NormalizeClientFilters(raw map[string]any) Set {
	var s Set
	rawKeys := slices.Sorted(maps.Keys(raw))
	for _, rawKey := range rawKeys {
		k, ok := Resolve(rawKey)
		if !ok {
			continue
		}
		val := raw[rawKey]
		switch k.kind() {
		case kindList:
			s.addList(k, rawKey, val)
		case kindBool:
			if b, ok := toBool(val); ok {
				s.remote = &b
			}
		case kindNumber:
			if f, ok := toNumber(val); ok {
				if k == BudgetValueMin {
					s.budgetMin = &f
				} else {
					s.budgetMax = &f
				}
			}
		case kindWindow:
			for _, v := range toStrings(val) {
				if _, ok := Window(v); ok {
					s.setList(k, []string{strings.ToLower(strings.TrimSpace(v))})
					break
				}
			}
		}
	}
	return s
}

func (s *Set) addList(k Key, rawKey string, val any) {
	existing := s.lists[k]
	for _, v := range toStrings(val) {
		v = foldValue(k, rawKey, strings.TrimSpace(v))
		if v == "" || slices.Contains(existing, v) {
			continue
		}
		if len(existing) >= MaxValuesPerKey {
			break
		}
		existing = append(existing, v)
	}
	s.setList(k, existing)
}

// toStrings flattens a scalar or list into strings, skipping nested structures.
func toStrings(val any) []string {
	switch v := val.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := scalarString(item); ok {
				out = append(out, s)
			}
		}
		return out
	}
	if s, ok := scalarString(val); ok {
		return []string{s}
	}
	return nil
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		if !isFinite(t) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case json.Number:
		return t.String(), true
	}
	return "", false
}

// toBool accepts true/"true"/"1" and false/"false"/"0"; anything else is dropped.
func toBool(val any) (bool, bool) {
	if list, ok := val.([]any); ok && len(list) == 1 {
		val = list[0]
	}
	if list, ok := val.([]string); ok && len(list) == 1 {
		val = list[0]
	}
	switch v := val.(type) {
	case bool:
		return v, true
	case float64:
		if v == 1 {
			return true, true
		}
		if v == 0 {
			return false, true
		}
	case int:
		if v == 1 {
			return true, true
		}
		if v == 0 {
			return false, true
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	return false, false
}

func toNumber(val any) (float64, bool) {
	if list, ok := val.([]any); ok && len(list) == 1 {
		val = list[0]
	}
	if list, ok := val.([]string); ok && len(list) == 1 {
		val = list[0]
	}
	var f float64
	switch v := val.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	return f, isFinite(f)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

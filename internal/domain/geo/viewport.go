package geo

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/kailas-cloud/discovery/internal/domain"
)

const viewportField = "viewport"

// NormalizeViewport parses a client viewport given as a JSON string or a decoded object.
// The bounds may sit at the top level or under "boundingBox".
// A missing viewport yields nil without error; partial or non-numeric bounds are rejected.
func NormalizeViewport(raw any) (*BoundingBox, error) {
	var obj map[string]any
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		if err := json.Unmarshal([]byte(v), &obj); err != nil {
			return nil, domain.NewValidationError(viewportField, "malformed JSON: %v", err)
		}
	case []byte:
		if len(strings.TrimSpace(string(v))) == 0 {
			return nil, nil
		}
		if err := json.Unmarshal(v, &obj); err != nil {
			return nil, domain.NewValidationError(viewportField, "malformed JSON: %v", err)
		}
	case map[string]any:
		obj = v
	case BoundingBox:
		return checkBox(v)
	case *BoundingBox:
		if v == nil {
			return nil, nil
		}
		return checkBox(*v)
	default:
		return nil, domain.NewValidationError(viewportField, "unsupported type %T", raw)
	}
	if obj == nil {
		return nil, domain.NewValidationError(viewportField, "expected an object")
	}

	if nested, ok := obj["boundingBox"].(map[string]any); ok {
		obj = nested
	}

	var box BoundingBox
	bounds := []struct {
		name string
		dst  *float64
	}{
		{"north", &box.North},
		{"south", &box.South},
		{"east", &box.East},
		{"west", &box.West},
	}
	for _, b := range bounds {
		f, ok := toFinite(obj[b.name])
		if !ok {
			return nil, domain.NewValidationError(viewportField, "%s must be a finite number", b.name)
		}
		*b.dst = f
	}
	return &box, nil
}

func checkBox(b BoundingBox) (*BoundingBox, error) {
	for name, f := range map[string]float64{"north": b.North, "south": b.South, "east": b.East, "west": b.West} {
		if !IsFinite(f) {
			return nil, domain.NewValidationError(viewportField, "%s must be a finite number", name)
		}
	}
	return &b, nil
}

func toFinite(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	return f, IsFinite(f)
}

package homework

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrMalformedResponse     = errors.New("unexpected response type")
	ErrMalformedHomeworkList = errors.New("unexpected homeworks type")
	ErrMissingField          = errors.New("homework record lacks required fields")
	ErrUnknownStatus         = errors.New("unknown homework status")
)

// CheckResponse verifies the shape of a decoded API payload and returns its
// homeworks array unchanged. An empty array is a valid result.
func CheckResponse(payload any) ([]any, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, jsonType(payload))
	}
	raw, present := obj["homeworks"]
	if !present {
		return nil, fmt.Errorf("%w: missing", ErrMalformedHomeworkList)
	}
	homeworks, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMalformedHomeworkList, jsonType(raw))
	}
	return homeworks, nil
}

// Newest selects the most recent record of a batch. The API orders records
// most-recent-first, so only element 0 is ever considered.
func Newest(batch []any) (any, bool) {
	if len(batch) == 0 {
		return nil, false
	}
	return batch[0], true
}

// CurrentDate extracts the server-side cursor for the next poll.
func CurrentDate(payload any) (int64, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return 0, false
	}
	switch v := obj["current_date"].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, float32, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

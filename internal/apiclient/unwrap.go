package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UnwrapList decodes a list answer that the API may send as a bare array or
// wrapped in an object under one of keys (checked in order). Anything else
// yields an empty slice.
func UnwrapList[T any](raw json.RawMessage, keys ...string) ([]T, error) {
	items := []T{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return items, nil
	}

	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return items, nil
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decode list envelope: %w", err)
		}
		for _, key := range keys {
			value, ok := envelope[key]
			if !ok {
				continue
			}
			value = bytes.TrimSpace(value)
			if len(value) == 0 || value[0] != '[' {
				continue
			}
			if err := json.Unmarshal(value, &items); err != nil {
				return nil, fmt.Errorf("decode %q list: %w", key, err)
			}
			return items, nil
		}
	}
	return items, nil
}

// createdID pulls the id of a freshly created record out of a create answer.
// The API names it differently per resource; 0 means it was not reported.
func createdID(raw json.RawMessage, keys ...string) int {
	var envelope map[string]interface{}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return 0
	}
	for _, key := range append(keys, "id") {
		if v, ok := envelope[key].(float64); ok && v > 0 {
			return int(v)
		}
	}
	return 0
}

package docstore

import (
	"encoding/json"
	"fmt"
	"time"
)

// mergeFields writes fields over the top-level keys of data.
func mergeFields(data []byte, fields map[string]any, now func() time.Time) ([]byte, error) {
	current := map[string]json.RawMessage{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &current); err != nil {
			return nil, fmt.Errorf("corrupted document: %w", err)
		}
	}

	for key, value := range fields {
		if _, ok := value.(serverTimestamp); ok {
			value = now().UTC()
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode field %q: %w", key, err)
		}
		current[key] = raw
	}

	return json.Marshal(current)
}

func matches(data []byte, filter *Filter) bool {
	if filter == nil {
		return true
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return false
	}
	value, ok := fields[filter.Field].(string)
	return ok && value == filter.Value
}

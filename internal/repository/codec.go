package repository

import (
	"encoding/json"
	"time"

	"kindled/internal/store"
)

// Conversion helpers for record values. Drivers disagree about scan types
// (sqlite returns int64 for booleans, []byte for text; the memory store
// keeps whatever Go value was written), so decoding tolerates all of them.

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	}
	return ""
}

func asInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int32:
		return int(t)
	case int64:
		return int(t)
	case float64:
		return int(t)
	}
	return 0
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	}
	return false
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func asTimePtr(v any) *time.Time {
	if v == nil {
		return nil
	}
	t := asTime(v)
	if t.IsZero() {
		return nil
	}
	return &t
}

// decodeStringSlice parses a JSON array column, treating malformed or empty
// values as an empty slice
func decodeStringSlice(v any) []string {
	raw := asString(v)
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func encodeStringSlice(values []string) string {
	if values == nil {
		values = []string{}
	}
	data, _ := json.Marshal(values)
	return string(data)
}

// decodeIntMap parses a JSON object column of integer values
func decodeIntMap(v any) map[string]int {
	raw := asString(v)
	if raw == "" {
		return map[string]int{}
	}
	out := map[string]int{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return map[string]int{}
	}
	return out
}

func encodeIntMap(m map[string]int) string {
	if m == nil {
		m = map[string]int{}
	}
	data, _ := json.Marshal(m)
	return string(data)
}

func encodeTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// field reads a record value that may be absent
func field(rec store.Record, key string) any {
	if rec == nil {
		return nil
	}
	return rec[key]
}

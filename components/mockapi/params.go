package mockapi

import (
	"encoding/json"
	"strconv"
)

// Params are the plain key/value arguments of a call.
type Params map[string]any

// CacheKey joins endpoint with the JSON encoding of params. encoding/json
// sorts map keys, so equal params produce equal keys.
func CacheKey(endpoint string, params Params) string {
	if len(params) == 0 {
		return endpoint + "{}"
	}
	b, err := json.Marshal(params)
	if err != nil {
		return endpoint + "{!}"
	}
	return endpoint + string(b)
}

// Int reads key as an integer, accepting numbers and numeric strings.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// IntAtMost reads key like Int and caps the result at ceiling.
func (p Params) IntAtMost(key string, def, ceiling int) int {
	return min(p.Int(key, def), ceiling)
}

// String reads key as a string.
func (p Params) String(key, def string) string {
	if v, ok := p[key].(string); ok && v != "" {
		return v
	}
	return def
}

package axon

import (
	"fmt"
	"net/url"
	"strconv"
)

// QueryMap represents URL query parameters with convenient access methods
type QueryMap struct {
	values url.Values
}

// NewQueryMap creates a QueryMap from a request context
func NewQueryMap(c RequestContext) QueryMap {
	return QueryMap{
		values: url.Values(c.QueryParams()),
	}
}

// Get returns the first value for the given key, or empty string if not found
func (q QueryMap) Get(key string) string {
	return q.values.Get(key)
}

// Has returns true if the key exists with a non-empty value
func (q QueryMap) Has(key string) bool {
	return q.values.Get(key) != ""
}

// GetIntDefault returns the first value for the given key as an integer, or the default if not found/invalid
func (q QueryMap) GetIntDefault(key string, defaultValue int) int {
	if value := q.values.Get(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// LookupInt returns the integer value for key. ok is false when the key is
// absent or empty; err is set when a value is present but not an integer.
func (q QueryMap) LookupInt(key string) (value int, ok bool, err error) {
	raw := q.values.Get(key)
	if raw == "" {
		return 0, false, nil
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("query parameter %q must be an integer, got %q", key, raw)
	}
	return i, true, nil
}

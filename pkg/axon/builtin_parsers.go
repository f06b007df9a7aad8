package axon

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// ParseInt parses a path parameter to int
func ParseInt(c RequestContext, name string) (int, error) {
	raw := c.Param(name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("path parameter %q must be an integer, got %q", name, raw)
	}
	return v, nil
}

// ParseInt64 parses a path parameter to int64
func ParseInt64(c RequestContext, name string) (int64, error) {
	raw := c.Param(name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("path parameter %q must be an integer, got %q", name, raw)
	}
	return v, nil
}

// ParseUUID parses a path parameter to uuid.UUID
func ParseUUID(c RequestContext, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

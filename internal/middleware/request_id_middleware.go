package middleware

import (
	"github.com/google/uuid"
	"github.com/toyz/usersapi/pkg/axon"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "requestId"

// RequestIDMiddleware assigns every request an id, reusing a client supplied one
type RequestIDMiddleware struct{}

// NewRequestIDMiddleware creates a RequestIDMiddleware
func NewRequestIDMiddleware() *RequestIDMiddleware {
	return &RequestIDMiddleware{}
}

// Handle implements the middleware logic
func (m *RequestIDMiddleware) Handle(next axon.HandlerFunc) axon.HandlerFunc {
	return func(c axon.RequestContext) error {
		id := c.Request().Header(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Response().SetHeader(RequestIDHeader, id)
		return next(c)
	}
}

// RequestID returns the id assigned to the current request
func RequestID(c axon.RequestContext) string {
	if id, ok := c.Get(requestIDKey).(string); ok {
		return id
	}
	return ""
}

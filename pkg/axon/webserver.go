package axon

import (
	"context"
)

// WebServerInterface is implemented by every framework adapter. The users
// API only talks to the server through it, so the adapter is a startup
// choice.
type WebServerInterface interface {
	RegisterRoute(method string, path AxonPath, handler HandlerFunc, middlewares ...MiddlewareFunc)
	RegisterGroup(prefix string) RouteGroup

	// Use adds a middleware applied to every route registered after the call
	Use(middleware MiddlewareFunc)

	// Start blocks until the server stops. A graceful Stop is not an error.
	Start(addr string) error
	Stop(ctx context.Context) error

	Name() string
}

// RouteGroup registers routes below a common prefix
type RouteGroup interface {
	RegisterRoute(method string, path AxonPath, handler HandlerFunc, middlewares ...MiddlewareFunc)
	Use(middleware MiddlewareFunc)
	Group(prefix string) RouteGroup
}

// RequestContext is the per-request view a handler gets, whatever the
// framework underneath
type RequestContext interface {
	Method() string
	Path() string
	// RealIP is the client address, honouring X-Forwarded-For and X-Real-IP
	RealIP() string
	// Context is cancelled when the client goes away
	Context() context.Context

	Param(key string) string
	QueryParam(key string) string
	QueryParams() map[string][]string

	Request() RequestInterface
	Response() ResponseInterface

	// Bind decodes a JSON body into i. An empty body leaves i untouched.
	Bind(i interface{}) error

	// Get and Set carry values between middlewares and handlers
	Get(key string) interface{}
	Set(key string, val interface{})
}

// RequestInterface exposes request headers
type RequestInterface interface {
	Header(key string) string
	ContentType() string
}

// ResponseInterface writes the response. Only the first write sends a
// status line.
type ResponseInterface interface {
	// Status is the status written so far, 200 before any write
	Status() int

	Header(key string) string
	SetHeader(key, value string)

	JSON(code int, i interface{}) error
	JSONPretty(code int, i interface{}, indent string) error
	String(code int, s string) error

	// Written reports whether a status line has already been sent
	Written() bool
}

// HandlerFunc handles one request. A returned error travels back out
// through the middleware chain.
type HandlerFunc func(RequestContext) error

// MiddlewareFunc wraps a HandlerFunc
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// Package axon provides the framework-agnostic HTTP runtime shared by the
// users API: request/response abstractions, middleware chaining, typed HTTP
// errors and response helpers.
package axon

import "net/http"

// Response represents an HTTP response with custom status code and body.
// A string Body is written as text/plain, anything else as JSON.
//
// Example usage:
//
//	return axon.Created(user).WithHeader("Location", "/api/users/7"), nil
type Response struct {
	// StatusCode is the HTTP status code to return (e.g., 200, 201, 404, 500)
	StatusCode int

	// Body is the response body
	Body interface{}

	// Headers are set on the response before the body is written
	Headers map[string]string
}

// NewResponse creates a new Response with the specified status code and body
func NewResponse(statusCode int, body interface{}) *Response {
	return &Response{
		StatusCode: statusCode,
		Body:       body,
	}
}

// WithHeader adds a response header and returns the response for chaining
func (r *Response) WithHeader(key, value string) *Response {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

// Write sends the response through the request context
func (r *Response) Write(c RequestContext) error {
	for k, v := range r.Headers {
		c.Response().SetHeader(k, v)
	}
	if s, ok := r.Body.(string); ok {
		return c.Response().String(r.StatusCode, s)
	}
	return c.Response().JSON(r.StatusCode, r.Body)
}

// OK creates a 200 OK response with the given body
func OK(body interface{}) *Response {
	return NewResponse(http.StatusOK, body)
}

// Created creates a 201 Created response with the given body
func Created(body interface{}) *Response {
	return NewResponse(http.StatusCreated, body)
}

// BadRequest creates a 400 Bad Request response with the given body
func BadRequest(body interface{}) *Response {
	return NewResponse(http.StatusBadRequest, body)
}

// NotFound creates a 404 Not Found response with the given body
func NotFound(body interface{}) *Response {
	return NewResponse(http.StatusNotFound, body)
}

// InternalServerError creates a 500 Internal Server Error response with the given body
func InternalServerError(body interface{}) *Response {
	return NewResponse(http.StatusInternalServerError, body)
}

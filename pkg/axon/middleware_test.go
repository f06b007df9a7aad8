package axon

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingMiddleware(name string, trace *[]string) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c RequestContext) error {
			*trace = append(*trace, name+":before")
			err := next(c)
			*trace = append(*trace, name+":after")
			return err
		}
	}
}

func TestChain_Order(t *testing.T) {
	var trace []string
	handler := func(c RequestContext) error {
		trace = append(trace, "handler")
		return nil
	}

	h := Chain(handler, recordingMiddleware("a", &trace), recordingMiddleware("b", &trace))
	require.NoError(t, h(newFakeContext()))

	assert.Equal(t, []string{"a:before", "b:before", "handler", "b:after", "a:after"}, trace)
}

func TestChain_ErrorsPropagateOutward(t *testing.T) {
	boom := errors.New("boom")
	var seen error

	catch := func(next HandlerFunc) HandlerFunc {
		return func(c RequestContext) error {
			seen = next(c)
			return nil
		}
	}

	h := Chain(func(RequestContext) error { return boom }, catch)

	assert.NoError(t, h(newFakeContext()))
	assert.ErrorIs(t, seen, boom)
}

func TestMiddlewareStack_Compose(t *testing.T) {
	var trace []string
	var stack MiddlewareStack
	stack.Use(recordingMiddleware("global", &trace))

	h := stack.Compose(
		func(RequestContext) error { trace = append(trace, "handler"); return nil },
		[]MiddlewareFunc{recordingMiddleware("group", &trace)},
		[]MiddlewareFunc{recordingMiddleware("route", &trace)},
	)
	require.NoError(t, h(newFakeContext()))

	assert.Equal(t, []string{
		"global:before", "group:before", "route:before",
		"handler",
		"route:after", "group:after", "global:after",
	}, trace)
}

func TestMiddlewareStack_MiddlewaresIsCopy(t *testing.T) {
	var stack MiddlewareStack
	stack.Use(func(next HandlerFunc) HandlerFunc { return next })

	mws := stack.Middlewares()
	mws[0] = nil

	assert.NotNil(t, stack.Middlewares()[0])
}

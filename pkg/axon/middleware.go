package axon

// Chain wraps handler with the given middlewares. The first middleware is the
// outermost one, so it sees the request first and the returned error last.
func Chain(handler HandlerFunc, middlewares ...MiddlewareFunc) HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// MiddlewareStack collects middlewares registered through Use and composes
// them in front of route level middlewares. Adapters embed it so that every
// framework runs the same axon chain and errors travel back through it.
type MiddlewareStack struct {
	middlewares []MiddlewareFunc
}

// Use appends a middleware to the stack
func (s *MiddlewareStack) Use(middleware MiddlewareFunc) {
	s.middlewares = append(s.middlewares, middleware)
}

// Middlewares returns a copy of the registered middlewares
func (s *MiddlewareStack) Middlewares() []MiddlewareFunc {
	return append([]MiddlewareFunc(nil), s.middlewares...)
}

// Compose builds the final handler from the stacked middlewares, any extra
// group middlewares and the route middlewares, in that order.
func (s *MiddlewareStack) Compose(handler HandlerFunc, groups []MiddlewareFunc, route []MiddlewareFunc) HandlerFunc {
	all := make([]MiddlewareFunc, 0, len(s.middlewares)+len(groups)+len(route))
	all = append(all, s.middlewares...)
	all = append(all, groups...)
	all = append(all, route...)
	return Chain(handler, all...)
}

package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/toyz/usersapi/pkg/axon"
)

// ChiAdapter serves axon routes with a chi router behind an http.Server.
// Groups are flattened onto the root router instead of chi.Route, which would
// make a subrouter per call and break sibling groups sharing a prefix.
type ChiAdapter struct {
	axon.MiddlewareStack
	router chi.Router
	server *http.Server
}

func NewChiAdapter(r chi.Router) *ChiAdapter {
	return &ChiAdapter{router: r}
}

// NewDefaultChiAdapter installs chi's Recoverer
func NewDefaultChiAdapter() *ChiAdapter {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	return &ChiAdapter{router: r}
}

func convertAxonPathToChi(path axon.AxonPath) string {
	return path.Convert(func(name string) string { return "{" + name + "}" }, "*")
}

func (ca *ChiAdapter) RegisterRoute(method string, path axon.AxonPath, handler axon.HandlerFunc, middlewares ...axon.MiddlewareFunc) {
	ca.mount(method, path, ca.Compose(handler, nil, middlewares))
}

func (ca *ChiAdapter) RegisterGroup(prefix string) axon.RouteGroup {
	return newRouteGroup(prefix, &ca.MiddlewareStack, ca.mount)
}

func (ca *ChiAdapter) mount(method string, path axon.AxonPath, handler axon.HandlerFunc) {
	ca.router.Method(strings.ToUpper(method), convertAxonPathToChi(path), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := &chiContext{w: middleware.NewWrapResponseWriter(w, r.ProtoMajor), r: r}
		if err := handler(ctx); err != nil {
			_ = axon.WriteError(ctx, err)
		}
	}))
}

func (ca *ChiAdapter) Start(addr string) error {
	ca.server = &http.Server{Addr: addr, Handler: ca.router}
	if err := ca.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (ca *ChiAdapter) Stop(ctx context.Context) error {
	if ca.server == nil {
		return nil
	}
	return ca.server.Shutdown(ctx)
}

func (ca *ChiAdapter) Name() string {
	return "Chi"
}

// GetRouter returns the router, which is also the server's http.Handler
func (ca *ChiAdapter) GetRouter() chi.Router {
	return ca.router
}

// chiContext carries per-request values itself; net/http has no equivalent
// of gin.Context.Set.
type chiContext struct {
	w middleware.WrapResponseWriter
	r *http.Request

	mu     sync.RWMutex
	values map[string]interface{}
}

func (c *chiContext) Method() string                   { return c.r.Method }
func (c *chiContext) Path() string                     { return c.r.URL.Path }
func (c *chiContext) Context() context.Context         { return c.r.Context() }
func (c *chiContext) Param(key string) string          { return chi.URLParam(c.r, key) }
func (c *chiContext) QueryParam(key string) string     { return c.r.URL.Query().Get(key) }
func (c *chiContext) QueryParams() map[string][]string { return c.r.URL.Query() }
func (c *chiContext) Request() axon.RequestInterface   { return chiRequest{c.r} }
func (c *chiContext) Response() axon.ResponseInterface { return chiResponse{c.w} }

func (c *chiContext) RealIP() string {
	return clientIP(c.r.Header.Get("X-Forwarded-For"), c.r.Header.Get("X-Real-IP"), c.r.RemoteAddr)
}

func (c *chiContext) Bind(i interface{}) error {
	if c.r.Body == nil || c.r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(c.r.Body).Decode(i)
}

func (c *chiContext) Get(key string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

func (c *chiContext) Set(key string, val interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]interface{})
	}
	c.values[key] = val
}

type chiRequest struct{ r *http.Request }

func (r chiRequest) Header(key string) string { return r.r.Header.Get(key) }
func (r chiRequest) ContentType() string      { return r.r.Header.Get("Content-Type") }

type chiResponse struct{ w middleware.WrapResponseWriter }

// Status is 200 until a status line has gone out
func (r chiResponse) Status() int {
	if r.w.Status() == 0 {
		return http.StatusOK
	}
	return r.w.Status()
}

func (r chiResponse) Header(key string) string    { return r.w.Header().Get(key) }
func (r chiResponse) SetHeader(key, value string) { r.w.Header().Set(key, value) }
func (r chiResponse) Written() bool               { return r.w.Status() != 0 }

func (r chiResponse) JSON(code int, i interface{}) error {
	b, err := json.Marshal(i)
	if err != nil {
		return err
	}
	return r.send(code, "application/json; charset=utf-8", b)
}

func (r chiResponse) JSONPretty(code int, i interface{}, indent string) error {
	b, err := prettyJSON(i, indent)
	if err != nil {
		return err
	}
	return r.send(code, "application/json; charset=utf-8", b)
}

func (r chiResponse) String(code int, s string) error {
	return r.send(code, "text/plain; charset=utf-8", []byte(s))
}

func (r chiResponse) send(code int, contentType string, body []byte) error {
	r.w.Header().Set("Content-Type", contentType)
	r.w.WriteHeader(code)
	_, err := r.w.Write(body)
	return err
}

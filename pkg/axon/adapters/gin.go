package adapters

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/toyz/usersapi/pkg/axon"
)

// GinAdapter serves axon routes with a Gin engine
type GinAdapter struct {
	axon.MiddlewareStack
	engine *gin.Engine
	server *http.Server
}

// NewGinAdapter wraps an existing engine
func NewGinAdapter(g *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: g}
}

// NewDefaultGinAdapter uses a recovery-only engine. Request logging is done
// by the axon logging middleware.
func NewDefaultGinAdapter() *GinAdapter {
	engine := gin.New()
	engine.Use(gin.Recovery())
	return &GinAdapter{engine: engine}
}

func convertAxonPathToGin(path axon.AxonPath) string {
	return path.Convert(axon.ColonParam, "*path")
}

// RegisterRoute registers a route on the engine
func (ga *GinAdapter) RegisterRoute(method string, path axon.AxonPath, handler axon.HandlerFunc, middlewares ...axon.MiddlewareFunc) {
	ga.mount(method, path, ga.Compose(handler, nil, middlewares))
}

// RegisterGroup creates a route group below prefix
func (ga *GinAdapter) RegisterGroup(prefix string) axon.RouteGroup {
	return newRouteGroup(prefix, &ga.MiddlewareStack, ga.mount)
}

func (ga *GinAdapter) mount(method string, path axon.AxonPath, handler axon.HandlerFunc) {
	ga.engine.Handle(strings.ToUpper(method), convertAxonPathToGin(path), func(c *gin.Context) {
		ctx := &ginContext{c: c}
		if err := handler(ctx); err != nil {
			_ = axon.WriteError(ctx, err)
		}
	})
}

// Start serves until Stop is called
func (ga *GinAdapter) Start(addr string) error {
	ga.server = &http.Server{Addr: addr, Handler: ga.engine}
	if err := ga.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down; it is a no-op before Start
func (ga *GinAdapter) Stop(ctx context.Context) error {
	if ga.server == nil {
		return nil
	}
	return ga.server.Shutdown(ctx)
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// GetEngine returns the underlying Gin engine
func (ga *GinAdapter) GetEngine() *gin.Engine {
	return ga.engine
}

// ginContext adapts *gin.Context to axon.RequestContext
type ginContext struct {
	c *gin.Context
}

func (g *ginContext) Method() string               { return g.c.Request.Method }
func (g *ginContext) Path() string                 { return g.c.Request.URL.Path }
func (g *ginContext) Context() context.Context     { return g.c.Request.Context() }
func (g *ginContext) QueryParam(key string) string { return g.c.Query(key) }
func (g *ginContext) QueryParams() map[string][]string {
	return g.c.Request.URL.Query()
}
func (g *ginContext) Request() axon.RequestInterface   { return ginRequest{g.c} }
func (g *ginContext) Response() axon.ResponseInterface { return ginResponse{g.c} }

func (g *ginContext) RealIP() string {
	return clientIP(g.c.GetHeader("X-Forwarded-For"), g.c.GetHeader("X-Real-IP"), g.c.Request.RemoteAddr)
}

// Param maps the axon wildcard onto Gin's named catch-all
func (g *ginContext) Param(key string) string {
	if key == "*" || key == "path" {
		return strings.TrimPrefix(g.c.Param("path"), "/")
	}
	return g.c.Param(key)
}

func (g *ginContext) Bind(i interface{}) error {
	if g.c.Request.Body == nil || g.c.Request.ContentLength == 0 {
		return nil
	}
	return g.c.ShouldBindJSON(i)
}

func (g *ginContext) Get(key string) interface{} {
	v, _ := g.c.Get(key)
	return v
}

func (g *ginContext) Set(key string, val interface{}) { g.c.Set(key, val) }

type ginRequest struct{ c *gin.Context }

func (r ginRequest) Header(key string) string { return r.c.GetHeader(key) }
func (r ginRequest) ContentType() string      { return r.c.ContentType() }

type ginResponse struct{ c *gin.Context }

func (r ginResponse) Status() int                 { return r.c.Writer.Status() }
func (r ginResponse) Header(key string) string    { return r.c.Writer.Header().Get(key) }
func (r ginResponse) SetHeader(key, value string) { r.c.Header(key, value) }
func (r ginResponse) Written() bool               { return r.c.Writer.Written() }

func (r ginResponse) JSON(code int, i interface{}) error {
	r.c.JSON(code, i)
	return nil
}

// JSONPretty honours the requested indent; gin's IndentedJSON always uses
// four spaces.
func (r ginResponse) JSONPretty(code int, i interface{}, indent string) error {
	b, err := prettyJSON(i, indent)
	if err != nil {
		return err
	}
	r.c.Data(code, "application/json; charset=utf-8", b)
	return nil
}

func (r ginResponse) String(code int, s string) error {
	r.c.Data(code, "text/plain; charset=utf-8", []byte(s))
	return nil
}

package adapters

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/toyz/usersapi/pkg/axon"
)

// EchoAdapter serves axon routes with Echo v4
type EchoAdapter struct {
	axon.MiddlewareStack
	engine *echo.Echo
}

// NewEchoAdapter wraps an existing Echo instance
func NewEchoAdapter(e *echo.Echo) *EchoAdapter {
	return &EchoAdapter{engine: e}
}

// NewDefaultEchoAdapter returns an adapter whose Echo instance prints nothing on start
func NewDefaultEchoAdapter() *EchoAdapter {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &EchoAdapter{engine: e}
}

func convertAxonPathToEcho(path axon.AxonPath) string {
	return path.Convert(axon.ColonParam, "*")
}

func (ea *EchoAdapter) RegisterRoute(method string, path axon.AxonPath, handler axon.HandlerFunc, middlewares ...axon.MiddlewareFunc) {
	ea.mount(method, path, ea.Compose(handler, nil, middlewares))
}

func (ea *EchoAdapter) RegisterGroup(prefix string) axon.RouteGroup {
	return newRouteGroup(prefix, &ea.MiddlewareStack, ea.mount)
}

func (ea *EchoAdapter) mount(method string, path axon.AxonPath, handler axon.HandlerFunc) {
	ea.engine.Add(strings.ToUpper(method), convertAxonPathToEcho(path), func(c echo.Context) error {
		ctx := echoContext{c}
		if err := handler(ctx); err != nil {
			return axon.WriteError(ctx, err)
		}
		return nil
	})
}

func (ea *EchoAdapter) Start(addr string) error {
	if err := ea.engine.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (ea *EchoAdapter) Stop(ctx context.Context) error {
	return ea.engine.Shutdown(ctx)
}

func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// GetEngine exposes the Echo instance, mostly for tests
func (ea *EchoAdapter) GetEngine() *echo.Echo {
	return ea.engine
}

type echoContext struct {
	c echo.Context
}

func (e echoContext) Method() string                   { return e.c.Request().Method }
func (e echoContext) Path() string                     { return e.c.Request().URL.Path }
func (e echoContext) Context() context.Context         { return e.c.Request().Context() }
func (e echoContext) Param(key string) string          { return e.c.Param(key) }
func (e echoContext) QueryParam(key string) string     { return e.c.QueryParam(key) }
func (e echoContext) QueryParams() map[string][]string { return e.c.QueryParams() }
func (e echoContext) Request() axon.RequestInterface   { return echoRequest{e.c.Request()} }
func (e echoContext) Response() axon.ResponseInterface { return echoResponse{e.c} }
func (e echoContext) Get(key string) interface{}       { return e.c.Get(key) }
func (e echoContext) Set(key string, val interface{})  { e.c.Set(key, val) }

func (e echoContext) RealIP() string {
	r := e.c.Request()
	return clientIP(r.Header.Get(echo.HeaderXForwardedFor), r.Header.Get(echo.HeaderXRealIP), r.RemoteAddr)
}

// Bind only decodes the body; Echo's default binder would also fill the
// target from path and query parameters.
func (e echoContext) Bind(i interface{}) error {
	return (&echo.DefaultBinder{}).BindBody(e.c, i)
}

type echoRequest struct{ r *http.Request }

func (r echoRequest) Header(key string) string { return r.r.Header.Get(key) }
func (r echoRequest) ContentType() string      { return r.r.Header.Get(echo.HeaderContentType) }

type echoResponse struct{ c echo.Context }

func (r echoResponse) Status() int                 { return r.c.Response().Status }
func (r echoResponse) Header(key string) string    { return r.c.Response().Header().Get(key) }
func (r echoResponse) SetHeader(key, value string) { r.c.Response().Header().Set(key, value) }
func (r echoResponse) Written() bool               { return r.c.Response().Committed }

func (r echoResponse) JSON(code int, i interface{}) error {
	return r.c.JSON(code, i)
}

func (r echoResponse) JSONPretty(code int, i interface{}, indent string) error {
	return r.c.JSONPretty(code, i, indent)
}

func (r echoResponse) String(code int, s string) error {
	return r.c.String(code, s)
}

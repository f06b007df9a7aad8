package adapters

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/toyz/usersapi/pkg/axon"
)

// fasthttp flushes only after the handler returns, so writes are tracked in Locals
const fiberWrittenKey = "axon.fiber.written"

// FiberAdapter serves axon routes with a Fiber app
type FiberAdapter struct {
	axon.MiddlewareStack
	app *fiber.App
}

// NewFiberAdapter creates an adapter without panic recovery. Errors that
// escape the axon chain are rendered as {"error": "..."}.
func NewFiberAdapter() *FiberAdapter {
	return &FiberAdapter{app: fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})}
}

// NewDefaultFiberAdapter adds Fiber's recover middleware
func NewDefaultFiberAdapter() *FiberAdapter {
	fa := NewFiberAdapter()
	fa.app.Use(recover.New())
	return fa
}

func convertAxonPathToFiber(path axon.AxonPath) string {
	return path.Convert(axon.ColonParam, "*")
}

func (fa *FiberAdapter) RegisterRoute(method string, path axon.AxonPath, handler axon.HandlerFunc, middlewares ...axon.MiddlewareFunc) {
	fa.mount(method, path, fa.Compose(handler, nil, middlewares))
}

func (fa *FiberAdapter) RegisterGroup(prefix string) axon.RouteGroup {
	return newRouteGroup(prefix, &fa.MiddlewareStack, fa.mount)
}

func (fa *FiberAdapter) mount(method string, path axon.AxonPath, handler axon.HandlerFunc) {
	fa.app.Add(strings.ToUpper(method), convertAxonPathToFiber(path), func(c *fiber.Ctx) error {
		ctx := fiberContext{c}
		if err := handler(ctx); err != nil {
			return axon.WriteError(ctx, err)
		}
		return nil
	})
}

func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

func (fa *FiberAdapter) Stop(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// GetApp returns the Fiber app; tests drive it through app.Test
func (fa *FiberAdapter) GetApp() *fiber.App {
	return fa.app
}

type fiberContext struct {
	c *fiber.Ctx
}

func (f fiberContext) Method() string                   { return f.c.Method() }
func (f fiberContext) Path() string                     { return f.c.Path() }
func (f fiberContext) Context() context.Context         { return f.c.UserContext() }
func (f fiberContext) Param(key string) string          { return f.c.Params(key) }
func (f fiberContext) QueryParam(key string) string     { return f.c.Query(key) }
func (f fiberContext) Request() axon.RequestInterface   { return fiberRequest{f.c} }
func (f fiberContext) Response() axon.ResponseInterface { return fiberResponse{f.c} }
func (f fiberContext) Get(key string) interface{}       { return f.c.Locals(key) }
func (f fiberContext) Set(key string, val interface{})  { f.c.Locals(key, val) }

func (f fiberContext) RealIP() string {
	return clientIP(f.c.Get(fiber.HeaderXForwardedFor), f.c.Get("X-Real-IP"), f.c.Context().RemoteAddr().String())
}

func (f fiberContext) QueryParams() map[string][]string {
	params := make(map[string][]string)
	f.c.Request().URI().QueryArgs().VisitAll(func(k, v []byte) {
		params[string(k)] = append(params[string(k)], string(v))
	})
	return params
}

func (f fiberContext) Bind(i interface{}) error {
	if len(f.c.Body()) == 0 {
		return nil
	}
	return f.c.BodyParser(i)
}

type fiberRequest struct{ c *fiber.Ctx }

func (r fiberRequest) Header(key string) string { return r.c.Get(key) }
func (r fiberRequest) ContentType() string      { return string(r.c.Request().Header.ContentType()) }

type fiberResponse struct{ c *fiber.Ctx }

func (r fiberResponse) Status() int                 { return r.c.Response().StatusCode() }
func (r fiberResponse) Header(key string) string    { return r.c.GetRespHeader(key) }
func (r fiberResponse) SetHeader(key, value string) { r.c.Set(key, value) }

func (r fiberResponse) Written() bool {
	written, _ := r.c.Locals(fiberWrittenKey).(bool)
	return written
}

func (r fiberResponse) JSON(code int, i interface{}) error {
	r.c.Locals(fiberWrittenKey, true)
	return r.c.Status(code).JSON(i)
}

// JSONPretty goes through encoding/json; Fiber's encoder cannot indent
func (r fiberResponse) JSONPretty(code int, i interface{}, indent string) error {
	b, err := prettyJSON(i, indent)
	if err != nil {
		return err
	}
	r.c.Locals(fiberWrittenKey, true)
	r.c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return r.c.Status(code).Send(b)
}

func (r fiberResponse) String(code int, s string) error {
	r.c.Locals(fiberWrittenKey, true)
	return r.c.Status(code).SendString(s)
}

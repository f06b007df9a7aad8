// Package routes wires the users API onto a web server adapter and records
// every route it registers.
package routes

import (
	"github.com/toyz/usersapi/internal/controllers"
	"github.com/toyz/usersapi/internal/middleware"
	"github.com/toyz/usersapi/pkg/axon"
)

const controllerName = "UserController"

// Middlewares are the global middlewares, outermost first
type Middlewares struct {
	RequestID *middleware.RequestIDMiddleware
	Logging   *middleware.LoggingMiddleware
	Errors    *middleware.ErrorHandlingMiddleware
}

func (m Middlewares) names() []string {
	return []string{"RequestIDMiddleware", "LoggingMiddleware", "ErrorHandlingMiddleware"}
}

type route struct {
	method  string
	path    string
	name    string
	handler axon.HandlerFunc
}

// RegisterRoutes registers the global middlewares and every user route.
// The /logs routes come before /{id:int} so routers that match in
// registration order never treat "logs" as an id.
func RegisterRoutes(server axon.WebServerInterface, mw Middlewares, uc *controllers.UserController, registry axon.RouteRegistry) {
	server.Use(mw.RequestID.Handle)
	server.Use(mw.Logging.Handle)
	server.Use(mw.Errors.Handle)

	group := server.RegisterGroup(controllers.BasePath)

	for _, r := range []route{
		{"GET", "/logs", "ListLogs", uc.ListLogs},
		{"GET", "/logs/stats", "LogStats", uc.LogStats},
		{"GET", "/", "ListUsers", uc.ListUsers},
		{"POST", "/", "CreateUser", uc.CreateUser},
		{"GET", "/{id:int}", "GetUser", uc.GetUser},
		{"PUT", "/{id:int}", "UpdateUser", uc.UpdateUser},
		{"PUT", "/{id:int}/email", "UpdateEmail", uc.UpdateEmail},
		{"DELETE", "/{id:int}", "DeleteUser", uc.DeleteUser},
	} {
		group.RegisterRoute(r.method, axon.NewAxonPath(r.path), r.handler)

		registry.RegisterRoute(axon.RouteInfo{
			Method:         r.method,
			Path:           axon.NewAxonPath(r.path).Join(controllers.BasePath).Raw(),
			HandlerName:    r.name,
			ControllerName: controllerName,
			Middlewares:    mw.names(),
		})
	}
}

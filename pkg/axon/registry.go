package axon

import (
	"sort"
	"sync"
)

// RouteInfo describes one registered route for introspection. Path keeps
// the axon syntax, e.g. "/api/users/{id:int}".
type RouteInfo struct {
	Method         string
	Path           string
	HandlerName    string
	ControllerName string
	Middlewares    []string
}

// RouteRegistry is filled while routes are mounted and read by the startup
// diagnostics
type RouteRegistry interface {
	GetAllRoutes() []RouteInfo
	GetRoutesByController(controllerName string) []RouteInfo
	GetRoutesByMethod(method string) []RouteInfo
	RegisterRoute(route RouteInfo)
}

// InMemoryRouteRegistry is safe for concurrent use
type InMemoryRouteRegistry struct {
	mu     sync.RWMutex
	routes []RouteInfo
}

func NewInMemoryRouteRegistry() *InMemoryRouteRegistry {
	return &InMemoryRouteRegistry{}
}

// GetAllRoutes returns all registered routes sorted by path then method
func (r *InMemoryRouteRegistry) GetAllRoutes() []RouteInfo {
	r.mu.RLock()
	routes := append([]RouteInfo(nil), r.routes...)
	r.mu.RUnlock()

	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	return routes
}

func (r *InMemoryRouteRegistry) GetRoutesByController(controllerName string) []RouteInfo {
	return r.filter(func(route RouteInfo) bool { return route.ControllerName == controllerName })
}

func (r *InMemoryRouteRegistry) GetRoutesByMethod(method string) []RouteInfo {
	return r.filter(func(route RouteInfo) bool { return route.Method == method })
}

func (r *InMemoryRouteRegistry) RegisterRoute(route RouteInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *InMemoryRouteRegistry) filter(keep func(RouteInfo) bool) []RouteInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []RouteInfo
	for _, route := range r.routes {
		if keep(route) {
			filtered = append(filtered, route)
		}
	}
	return filtered
}

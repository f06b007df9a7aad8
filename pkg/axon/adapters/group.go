package adapters

import (
	"encoding/json"
	"net"
	"strings"

	"github.com/toyz/usersapi/pkg/axon"
)

// mountFunc registers an already composed handler on the framework router
type mountFunc func(method string, path axon.AxonPath, handler axon.HandlerFunc)

// routeGroup implements axon.RouteGroup for every adapter. Routes are
// mounted on the root router with the joined path so that "/" maps to the
// bare prefix, and sibling groups sharing a prefix never clash.
type routeGroup struct {
	axon.MiddlewareStack
	prefix string
	parent []axon.MiddlewareFunc
	root   *axon.MiddlewareStack
	mount  mountFunc
}

func newRouteGroup(prefix string, root *axon.MiddlewareStack, mount mountFunc) *routeGroup {
	return &routeGroup{prefix: strings.TrimSuffix(prefix, "/"), root: root, mount: mount}
}

// RegisterRoute registers a route below the group prefix. Server, group
// and route middlewares run in that order.
func (g *routeGroup) RegisterRoute(method string, path axon.AxonPath, handler axon.HandlerFunc, middlewares ...axon.MiddlewareFunc) {
	g.mount(method, path.Join(g.prefix), g.root.Compose(handler, g.chain(), middlewares))
}

// Group creates a sub-group that inherits this group's middlewares
func (g *routeGroup) Group(prefix string) axon.RouteGroup {
	return &routeGroup{
		prefix: string(axon.NewAxonPath(prefix).Join(g.prefix)),
		parent: g.chain(),
		root:   g.root,
		mount:  g.mount,
	}
}

func (g *routeGroup) chain() []axon.MiddlewareFunc {
	return append(append([]axon.MiddlewareFunc(nil), g.parent...), g.Middlewares()...)
}

// clientIP picks the caller address the way audit records expect it: the
// first X-Forwarded-For hop, then X-Real-IP, then the peer address.
func clientIP(forwardedFor, realIP, remoteAddr string) string {
	if forwardedFor != "" {
		return strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
	}
	if realIP != "" {
		return realIP
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

func prettyJSON(i interface{}, indent string) ([]byte, error) {
	return json.MarshalIndent(i, "", indent)
}

package router

import (
	"net/http"
	"path"
	"sort"

	"github.com/erp/platform/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Router mounts module route groups under /api/<version>
type Router struct {
	engine  *gin.Engine
	version string
	groups  []*DomainGroup
}

// NewRouter creates a router for one API version, e.g. "v1"
func NewRouter(engine *gin.Engine, version string) *Router {
	if version == "" {
		version = "v1"
	}
	return &Router{engine: engine, version: version}
}

// Register queues groups for Setup
func (r *Router) Register(groups ...*DomainGroup) *Router {
	r.groups = append(r.groups, groups...)
	return r
}

// BasePath returns the versioned prefix, e.g. /api/v1
func (r *Router) BasePath() string {
	return "/api/" + r.version
}

// Setup mounts every registered group on the engine
func (r *Router) Setup() {
	api := r.engine.Group(r.BasePath())
	for _, g := range r.groups {
		g.mount(api)
	}
}

// RouteInfo describes one mounted route and the permission resource
// guarding it. Resource is empty for routes only authentication protects.
type RouteInfo struct {
	Method   string
	Path     string
	Resource string
}

// Routes lists the route table sorted by path then method
func (r *Router) Routes() []RouteInfo {
	var out []RouteInfo
	for _, g := range r.groups {
		out = g.collect(out, r.BasePath(), "")
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// DomainGroup collects the routes of one module under a shared prefix,
// middleware and, optionally, a permission resource
type DomainGroup struct {
	name       string
	prefix     string
	resource   string
	routes     []route
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Name returns the group name
func (dg *DomainGroup) Name() string { return dg.name }

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string { return dg.prefix }

// Use adds middleware to this group and its subgroups. Nil entries are
// skipped so optional middleware can be passed unconditionally.
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	for _, m := range middleware {
		if m != nil {
			dg.middleware = append(dg.middleware, m)
		}
	}
	return dg
}

// Guard requires resource:action permission on every route of the group,
// with the action derived from the HTTP method
func (dg *DomainGroup) Guard(resource string) *DomainGroup {
	dg.resource = resource
	return dg.Use(middleware.RequireResource(resource))
}

// Handle registers a route for an arbitrary method
func (dg *DomainGroup) Handle(method, relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, route{method: method, path: relativePath, handlers: handlers})
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodGet, relativePath, handlers...)
}

// POST registers a POST route
func (dg *DomainGroup) POST(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPost, relativePath, handlers...)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPut, relativePath, handlers...)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodDelete, relativePath, handlers...)
}

// Group opens a subgroup that inherits this group's middleware
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	sub := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, sub)
	return sub
}

// RegisterRoutes mounts the group on an existing gin group
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	dg.mount(rg)
}

func (dg *DomainGroup) mount(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix, dg.middleware...)
	for _, rt := range dg.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
	for _, sub := range dg.subgroups {
		sub.mount(group)
	}
}

func (dg *DomainGroup) collect(out []RouteInfo, base, inherited string) []RouteInfo {
	base = joinPath(base, dg.prefix)
	resource := inherited
	if dg.resource != "" {
		resource = dg.resource
	}
	for _, rt := range dg.routes {
		out = append(out, RouteInfo{Method: rt.method, Path: joinPath(base, rt.path), Resource: resource})
	}
	for _, sub := range dg.subgroups {
		out = sub.collect(out, base, resource)
	}
	return out
}

// joinPath mirrors gin's handling of relative paths
func joinPath(base, rel string) string {
	if rel == "" {
		return base
	}
	return path.Join(base, rel)
}

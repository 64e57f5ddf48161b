package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Registry holds the endpoints served by metagen serve and mirrored under
// metagen api.
type Registry struct {
	endpoints []Endpoint
}

// NewRegistry creates an empty endpoint registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an endpoint. Registration order is the order of Routes and
// of the api subcommands.
func (r *Registry) Register(ep Endpoint) {
	r.endpoints = append(r.endpoints, ep)
}

// Route describes one registered HTTP route.
type Route struct {
	Method       string
	Path         string
	RequiresInit bool
}

// Pattern returns the ServeMux pattern for the route.
func (rt Route) Pattern() string {
	return rt.Method + " " + rt.Path
}

// Routes lists the registered routes in registration order.
func (r *Registry) Routes() []Route {
	routes := make([]Route, 0, len(r.endpoints))
	for _, ep := range r.endpoints {
		method, path, _ := ep.Route()
		routes = append(routes, Route{Method: method, Path: path, RequiresInit: ep.RequiresInit()})
	}
	return routes
}

// RegisterRoutes mounts every endpoint on mux. Handlers of endpoints that
// need an LLM client are wrapped with requireClient so they answer 503
// while no provider is configured.
func (r *Registry) RegisterRoutes(mux *http.ServeMux, requireClient func(http.HandlerFunc) http.HandlerFunc) {
	for _, ep := range r.endpoints {
		method, path, handler := ep.Route()
		if ep.RequiresInit() {
			handler = requireClient(handler)
		}
		mux.HandleFunc(Route{Method: method, Path: path}.Pattern(), handler)
	}
}

// BuildCommands returns the api command with one flat subcommand per
// endpoint. getServerURL is evaluated when a subcommand runs so --server
// is honored.
func (r *Registry) BuildCommands(getServerURL func() string) *cobra.Command {
	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Commands that call the running server",
		Long: `API commands call the running metagen server via HTTP.

These commands require a running server (metagen serve).
Use --server to specify a custom server URL.

Examples:
  metagen api health                         # Check server health
  metagen api generate https://example.com   # Generate metadata
  metagen api export --file urls.txt         # Download the CSV export`,
	}

	for _, ep := range r.endpoints {
		apiCmd.AddCommand(ep.Command(getServerURL))
	}

	return apiCmd
}

// Endpoints returns all registered endpoints.
func (r *Registry) Endpoints() []Endpoint {
	return r.endpoints
}

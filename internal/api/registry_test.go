package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
)

type stubEndpoint struct {
	method, path string
	requiresInit bool
}

func (e *stubEndpoint) Route() (string, string, http.HandlerFunc) {
	return e.method, e.path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}

func (e *stubEndpoint) RequiresInit() bool { return e.requiresInit }

func (e *stubEndpoint) Command(func() string) *cobra.Command {
	return &cobra.Command{Use: e.path[1:]}
}

func TestRegistry_Routes(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubEndpoint{method: "GET", path: "/health"})
	reg.Register(&stubEndpoint{method: "POST", path: "/generate", requiresInit: true})

	routes := reg.Routes()
	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(routes))
	}
	if routes[0].Pattern() != "GET /health" || routes[0].RequiresInit {
		t.Errorf("unexpected first route %+v", routes[0])
	}
	if routes[1].Pattern() != "POST /generate" || !routes[1].RequiresInit {
		t.Errorf("unexpected second route %+v", routes[1])
	}
}

func TestRegistry_RegisterRoutes(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubEndpoint{method: "GET", path: "/health"})
	reg.Register(&stubEndpoint{method: "POST", path: "/generate", requiresInit: true})

	// Stand-in for a server with no LLM provider configured.
	unavailable := func(http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}
	mux := http.NewServeMux()
	reg.RegisterRoutes(mux, unavailable)

	tests := []struct {
		method, path string
		want         int
	}{
		{"GET", "/health", http.StatusOK},
		{"POST", "/generate", http.StatusServiceUnavailable},
		{"GET", "/generate", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s: got status %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}

func TestRegistry_BuildCommands(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubEndpoint{method: "GET", path: "/health"})
	reg.Register(&stubEndpoint{method: "POST", path: "/generate"})

	cmd := reg.BuildCommands(func() string { return "http://localhost" })
	if cmd.Use != "api" {
		t.Errorf("unexpected command %q", cmd.Use)
	}
	if len(cmd.Commands()) != 2 {
		t.Errorf("expected 2 subcommands, got %d", len(cmd.Commands()))
	}
}

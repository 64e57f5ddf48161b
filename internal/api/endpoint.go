package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Endpoint pairs an HTTP route of metagen serve with the metagen api
// subcommand that calls it, so both surfaces share one request and
// response shape.
type Endpoint interface {
	// Route returns the HTTP method, path, and handler for this endpoint.
	Route() (method, path string, handler http.HandlerFunc)

	// RequiresInit reports whether the handler needs a configured LLM
	// client. Such routes answer 503 until a provider is available.
	RequiresInit() bool

	// Command returns the subcommand that calls this endpoint over HTTP.
	// getServerURL is evaluated when the command runs.
	Command(getServerURL func() string) *cobra.Command
}

package endpoints

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jackzampolin/metagen/internal/api"
	"github.com/jackzampolin/metagen/internal/metadata"
	"github.com/jackzampolin/metagen/internal/metrics"
	"github.com/jackzampolin/metagen/internal/svcctx"
)

// maxBodyBytes caps request bodies. Batches are lists of URLs.
const maxBodyBytes = 1 << 20

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Metadata endpoints
		&GenerateMetadataEndpoint{},
		&ExportMetadataEndpoint{},
	}
}

// batchFrom builds a batch around the LLM client selected for this request.
// Model calls are recorded into rec when it is non-nil. It returns an error
// wrapping metadata.ErrNoClient when no client is available.
func batchFrom(ctx context.Context, rec *metrics.Recorder) (*metadata.Batch, error) {
	logger := svcctx.LoggerFrom(ctx)

	registry := svcctx.RegistryFrom(ctx)
	if registry == nil {
		return nil, metadata.ErrNoClient
	}
	client, _, err := registry.DefaultLLM(svcctx.LLMProviderFrom(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", metadata.ErrNoClient, err)
	}

	maxTokens := 0
	if cfg := svcctx.ConfigFrom(ctx); cfg != nil {
		maxTokens = cfg.Defaults.MaxTokens
	}
	gen, err := metadata.NewGenerator(metadata.GeneratorConfig{
		Client:    client,
		MaxTokens: maxTokens,
		Recorder:  rec,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	return metadata.NewBatch(gen, logger), nil
}

// decodeJSON reads a size-limited JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse = api.ErrorResponse

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

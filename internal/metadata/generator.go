package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/jackzampolin/metagen/internal/metrics"
	"github.com/jackzampolin/metagen/internal/prompts/seo"
	"github.com/jackzampolin/metagen/internal/providers"
	"github.com/jackzampolin/metagen/internal/types"
)

// Base sampling temperature and per-attempt increase.
const (
	baseTemperature = 0.5
	temperatureStep = 0.1
)

// Temperature returns the sampling temperature for an attempt.
func Temperature(attempt int) float64 {
	return baseTemperature + temperatureStep*float64(attempt)
}

// CandidateGenerator performs one generation call.
type CandidateGenerator interface {
	Generate(ctx context.Context, p seo.Prompt, attempt int, previous *types.Candidate) (types.Candidate, error)
}

// GeneratorConfig configures a Generator.
type GeneratorConfig struct {
	// Client is the model service. Required.
	Client providers.LLMClient
	// Model overrides the client's default model when set.
	Model string
	// MaxTokens caps the completion size. Zero leaves it to the provider.
	MaxTokens int
	// Recorder, when set, receives one metric per model call.
	Recorder *metrics.Recorder
	Logger   *slog.Logger
}

// Generator turns a prompt into a candidate with a single call to the model
// service. It does not retry.
type Generator struct {
	client         providers.LLMClient
	model          string
	maxTokens      int
	recorder       *metrics.Recorder
	logger         *slog.Logger
	responseFormat *providers.ResponseFormat
	validation     json.RawMessage
}

// NewGenerator creates a Generator. It fails with ErrNoClient when no client
// is provided.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if cfg.Client == nil {
		return nil, ErrNoClient
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Generator{
		client:    cfg.Client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		recorder:  cfg.Recorder,
		logger:    cfg.Logger,
		responseFormat: &providers.ResponseFormat{
			Type:       "json_schema",
			JSONSchema: seo.ResponseSchemaJSON(),
		},
		validation: seo.ValidationSchemaJSON(),
	}, nil
}

// response mirrors the model's JSON output. Absent and null fields decode
// as "".
type response struct {
	FocusKeyword string `json:"focusKeyword"`
	Title        string `json:"title"`
	Description  string `json:"description"`
}

// Generate sends p to the model and parses the reply. A missing or null
// title or description defaults to "". An empty focus keyword, including a
// missing or null one, falls back to the previous candidate's.
func (g *Generator) Generate(ctx context.Context, p seo.Prompt, attempt int, previous *types.Candidate) (types.Candidate, error) {
	req := &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.User},
		},
		Model:          g.model,
		Temperature:    Temperature(attempt),
		MaxTokens:      g.maxTokens,
		ResponseFormat: g.responseFormat,
	}

	result, err := g.client.Chat(ctx, req)
	if g.recorder != nil {
		if err := g.recorder.RecordLLMCall(metrics.RecordOpts{URL: p.URL, Attempt: attempt}, result); err != nil {
			g.logger.Debug("failed to record model call", "url", p.URL, "attempt", attempt, "error", err)
		}
	}
	if err != nil {
		return types.Candidate{}, transportError(err)
	}
	if result == nil || !result.Success {
		return types.Candidate{}, transportError(errorFromResult(result))
	}

	g.logger.Debug("generation call complete",
		"provider", result.Provider,
		"model", result.ModelUsed,
		"request_id", result.RequestID,
		"attempt", attempt,
		"total_tokens", result.TotalTokens,
	)

	parsed, err := providers.ParseStructuredJSON(result.Text())
	if err != nil {
		return types.Candidate{}, parseError("invalid JSON response: %v", err)
	}
	if err := providers.ValidateStructuredJSON(g.validation, parsed); err != nil {
		return types.Candidate{}, parseError("%v", err)
	}

	var resp response
	if err := json.Unmarshal(parsed, &resp); err != nil {
		return types.Candidate{}, parseError("invalid JSON response: %v", err)
	}

	c := types.Candidate{
		FocusKeyword: resp.FocusKeyword,
		Title:        resp.Title,
		Description:  resp.Description,
	}
	if c.FocusKeyword == "" && previous != nil {
		c.FocusKeyword = previous.FocusKeyword
	}
	return c, nil
}

func errorFromResult(r *providers.ChatResult) error {
	if r == nil {
		return errors.New("model call returned no result")
	}
	if r.ErrorMessage != "" {
		return errors.New(r.ErrorMessage)
	}
	return errors.New("model call was not successful")
}

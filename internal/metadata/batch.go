package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jackzampolin/metagen/internal/providers"
	"github.com/jackzampolin/metagen/internal/types"
	"github.com/jackzampolin/metagen/internal/urls"
)

// Batch runs the retry controller for many URLs at once.
type Batch struct {
	controller *Controller
	logger     *slog.Logger
}

// NewBatch creates a Batch that generates candidates with gen.
func NewBatch(gen CandidateGenerator, logger *slog.Logger) *Batch {
	if logger == nil {
		logger = slog.Default()
	}
	return &Batch{
		controller: NewController(gen, logger),
		logger:     logger,
	}
}

// NewBatchForClient wires a Generator for client into a Batch. It returns
// ErrNoClient when client is nil.
func NewBatchForClient(client providers.LLMClient, model string, logger *slog.Logger) (*Batch, error) {
	gen, err := NewGenerator(GeneratorConfig{Client: client, Model: model, Logger: logger})
	if err != nil {
		return nil, err
	}
	return NewBatch(gen, logger), nil
}

// Process validates raw input text and runs the batch over the URLs found.
func (b *Batch) Process(ctx context.Context, text string) ([]types.Result, error) {
	return b.Run(ctx, urls.Parse(text))
}

// Run generates metadata for every URL concurrently. It returns ErrNoURLs for
// an empty list; otherwise it returns exactly one result per URL, in input
// order, and per-URL failures come back as error results rather than as an
// error.
func (b *Batch) Run(ctx context.Context, list []string) ([]types.Result, error) {
	if len(list) == 0 {
		return nil, ErrNoURLs
	}

	start := time.Now()
	b.logger.Info("starting batch", "urls", len(list))

	results := make([]types.Result, len(list))
	var g errgroup.Group
	for i, u := range list {
		g.Go(func() error {
			results[i] = b.runOne(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Error {
			failed++
		}
	}
	b.logger.Info("batch complete",
		"urls", len(list),
		"failed", failed,
		"duration", time.Since(start),
	)
	return results, nil
}

// runOne isolates a single URL so that even a panic becomes an error result.
func (b *Batch) runOne(ctx context.Context, u string) (res types.Result) {
	defer func() {
		if p := recover(); p != nil {
			b.logger.Error("panic while generating metadata", "url", u, "panic", p)
			res = types.ErrorResult(u, fmt.Sprintf("internal error: %v", p))
		}
	}()
	return b.controller.Run(ctx, u).Result()
}

package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/jackzampolin/metagen/internal/providers"
)

// Recorder collects metrics in memory. It is safe for concurrent use by
// every workflow in a batch.
type Recorder struct {
	mu      sync.Mutex
	metrics []Metric
}

// NewRecorder creates a new metrics recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordOpts provides context for a metric recording.
type RecordOpts struct {
	URL     string
	Attempt int
}

// Record stores a single metric.
func (r *Recorder) Record(m Metric) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.mu.Lock()
	r.metrics = append(r.metrics, m)
	r.mu.Unlock()
}

// RecordLLMCall records metrics from an LLM chat result.
func (r *Recorder) RecordLLMCall(opts RecordOpts, result *providers.ChatResult) error {
	if result == nil {
		return fmt.Errorf("nil chat result")
	}

	r.Record(Metric{
		URL:     opts.URL,
		Attempt: opts.Attempt,

		Provider:  result.Provider,
		Model:     result.ModelUsed,
		RequestID: result.RequestID,

		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
		TotalTokens:      result.TotalTokens,

		ExecutionSeconds: result.ExecutionTime.Seconds(),
		HTTPAttempts:     result.Attempts,

		Success:   result.Success,
		ErrorType: result.ErrorType,
	})
	return nil
}

// List returns the metrics matching the filter in recording order. A
// positive limit keeps only the most recent entries.
func (r *Recorder) List(f Filter, limit int) []Metric {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Metric
	for _, m := range r.metrics {
		if f.match(m) {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Len returns the number of recorded metrics.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.metrics)
}

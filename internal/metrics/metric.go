// Package metrics provides token and latency tracking for generation calls.
package metrics

import "time"

// Metric represents a single recorded model call.
// Metrics are append-only records attributed to the URL being generated.
type Metric struct {
	// Attribution (for filtering/aggregation)
	URL     string `json:"url,omitempty"`
	Attempt int    `json:"attempt"`

	// Provider info
	Provider  string `json:"provider,omitempty"`
	Model     string `json:"model,omitempty"`
	RequestID string `json:"request_id,omitempty"`

	// Tokens
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`

	// Timing
	ExecutionSeconds float64 `json:"execution_seconds,omitempty"`
	HTTPAttempts     int     `json:"http_attempts,omitempty"`

	// Status
	Success   bool   `json:"success"`
	ErrorType string `json:"error_type,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Filter selects metrics. Zero fields match everything.
type Filter struct {
	URL      string
	Provider string
}

func (f Filter) match(m Metric) bool {
	if f.URL != "" && m.URL != f.URL {
		return false
	}
	if f.Provider != "" && m.Provider != f.Provider {
		return false
	}
	return true
}

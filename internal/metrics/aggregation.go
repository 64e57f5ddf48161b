package metrics

import (
	"sort"
	"time"
)

// Summary provides a summary of metrics for a filter.
type Summary struct {
	Calls                 int           `json:"calls" yaml:"calls"`
	SuccessCount          int           `json:"success_count" yaml:"success_count"`
	ErrorCount            int           `json:"error_count" yaml:"error_count"`
	TotalPromptTokens     int           `json:"total_prompt_tokens" yaml:"total_prompt_tokens"`
	TotalCompletionTokens int           `json:"total_completion_tokens" yaml:"total_completion_tokens"`
	TotalTokens           int           `json:"total_tokens" yaml:"total_tokens"`
	TotalTime             time.Duration `json:"total_time" yaml:"total_time"`
	AvgTokens             float64       `json:"avg_tokens" yaml:"avg_tokens"`
	LatencyP50            float64       `json:"latency_p50" yaml:"latency_p50"`
	LatencyP95            float64       `json:"latency_p95" yaml:"latency_p95"`
	LatencyMax            float64       `json:"latency_max" yaml:"latency_max"`
}

// Summary returns a summary of the recorded metrics matching the filter.
func (r *Recorder) Summary(f Filter) Summary {
	return Summarize(r.List(f, 0))
}

// Summarize aggregates metrics. Latencies are in seconds.
func Summarize(metrics []Metric) Summary {
	s := Summary{Calls: len(metrics)}
	if len(metrics) == 0 {
		return s
	}

	latencies := make([]float64, 0, len(metrics))
	for _, m := range metrics {
		if m.Success {
			s.SuccessCount++
		} else {
			s.ErrorCount++
		}
		s.TotalPromptTokens += m.PromptTokens
		s.TotalCompletionTokens += m.CompletionTokens
		s.TotalTokens += m.TotalTokens
		s.TotalTime += time.Duration(m.ExecutionSeconds * float64(time.Second))
		latencies = append(latencies, m.ExecutionSeconds)
	}

	s.AvgTokens = float64(s.TotalTokens) / float64(s.Calls)

	sort.Float64s(latencies)
	s.LatencyP50 = percentile(latencies, 50)
	s.LatencyP95 = percentile(latencies, 95)
	s.LatencyMax = latencies[len(latencies)-1]

	return s
}

// percentile calculates the p-th percentile of sorted values using the
// nearest-rank method.
func percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p*len(sorted) + 99) / 100
	if idx < 1 {
		idx = 1
	}
	if idx > len(sorted) {
		idx = len(sorted)
	}
	return sorted[idx-1]
}

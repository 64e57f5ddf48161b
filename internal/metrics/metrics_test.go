package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/jackzampolin/metagen/internal/providers"
)

func TestRecorder_RecordLLMCall(t *testing.T) {
	r := NewRecorder()

	err := r.RecordLLMCall(RecordOpts{URL: "https://a.example", Attempt: 1}, &providers.ChatResult{
		Provider:         "openrouter",
		ModelUsed:        "google/gemini-2.5-flash",
		RequestID:        "req-1",
		PromptTokens:     100,
		CompletionTokens: 40,
		TotalTokens:      140,
		ExecutionTime:    1500 * time.Millisecond,
		Attempts:         2,
		Success:          true,
	})
	if err != nil {
		t.Fatalf("RecordLLMCall() error = %v", err)
	}

	got := r.List(Filter{}, 0)
	if len(got) != 1 {
		t.Fatalf("List() = %d metrics, want 1", len(got))
	}
	m := got[0]
	if m.URL != "https://a.example" || m.Attempt != 1 {
		t.Errorf("attribution = %s/%d", m.URL, m.Attempt)
	}
	if m.Provider != "openrouter" || m.Model != "google/gemini-2.5-flash" {
		t.Errorf("provider info = %s/%s", m.Provider, m.Model)
	}
	if m.TotalTokens != 140 || m.ExecutionSeconds != 1.5 || m.HTTPAttempts != 2 {
		t.Errorf("unexpected metric: %+v", m)
	}
	if m.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	if err := r.RecordLLMCall(RecordOpts{}, nil); err == nil {
		t.Error("expected error for nil result")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRecorder_List(t *testing.T) {
	r := NewRecorder()
	r.Record(Metric{URL: "https://a.example", Provider: "openrouter"})
	r.Record(Metric{URL: "https://b.example", Provider: "openai"})
	r.Record(Metric{URL: "https://a.example", Provider: "openai"})

	if got := r.List(Filter{URL: "https://a.example"}, 0); len(got) != 2 {
		t.Errorf("filter by URL = %d, want 2", len(got))
	}
	if got := r.List(Filter{Provider: "openai"}, 0); len(got) != 2 {
		t.Errorf("filter by provider = %d, want 2", len(got))
	}
	if got := r.List(Filter{URL: "https://a.example", Provider: "openai"}, 0); len(got) != 1 {
		t.Errorf("combined filter = %d, want 1", len(got))
	}

	last := r.List(Filter{}, 1)
	if len(last) != 1 || last[0].URL != "https://a.example" || last[0].Provider != "openai" {
		t.Errorf("limit should keep the most recent metric, got %+v", last)
	}
}

func TestSummarize(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s := Summarize(nil)
		if s.Calls != 0 || s.AvgTokens != 0 || s.LatencyMax != 0 {
			t.Errorf("unexpected summary: %+v", s)
		}
	})

	t.Run("aggregates", func(t *testing.T) {
		var metrics []Metric
		for i := 1; i <= 10; i++ {
			metrics = append(metrics, Metric{
				PromptTokens:     10,
				CompletionTokens: 5,
				TotalTokens:      15,
				ExecutionSeconds: float64(i),
				Success:          i != 10,
			})
		}

		s := Summarize(metrics)
		if s.Calls != 10 || s.SuccessCount != 9 || s.ErrorCount != 1 {
			t.Errorf("counts = %d/%d/%d", s.Calls, s.SuccessCount, s.ErrorCount)
		}
		if s.TotalPromptTokens != 100 || s.TotalCompletionTokens != 50 || s.TotalTokens != 150 {
			t.Errorf("tokens = %d/%d/%d", s.TotalPromptTokens, s.TotalCompletionTokens, s.TotalTokens)
		}
		if s.AvgTokens != 15 {
			t.Errorf("AvgTokens = %v, want 15", s.AvgTokens)
		}
		if s.TotalTime != 55*time.Second {
			t.Errorf("TotalTime = %v, want 55s", s.TotalTime)
		}
		if s.LatencyP50 != 5 || s.LatencyP95 != 10 || s.LatencyMax != 10 {
			t.Errorf("latency p50/p95/max = %v/%v/%v", s.LatencyP50, s.LatencyP95, s.LatencyMax)
		}
	})

	t.Run("recorder summary honors filter", func(t *testing.T) {
		r := NewRecorder()
		r.Record(Metric{URL: "https://a.example", TotalTokens: 10, Success: true})
		r.Record(Metric{URL: "https://b.example", TotalTokens: 20, Success: true})

		s := r.Summary(Filter{URL: "https://b.example"})
		if s.Calls != 1 || s.TotalTokens != 20 {
			t.Errorf("unexpected summary: %+v", s)
		}
	})
}

func TestRecorder_Concurrent(t *testing.T) {
	r := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Record(Metric{TotalTokens: 1})
		}()
	}
	wg.Wait()
	if s := r.Summary(Filter{}); s.Calls != 50 || s.TotalTokens != 50 {
		t.Errorf("unexpected summary: %+v", s)
	}
}

package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestOpenAI(url string) *OpenAIClient {
	return NewOpenAIClient(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: url,
		Timeout: 5 * time.Second,
	})
}

func writeOpenAICompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			},
		},
		"usage": map[string]any{"prompt_tokens": 7, "completion_tokens": 3, "total_tokens": 10},
	})
}

func TestOpenAIClient_Defaults(t *testing.T) {
	c := NewOpenAIClient(OpenAIConfig{APIKey: "k"})
	if c.Name() != OpenAIName {
		t.Errorf("Name() = %q, want %q", c.Name(), OpenAIName)
	}
	if c.Model() != "gpt-4o-mini" {
		t.Errorf("Model() = %q, want gpt-4o-mini", c.Model())
	}
}

func TestOpenAIClient_Chat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["model"] != "gpt-4o-mini" {
			t.Errorf("model = %v", body["model"])
		}
		rf, _ := body["response_format"].(map[string]any)
		if rf["type"] != "json_schema" {
			t.Errorf("response_format.type = %v", rf["type"])
		}
		js, _ := rf["json_schema"].(map[string]any)
		if js["name"] != "seo_metadata" {
			t.Errorf("json_schema.name = %v", js["name"])
		}
		if js["strict"] != true {
			t.Errorf("json_schema.strict = %v", js["strict"])
		}
		msgs, _ := body["messages"].([]any)
		if len(msgs) != 2 {
			t.Errorf("messages = %d, want 2", len(msgs))
		}

		writeOpenAICompletion(w, `{"pageTitle":"T"}`)
	}))
	defer server.Close()

	c := newTestOpenAI(server.URL)
	result, err := c.Chat(context.Background(), &ChatRequest{
		Messages: []Message{
			{Role: "system", Content: "be terse"},
			{Role: "user", Content: "hi"},
		},
		Temperature:    0.6,
		MaxTokens:      128,
		ResponseFormat: &ResponseFormat{Type: "json_schema", JSONSchema: json.RawMessage(testSchema)},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if !result.Success {
		t.Error("Success = false, want true")
	}
	if string(result.ParsedJSON) != `{"pageTitle":"T"}` {
		t.Errorf("ParsedJSON = %s", result.ParsedJSON)
	}
	if result.TotalTokens != 10 {
		t.Errorf("TotalTokens = %d, want 10", result.TotalTokens)
	}
	if result.Provider != OpenAIName {
		t.Errorf("Provider = %q", result.Provider)
	}
}

func TestOpenAIClient_ErrorStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"upstream failure","type":"server_error"}}`))
	}))
	defer server.Close()

	c := newTestOpenAI(server.URL)
	result, err := c.Chat(context.Background(), &ChatRequest{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("error = %q, want status 500", err.Error())
	}
	if result.ErrorType != "http_error" {
		t.Errorf("ErrorType = %q, want http_error", result.ErrorType)
	}
	if calls.Load() != 1 {
		t.Errorf("server calls = %d, want 1", calls.Load())
	}
}

func TestOpenAIClient_InvalidSchema(t *testing.T) {
	c := newTestOpenAI("http://127.0.0.1:0")
	result, err := c.Chat(context.Background(), &ChatRequest{
		Messages:       []Message{{Role: "user", Content: "hi"}},
		ResponseFormat: &ResponseFormat{Type: "json_schema", JSONSchema: json.RawMessage(`not json`)},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if result.ErrorType != "schema_error" {
		t.Errorf("ErrorType = %q, want schema_error", result.ErrorType)
	}
}

package providers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMockClient(t *testing.T) {
	t.Run("chat", func(t *testing.T) {
		c := NewMockClient()
		c.ResponseText = "hello world"

		result, err := c.Chat(context.Background(), &ChatRequest{
			Model:    "test-model",
			Messages: []Message{{Role: "user", Content: "test"}},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if !result.Success {
			t.Errorf("Success = false, want true")
		}
		if result.Content != "hello world" {
			t.Errorf("Content = %q, want %q", result.Content, "hello world")
		}
		if result.ModelUsed != "test-model" {
			t.Errorf("ModelUsed = %q, want test-model", result.ModelUsed)
		}
		if c.RequestCount() != 1 {
			t.Errorf("RequestCount = %d, want 1", c.RequestCount())
		}
	})

	t.Run("structured output", func(t *testing.T) {
		c := NewMockClient()
		c.ResponseJSON = json.RawMessage(`{"key": "value"}`)

		result, err := c.Chat(context.Background(), &ChatRequest{
			Messages:       []Message{{Role: "user", Content: "test"}},
			ResponseFormat: &ResponseFormat{Type: "json_schema"},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if string(result.ParsedJSON) != `{"key":"value"}` {
			t.Errorf("ParsedJSON = %s", result.ParsedJSON)
		}
	})

	t.Run("respond callback", func(t *testing.T) {
		c := NewMockClient()
		c.Respond = func(req *ChatRequest, call int) (string, error) {
			if call == 2 {
				return "", errors.New("second call fails")
			}
			return req.Messages[0].Content, nil
		}

		result, err := c.Chat(context.Background(), &ChatRequest{Messages: []Message{{Role: "user", Content: "echo"}}})
		if err != nil {
			t.Fatalf("first call error = %v", err)
		}
		if result.Content != "echo" {
			t.Errorf("Content = %q, want echo", result.Content)
		}

		result, err = c.Chat(context.Background(), &ChatRequest{Messages: []Message{{Role: "user", Content: "echo"}}})
		if err == nil {
			t.Fatal("second call should fail")
		}
		if result.Success {
			t.Error("Success = true on failed call")
		}
	})

	t.Run("failure", func(t *testing.T) {
		c := NewMockClient()
		c.ShouldFail = true

		result, err := c.Chat(context.Background(), &ChatRequest{})
		if err == nil {
			t.Error("expected error, got nil")
		}
		if result.Success {
			t.Error("expected Success = false")
		}
	})

	t.Run("fail after N", func(t *testing.T) {
		c := NewMockClient()
		c.FailAfter = 2

		for i := 0; i < 2; i++ {
			if _, err := c.Chat(context.Background(), &ChatRequest{}); err != nil {
				t.Fatalf("request %d should succeed: %v", i+1, err)
			}
		}
		if _, err := c.Chat(context.Background(), &ChatRequest{}); err == nil {
			t.Error("third request should fail")
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		c := NewMockClient()
		c.Latency = 5 * time.Second

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.Chat(ctx, &ChatRequest{})
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("requests and reset", func(t *testing.T) {
		c := NewMockClient()
		c.Chat(context.Background(), &ChatRequest{Temperature: 0.7})
		c.Chat(context.Background(), &ChatRequest{Temperature: 0.6})

		reqs := c.Requests()
		if len(reqs) != 2 {
			t.Fatalf("Requests() = %d, want 2", len(reqs))
		}
		if reqs[1].Temperature != 0.6 {
			t.Errorf("second temperature = %v, want 0.6", reqs[1].Temperature)
		}

		c.Reset()
		if c.RequestCount() != 0 || len(c.Requests()) != 0 {
			t.Error("Reset() should clear state")
		}
	})

	t.Run("concurrent use", func(t *testing.T) {
		c := NewMockClient()
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Chat(context.Background(), &ChatRequest{})
			}()
		}
		wg.Wait()
		if c.RequestCount() != 20 {
			t.Errorf("RequestCount = %d, want 20", c.RequestCount())
		}
	})
}

func TestChatResult_Text(t *testing.T) {
	var nilResult *ChatResult
	if nilResult.Text() != "" {
		t.Error("nil result should have empty text")
	}

	r := &ChatResult{Content: "raw"}
	if r.Text() != "raw" {
		t.Errorf("Text() = %q, want raw", r.Text())
	}

	r.ParsedJSON = json.RawMessage(`{"a":1}`)
	if r.Text() != `{"a":1}` {
		t.Errorf("Text() = %q, want parsed JSON", r.Text())
	}
}

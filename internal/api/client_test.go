package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/health" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	var resp struct {
		Status string `json:"status"`
	}
	if err := NewClient(srv.URL).Get(context.Background(), "/health", &resp); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected ok, got %s", resp.Status)
	}
}

func TestClient_Post(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %s", ct)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"echo": body["text"]})
	}))
	defer srv.Close()

	var resp map[string]string
	err := NewClient(srv.URL).Post(context.Background(), "/api/metadata", map[string]string{"text": "https://a.com"}, &resp)
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if resp["echo"] != "https://a.com" {
		t.Errorf("expected echo, got %v", resp)
	}
}

func TestClient_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/json":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"please provide at least one valid URL"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream down"))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	err := client.Post(context.Background(), "/json", nil, nil)
	if err == nil || err.Error() != "server error (400): please provide at least one valid URL" {
		t.Errorf("unexpected error: %v", err)
	}

	_, err = client.PostRaw(context.Background(), "/plain", nil)
	if err == nil || err.Error() != "server error (502): upstream down" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClient_PostRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Write([]byte("a,b\n\"1\",\"2\""))
	}))
	defer srv.Close()

	data, err := NewClient(srv.URL).PostRaw(context.Background(), "/api/metadata/export", map[string]string{})
	if err != nil {
		t.Fatalf("PostRaw failed: %v", err)
	}
	if !strings.HasPrefix(string(data), "a,b\n") {
		t.Errorf("unexpected body %q", data)
	}
}

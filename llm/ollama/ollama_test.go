package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/voxpersona/errors"
	"github.com/kbukum/voxpersona/llm"
)

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Stream {
			t.Error("stream must be false")
		}
		if req.Model != "llama3" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 3 || req.Messages[0].Role != "system" || req.Messages[0].Content != "be brief" {
			t.Errorf("messages = %+v", req.Messages)
		}
		want := chatOptions{Temperature: 0.7, TopP: 0.9, TopK: 40, RepeatPenalty: 1.1, NumPredict: 1024, NumCtx: 4096}
		if req.Options != want {
			t.Errorf("options = %+v, want %+v", req.Options, want)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":             "llama3",
			"message":           map[string]string{"role": "assistant", "content": "hi there"},
			"done":              true,
			"prompt_eval_count": 12,
			"eval_count":        3,
		})
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})
	resp, err := p.Complete(context.Background(), llm.CompletionRequest{
		Model:        "llama3",
		SystemPrompt: "be brief",
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "hello"},
			{Role: llm.RoleUser, Content: "again"},
		},
		Options: llm.Options{Temperature: 0.7, TopP: 0.9, TopK: 40, RepeatPenalty: 1.1, MaxTokens: 1024, ContextWindow: 4096},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "hi there" || resp.Usage.TotalTokens != 15 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestCompleteDefaultModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != DefaultModel {
			t.Errorf("model = %q", req.Model)
		}
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"ok"},"done":true}`))
	}))
	defer srv.Close()

	if _, err := NewProvider(Config{BaseURL: srv.URL}).Complete(context.Background(), llm.CompletionRequest{}); err != nil {
		t.Fatal(err)
	}
}

func TestCompleteModelMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'nope' not found"}`))
	}))
	defer srv.Close()

	_, err := NewProvider(Config{BaseURL: srv.URL}).Complete(context.Background(), llm.CompletionRequest{Model: "nope"})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.IsRetryable(err) {
		t.Errorf("404 should not be retryable: %v", err)
	}
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"mistral:instruct","size":4100000000},{"name":"llama3:latest","size":1}]}`))
		case "/api/version":
			_, _ = w.Write([]byte(`{"version":"0.3.0"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL + "/"})
	models, err := p.ListModels(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(models) != 2 || models[0].Name != "mistral:instruct" {
		t.Errorf("models = %+v", models)
	}
	if !p.IsAvailable(context.Background()) {
		t.Error("expected available")
	}
}

func TestFactory(t *testing.T) {
	p, err := Factory(map[string]any{"base_url": "http://gpu:11434", "model": "phi3", "timeout": "30s"})
	if err != nil {
		t.Fatal(err)
	}
	op := p.(*Provider)
	if op.cfg.BaseURL != "http://gpu:11434" || op.cfg.Model != "phi3" || op.cfg.Timeout.Seconds() != 30 {
		t.Errorf("cfg = %+v", op.cfg)
	}
}

package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pitchmate-backend/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient("test-key", "gemini-2.0-flash")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.baseURL = srv.URL
	return client, srv
}

func TestGenerateEmailReturnsModelText(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.0-flash:generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in query")
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || !strings.Contains(req.Contents[0].Parts[0].Text, "Follow up") {
			t.Errorf("prompt missing topic")
		}

		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Dear team,"},{"text":" following up."}]}}]}`))
	})

	out, err := client.GenerateEmail(context.Background(), llm.EmailInput{
		Topic:       "Follow up",
		Tone:        "Formal",
		Description: "after interview",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "Dear team, following up." {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestGenerateSurfacesAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
	})

	_, err := client.AnalyzeResume(context.Background(), "resume", "Engineer")
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestGenerateRejectsEmptyCandidates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.AnalyzeResume(context.Background(), "resume", "Engineer")
	if err == nil || !strings.Contains(err.Error(), "no response") {
		t.Fatalf("expected no-response error, got %v", err)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "model"); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewClient("key", ""); err == nil {
		t.Fatal("expected error for missing model")
	}
}

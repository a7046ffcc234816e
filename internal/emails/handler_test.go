package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"pitchmate-backend/internal/llm"
	"pitchmate-backend/internal/notify"
	"pitchmate-backend/internal/shared/auth"
	"pitchmate-backend/internal/shared/server/middleware"
	"pitchmate-backend/internal/users"
)

type fakeLLM struct {
	generated string
	err       error
	lastInput llm.EmailInput
}

func (f *fakeLLM) GenerateEmail(_ context.Context, input llm.EmailInput) (string, error) {
	f.lastInput = input
	return f.generated, f.err
}

func (f *fakeLLM) AnalyzeResume(context.Context, string, string) (string, error) {
	return "", errors.New("not implemented")
}

type testEnv struct {
	router  *gin.Engine
	repo    *MemoryRepo
	llm     *fakeLLM
	cookie  *http.Cookie
	userID  string
	limiter *middleware.RateLimiter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo := users.NewMemoryRepo()
	user, err := userRepo.Create(context.Background(), users.User{
		ID:       "user-1",
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "hash",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	repo := NewMemoryRepo()
	client := &fakeLLM{generated: "Dear team, following up on the invoice."}
	svc := NewService(repo, userRepo, client, notify.NewService(nil, "http://localhost:5173"))
	handler := NewHandler(svc)

	tokens := auth.NewTokenService("test-secret")
	token, err := tokens.Sign(user.ID)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	limiter := middleware.NewRateLimiter(nil)
	router := gin.New()
	api := router.Group("/api/email")
	handler.Routes(api,
		middleware.Session(tokens),
		middleware.RateLimit(limiter, middleware.RateLimitRule{Rate: 100, Burst: 100}),
	)

	return &testEnv{
		router:  router,
		repo:    repo,
		llm:     client,
		cookie:  &http.Cookie{Name: auth.CookieName, Value: token},
		userID:  user.ID,
		limiter: limiter,
	}
}

func postJSON(t *testing.T, path string, payload any, cookie *http.Cookie) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func TestGenerateDraftsAndPersists(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"topic":       "Invoice follow-up",
		"tone":        ToneFormal,
		"description": "Chasing an overdue invoice politely",
		"name":        "Ada Lovelace",
	}
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, postJSON(t, "/api/email/gen", payload, env.cookie))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["email"] != env.llm.generated || body["success"] != true {
		t.Fatalf("unexpected body: %v", body)
	}
	if env.llm.lastInput.Topic != "Invoice follow-up" || env.llm.lastInput.Name != "Ada Lovelace" {
		t.Fatalf("prompt input not forwarded: %+v", env.llm.lastInput)
	}

	records, err := env.repo.ListByUser(context.Background(), env.userID)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 persisted record, got %d", len(records))
	}
	rec := records[0]
	if rec.GeneratedEmail != env.llm.generated || rec.Tone != ToneFormal || rec.Count != 0 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestGenerateValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name    string
		payload map[string]string
		message string
	}{
		{
			name:    "missing description",
			payload: map[string]string{"topic": "Hi", "tone": ToneCasual},
			message: "All fields are required.",
		},
		{
			name:    "unknown tone",
			payload: map[string]string{"topic": "Hi", "tone": "Sarcastic", "description": "d"},
			message: "Invalid tone selected",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			env.router.ServeHTTP(resp, postJSON(t, "/api/email/gen", tc.payload, env.cookie))
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if body["message"] != tc.message || body["success"] != false {
				t.Fatalf("unexpected body: %v", body)
			}
		})
	}

	records, _ := env.repo.ListByUser(context.Background(), env.userID)
	if len(records) != 0 {
		t.Fatalf("validation failures must not persist, got %d records", len(records))
	}
}

func TestGenerateRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{"topic": "Hi", "tone": ToneCasual, "description": "d"}
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, postJSON(t, "/api/email/gen", payload, nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", resp.Code)
	}
}

func TestGenerateSurfacesGatewayFailure(t *testing.T) {
	env := newTestEnv(t)
	env.llm.err = errors.New("quota exceeded")

	payload := map[string]string{"topic": "Hi", "tone": ToneCasual, "description": "d"}
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, postJSON(t, "/api/email/gen", payload, env.cookie))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["message"] != "Failed to generate email." {
		t.Fatalf("unexpected body: %v", body)
	}

	records, _ := env.repo.ListByUser(context.Background(), env.userID)
	if len(records) != 0 {
		t.Fatalf("gateway failure must not persist, got %d records", len(records))
	}
}

func TestSampleIsPublicAndStateless(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{"topic": "Hi", "tone": TonePersuasive, "description": "d"}
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, postJSON(t, "/api/email/gen/sample", payload, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["email"] != env.llm.generated {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, exists := body["success"]; exists {
		t.Fatalf("sample response carries no success flag: %v", body)
	}

	records, _ := env.repo.ListByUser(context.Background(), env.userID)
	if len(records) != 0 {
		t.Fatalf("sample must not persist, got %d records", len(records))
	}
}

func TestSampleRateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)

	userRepo := users.NewMemoryRepo()
	svc := NewService(NewMemoryRepo(), userRepo, &fakeLLM{generated: "hi"}, notify.NewService(nil, ""))
	handler := NewHandler(svc)
	tokens := auth.NewTokenService("test-secret")

	router := gin.New()
	api := router.Group("/api/email")
	handler.Routes(api,
		middleware.Session(tokens),
		middleware.RateLimit(middleware.NewRateLimiter(nil), middleware.RateLimitRule{Rate: 0.01, Burst: 2}),
	)

	payload := map[string]string{"topic": "Hi", "tone": ToneCasual, "description": "d"}
	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, postJSON(t, "/api/email/gen/sample", payload, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, postJSON(t, "/api/email/gen/sample", payload, nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	env := newTestEnv(t)

	base := time.Now().UTC().Add(-48 * time.Hour)
	for i, topic := range []string{"first", "second", "third"} {
		if _, err := env.repo.Create(context.Background(), Email{
			ID:             topic,
			UserID:         env.userID,
			Topic:          topic,
			Tone:           ToneFormal,
			Description:    "d",
			GeneratedEmail: "body",
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
		}); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/email/history", nil)
	req.AddCookie(env.cookie)
	resp := httptest.NewRecorder()
	env.router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		History []Email `json:"history"`
		Success bool    `json:"success"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success || len(body.History) != 3 {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.History[0].Topic != "third" || body.History[2].Topic != "first" {
		t.Fatalf("history not newest-first: %+v", body.History)
	}
}

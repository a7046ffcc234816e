package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"pitchmate-backend/internal/notify"
	"pitchmate-backend/internal/shared/auth"
	"pitchmate-backend/internal/shared/server/middleware"
)

type fakeStore struct {
	saved   map[string][]byte
	failing bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[string][]byte)}
}

func (s *fakeStore) Save(_ context.Context, userID, fileName string, r io.Reader) (string, int64, string, error) {
	if s.failing {
		return "", 0, "", errors.New("store unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := userID + "/" + fileName
	s.saved[key] = data
	return key, int64(len(data)), "image/png", nil
}

func (s *fakeStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.saved[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStore) URL(key string) string {
	return "/files/" + key
}

func newTestRouter(t *testing.T, repo Repo, store *fakeStore) (*gin.Engine, *auth.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := NewService(repo, store, notify.NewService(nil, "http://localhost:5173"))
	tokens := auth.NewTokenService("test-secret")
	handler := NewHandler(svc, tokens, false)

	router := gin.New()
	api := router.Group("/api/auth")
	handler.Routes(api, middleware.Session(tokens))
	return router, tokens
}

func registerForm(name, email, password string) *http.Request {
	form := url.Values{}
	form.Set("name", name)
	form.Set("email", email)
	form.Set("password", password)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestRegisterCreatesUser(t *testing.T) {
	repo := NewMemoryRepo()
	router, _ := newTestRouter(t, repo, newFakeStore())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, registerForm("Ada", "ada@example.com", "secret1"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	body := decodeBody(t, resp)
	if body["message"] != "User created successfully" || body["success"] != true {
		t.Fatalf("unexpected body: %v", body)
	}

	user, err := repo.GetByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if user.Password == "secret1" {
		t.Fatal("password stored in plaintext")
	}
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	router, _ := newTestRouter(t, NewMemoryRepo(), newFakeStore())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, registerForm("Ada", "", "secret1"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if decodeBody(t, resp)["message"] != "Please fill all the fields" {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := NewMemoryRepo()
	router, _ := newTestRouter(t, repo, newFakeStore())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, registerForm("Ada", "ada@example.com", "secret1"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, registerForm("Ada Again", "Ada@Example.com", "secret2"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", resp.Code)
	}
	if decodeBody(t, resp)["message"] != "User already exists" {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestRegisterStoresProfilePic(t *testing.T) {
	repo := NewMemoryRepo()
	store := newFakeStore()
	router, _ := newTestRouter(t, repo, store)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "Ada")
	_ = mw.WriteField("email", "ada@example.com")
	_ = mw.WriteField("password", "secret1")
	part, err := mw.CreateFormFile("profilePic", "avatar.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	user, err := repo.GetByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if user.ProfilePic == "" || !strings.HasPrefix(user.ProfilePic, "/files/") {
		t.Fatalf("expected stored profile pic URL, got %q", user.ProfilePic)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected one stored object, got %d", len(store.saved))
	}
}

func TestRegisterAbortsWhenUploadFails(t *testing.T) {
	repo := NewMemoryRepo()
	store := newFakeStore()
	store.failing = true
	router, _ := newTestRouter(t, repo, store)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "Ada")
	_ = mw.WriteField("email", "ada@example.com")
	_ = mw.WriteField("password", "secret1")
	part, _ := mw.CreateFormFile("profilePic", "avatar.png")
	_, _ = part.Write([]byte("png-bytes"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if decodeBody(t, resp)["message"] != "Image upload failed" {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}

	if _, err := repo.GetByEmail(context.Background(), "ada@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected no user after failed upload, got %v", err)
	}
}

func registerFormWithAvatar(t *testing.T, name, email, password string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", name)
	_ = mw.WriteField("email", email)
	_ = mw.WriteField("password", password)
	part, err := mw.CreateFormFile("profilePic", "avatar.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestRegisterDuplicateStoresNoAvatar(t *testing.T) {
	repo := NewMemoryRepo()
	store := newFakeStore()
	router, _ := newTestRouter(t, repo, store)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, registerForm("Ada", "ada@example.com", "secret1"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, registerFormWithAvatar(t, "Ada Again", "ada@example.com", "secret2"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", resp.Code)
	}
	if decodeBody(t, resp)["message"] != "User already exists" {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
	if len(store.saved) != 0 {
		t.Fatalf("duplicate registration must not store an avatar, found %d objects", len(store.saved))
	}
}

func loginRequestBody(t *testing.T, email, password string) *http.Request {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		t.Fatalf("marshal login body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestLoginSetsSessionCookie(t *testing.T) {
	repo := NewMemoryRepo()
	router, tokens := newTestRouter(t, repo, newFakeStore())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, registerForm("Ada", "ada@example.com", "secret1"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, loginRequestBody(t, "ada@example.com", "secret1"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	body := decodeBody(t, resp)
	if body["message"] != "User logged in successfully" {
		t.Fatalf("unexpected body: %v", body)
	}
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user object, got %v", body["user"])
	}
	if user["email"] != "ada@example.com" {
		t.Fatalf("unexpected user payload: %v", user)
	}
	if _, exists := user["password"]; exists {
		t.Fatal("password hash leaked in login response")
	}

	var session *http.Cookie
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == auth.CookieName {
			session = cookie
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("expected session cookie to be set")
	}
	if !session.HttpOnly {
		t.Fatal("session cookie must be HTTP-only")
	}
	if _, err := tokens.Verify(session.Value); err != nil {
		t.Fatalf("session cookie does not verify: %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := NewMemoryRepo()
	router, _ := newTestRouter(t, repo, newFakeStore())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, registerForm("Ada", "ada@example.com", "secret1"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, loginRequestBody(t, "ada@example.com", "wrong"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if decodeBody(t, resp)["message"] != "Invalid credentials" {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, loginRequestBody(t, "nobody@example.com", "secret1"))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if decodeBody(t, resp)["message"] != "User not found" {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestLogoutClearsCookieAndIsIdempotent(t *testing.T) {
	router, _ := newTestRouter(t, NewMemoryRepo(), newFakeStore())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/logout", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
		if decodeBody(t, resp)["message"] != "User logged out successfully" {
			t.Fatalf("unexpected body: %s", resp.Body.String())
		}

		var cleared bool
		for _, cookie := range resp.Result().Cookies() {
			if cookie.Name == auth.CookieName && cookie.MaxAge < 0 {
				cleared = true
			}
		}
		if !cleared {
			t.Fatal("expected session cookie to be expired")
		}
	}
}

func TestMeRequiresSession(t *testing.T) {
	repo := NewMemoryRepo()
	router, tokens := newTestRouter(t, repo, newFakeStore())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without cookie, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, registerForm("Ada", "ada@example.com", "secret1"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.Code)
	}
	user, err := repo.GetByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	token, err := tokens.Sign(user.ID)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	body := decodeBody(t, resp)
	me, ok := body["user"].(map[string]any)
	if !ok || me["name"] != "Ada" {
		t.Fatalf("unexpected profile payload: %v", body)
	}
}

package httpclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	// Packages
	chi "github.com/go-chi/chi/v5"
	glog "github.com/goliatone/go-logger/glog"
	httpclient "github.com/mutablelogic/go-chat/pkg/httpclient"
	schema "github.com/mutablelogic/go-chat/pkg/schema"
	store "github.com/mutablelogic/go-chat/pkg/store"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// MOCK API SERVER

const (
	validToken     = "T"
	forbiddenToken = "forbidden"
	codedToken     = "coded-unauthorized"
	codedForbidden = "coded-forbidden"
	historyID1     = "0b6c8d4e-2f7a-4f3e-9a55-3c1a7f0e8b21"
	historyID2     = "5e2d9c1b-7a4f-4c8e-b0d3-9f6a2e1c4b77"
)

type recorded struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          []byte
}

type mockServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recorded
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()

	mock := new(mockServer)
	r := chi.NewRouter()
	r.Use(mock.record)
	r.Route("/api", func(r chi.Router) {
		r.Post("/token", mock.token)
		r.Post("/login/google", mock.google)
		r.Post("/register", mock.register)
		r.Get("/verify-token/{token}", mock.verify)
		r.Group(func(r chi.Router) {
			r.Use(mock.authenticate)
			r.Post("/chat/token", mock.chatToken)
			r.Get("/chat/history", mock.history)
			r.Post("/chat", mock.chat)
			r.Delete("/chat/{id}", mock.deleteChat)
		})
	})

	mock.Server = httptest.NewServer(r)
	t.Cleanup(mock.Server.Close)
	return mock
}

// Endpoint returns the API base address.
func (m *mockServer) Endpoint() string {
	return m.Server.URL + "/api"
}

// Requests returns the requests received so far.
func (m *mockServer) Requests() []recorded {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recorded(nil), m.requests...)
}

func (m *mockServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(data)))
		m.mu.Lock()
		m.requests = append(m.requests, recorded{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          data,
		})
		m.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (m *mockServer) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer " + validToken:
			next.ServeHTTP(w, r)
		case "Bearer " + forbiddenToken:
			writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Token is invalid or expired"})
		case "Bearer " + codedToken:
			_ = httpresponse.Error(w, httpresponse.ErrNotAuthorized)
		case "Bearer " + codedForbidden:
			_ = httpresponse.Error(w, httpresponse.ErrForbidden)
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
		}
	})
}

func (m *mockServer) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	switch username := r.FormValue("username"); {
	case username == "malformed@b.com":
		writeJSON(w, http.StatusOK, map[string]any{"token_type": "bearer"})
	case username == "a@b.com" && r.FormValue("password") == "pw":
		writeJSON(w, http.StatusOK, loginBody("a@b.com"))
	default:
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
	}
}

func (m *mockServer) google(w http.ResponseWriter, r *http.Request) {
	var req schema.GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	if req.Token != "gtok" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid Google token"})
		return
	}
	writeJSON(w, http.StatusOK, loginBody("g@b.com"))
}

func (m *mockServer) register(w http.ResponseWriter, r *http.Request) {
	var req schema.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	if req.Email == "a@b.com" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Email already registered"})
		return
	}
	writeJSON(w, http.StatusOK, "User created correctly")
}

func (m *mockServer) verify(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "token") != validToken {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Token is invalid or expired"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Token is valid"})
}

func (m *mockServer) chatToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"token": "chat-token"})
}

func (m *mockServer) history(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, `[
		{"id":"`+historyID1+`","user_id":1,"prompt":"go","response":{"message":"hello"},"created_at":"2026-01-02T03:04:05Z"},
		{"id":"`+historyID2+`","user_id":1,"prompt":"rust","response":{"data":{"id":"root","title":"Rust","description":"","resources":[]}}}
	]`)
}

func (m *mockServer) chat(w http.ResponseWriter, r *http.Request) {
	var req schema.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	switch req.Prompt {
	case "fail":
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Unexpected error"})
	case "coded-fail":
		_ = httpresponse.Error(w, httpresponse.ErrInternalError, "Unexpected error")
	case "coded-unavailable":
		_ = httpresponse.Error(w, httpresponse.ErrServiceUnavailable)
	case "malformed":
		writeJSON(w, http.StatusOK, map[string]any{})
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"id":          "root",
				"title":       req.Prompt,
				"description": "A roadmap",
				"resources":   []map[string]string{{"title": "Tour", "url": "https://go.dev/tour", "type": "tutorial"}},
				"children": []map[string]any{
					{"id": "basics", "title": "Basics", "description": "", "resources": []any{}},
				},
			},
		})
	}
}

// deleteChat routes on the escaped path, so the id is decoded once here
func (m *mockServer) deleteChat(w http.ResponseWriter, r *http.Request) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat " + id + " deleted"})
}

func loginBody(email string) map[string]any {
	return map[string]any{
		"access_token": validToken,
		"token_type":   "bearer",
		"user":         map[string]any{"id": 1, "email": email},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

///////////////////////////////////////////////////////////////////////////////
// CLIENT HELPERS

// expiredRecorder counts calls to the session-expired function.
type expiredRecorder struct {
	mu        sync.Mutex
	redirects []string
}

func (e *expiredRecorder) fn(_ context.Context, redirect string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.redirects = append(e.redirects, redirect)
}

func (e *expiredRecorder) Redirects() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.redirects...)
}

type fixture struct {
	client  *httpclient.Client
	store   *store.MemoryStore
	expired *expiredRecorder
	logger  *captureLogger
}

func newFixture(t *testing.T, endpoint string) *fixture {
	t.Helper()

	s, err := store.NewMemoryStore("")
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{store: s, expired: new(expiredRecorder), logger: new(captureLogger)}
	f.client, err = httpclient.New(endpoint,
		httpclient.WithStore(s),
		httpclient.WithSessionExpired(f.expired.fn),
		httpclient.WithLogger(f.logger),
	)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// loggedIn stores a credential and session identity directly.
func (f *fixture) loggedIn(t *testing.T, token string) {
	t.Helper()
	ctx := context.Background()
	if err := f.store.Set(ctx, schema.TokenKey, token); err != nil {
		t.Fatal(err)
	}
	if err := f.store.Set(ctx, schema.UserKey, `{"id":1,"email":"a@b.com"}`); err != nil {
		t.Fatal(err)
	}
}

///////////////////////////////////////////////////////////////////////////////
// CAPTURE LOGGER

var _ glog.Logger = (*captureLogger)(nil)

type logEntry struct {
	level string
	msg   string
	args  []any
}

type captureLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *captureLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *captureLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *captureLogger) WithContext(context.Context) glog.Logger {
	return l
}

func (l *captureLogger) record(level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: append([]any(nil), args...)})
}

func (l *captureLogger) Entries(level string) []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var result []logEntry
	for _, entry := range l.entries {
		if entry.level == level {
			result = append(result, entry)
		}
	}
	return result
}

package auth

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/codr1/Clubhouse/internal/config"
	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/ratelimit"
	"github.com/codr1/Clubhouse/internal/testutil"
)

func setupAuthHandlers(t *testing.T, openRegistration bool) *dbgen.Queries {
	t.Helper()

	database := testutil.NewTestDB(t)
	cfg := &config.Config{}
	cfg.App.SecretKey = "test-secret"
	cfg.App.Environment = "development"
	cfg.Players.DefaultPhoneRegion = "US"
	cfg.Features.OpenRegistration = openRegistration

	rl := ratelimit.New(&ratelimit.Config{
		LoginMaxAttempts:  2,
		LoginLockout:      time.Minute,
		LoginMaxIPPerHour: 100,
		Clock:             clockwork.NewFakeClock(),
	})

	prevClock := clock
	clock = clockwork.NewRealClock()
	InitHandlers(database.Queries, cfg, rl)
	t.Cleanup(func() {
		rl.Close()
		queries = nil
		appConfig = nil
		limiter = nil
		clock = prevClock
		queriesOnce = sync.Once{}
	})
	return database.Queries
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:5000"
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func TestRegisterThenLogin(t *testing.T) {
	setupAuthHandlers(t, false)

	resp := postJSON(t, HandleRegister, "/api/auth/register", map[string]any{
		"name":     "Alex Coach",
		"email":    "Alex@Club.test",
		"password": "supersecret",
		"phone":    "(415) 555-2671",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("register status: %d body: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		Message string `json:"message"`
		User    struct {
			Email string `json:"email"`
			Phone string `json:"phone"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.User.Email != "alex@club.test" || created.User.Phone != "+14155552671" {
		t.Fatalf("unexpected user: %+v", created.User)
	}

	resp = postJSON(t, HandleLogin, "/api/auth/login", map[string]any{
		"email":    "alex@club.test",
		"password": "supersecret",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("login status: %d body: %s", resp.Code, resp.Body.String())
	}
	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != authCookieName || cookies[0].Value == "" {
		t.Fatalf("expected auth cookie, got %+v", cookies)
	}
}

func TestRegisterClosedAfterFirstAccount(t *testing.T) {
	q := setupAuthHandlers(t, false)
	if _, err := q.CreateUser(context.Background(), dbgen.CreateUserParams{
		Email: "first@club.test", PasswordHash: "x", Name: "First",
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	resp := postJSON(t, HandleRegister, "/api/auth/register", map[string]any{
		"name": "Second", "email": "second@club.test", "password": "supersecret",
	})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setupAuthHandlers(t, true)

	body := map[string]any{"name": "Alex", "email": "alex@club.test", "password": "supersecret"}
	if resp := postJSON(t, HandleRegister, "/api/auth/register", body); resp.Code != http.StatusCreated {
		t.Fatalf("first register: %d", resp.Code)
	}
	body["email"] = "ALEX@club.test"
	resp := postJSON(t, HandleRegister, "/api/auth/register", body)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body: %s", resp.Code, resp.Body.String())
	}
}

func TestRegisterValidation(t *testing.T) {
	setupAuthHandlers(t, true)

	resp := postJSON(t, HandleRegister, "/api/auth/register", map[string]any{
		"name": "Alex", "email": "not-an-email", "password": "supersecret",
	})
	if resp.Code != http.StatusBadRequest || !strings.Contains(resp.Body.String(), "email must be a valid email address") {
		t.Fatalf("unexpected response: %d %s", resp.Code, resp.Body.String())
	}

	resp = postJSON(t, HandleRegister, "/api/auth/register", map[string]any{
		"name": "Alex", "email": "alex@club.test", "password": "short",
	})
	if resp.Code != http.StatusBadRequest || !strings.Contains(resp.Body.String(), ErrPasswordTooShort.Error()) {
		t.Fatalf("unexpected response: %d %s", resp.Code, resp.Body.String())
	}
}

func TestLoginLockout(t *testing.T) {
	setupAuthHandlers(t, true)
	if resp := postJSON(t, HandleRegister, "/api/auth/register", map[string]any{
		"name": "Alex", "email": "alex@club.test", "password": "supersecret",
	}); resp.Code != http.StatusCreated {
		t.Fatalf("register: %d", resp.Code)
	}

	for i := 0; i < 2; i++ {
		resp := postJSON(t, HandleLogin, "/api/auth/login", map[string]any{"email": "alex@club.test", "password": "wrong-password"})
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, resp.Code)
		}
	}

	resp := postJSON(t, HandleLogin, "/api/auth/login", map[string]any{"email": "alex@club.test", "password": "supersecret"})
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after lockout, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestFormLoginRedirects(t *testing.T) {
	setupAuthHandlers(t, true)
	if resp := postJSON(t, HandleRegister, "/api/auth/register", map[string]any{
		"name": "Alex", "email": "alex@club.test", "password": "supersecret",
	}); resp.Code != http.StatusCreated {
		t.Fatalf("register: %d", resp.Code)
	}

	form := url.Values{"email": {"alex@club.test"}, "password": {"supersecret"}, "next": {"//evil.example"}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	HandleLogin(recorder, req)

	if recorder.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}
	if loc := recorder.Header().Get("Location"); loc != defaultLoginRedirect {
		t.Fatalf("expected safe redirect, got %q", loc)
	}
}

func TestFormLoginFailureRendersPage(t *testing.T) {
	setupAuthHandlers(t, true)

	form := url.Values{"email": {"nobody@club.test"}, "password": {"whatever1"}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	HandleLogin(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
	body := recorder.Body.String()
	if !strings.Contains(body, "invalid email or password") || !strings.Contains(body, `value="nobody@club.test"`) {
		t.Fatalf("expected login page with error, got %s", body)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	setupAuthHandlers(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	recorder := httptest.NewRecorder()
	HandleLogout(recorder, req)

	if recorder.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}
	cookies := recorder.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected cleared cookie, got %+v", cookies)
	}
}

func TestSafeRedirect(t *testing.T) {
	tests := map[string]string{
		"/admin/sports":        "/admin/sports",
		"//evil.example":       "",
		"https://evil.example": "",
		`/\evil.example`:       "",
		"":                     "",
	}
	for in, want := range tests {
		if got := safeRedirect(in); got != want {
			t.Fatalf("safeRedirect(%q) = %q, want %q", in, got, want)
		}
	}
}

package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/codr1/Clubhouse/internal/api/authz"
	"github.com/codr1/Clubhouse/internal/config"
)

func withSessionConfig(t *testing.T) *clockwork.FakeClock {
	t.Helper()

	prevConfig, prevClock, prevQueries := appConfig, clock, queries
	appConfig = &config.Config{}
	appConfig.App.SecretKey = "test-secret"
	appConfig.App.Environment = "development"
	fake := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	clock = fake
	queries = nil
	t.Cleanup(func() {
		appConfig, clock, queries = prevConfig, prevClock, prevQueries
	})
	return fake
}

func issueCookie(t *testing.T, user *authz.AuthUser) *http.Cookie {
	t.Helper()
	recorder := httptest.NewRecorder()
	if err := SetAuthCookie(recorder, user); err != nil {
		t.Fatalf("set auth cookie: %v", err)
	}
	cookies := recorder.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != authCookieName {
		t.Fatalf("expected one auth cookie, got %+v", cookies)
	}
	return cookies[0]
}

func TestAuthCookieRoundTrip(t *testing.T) {
	withSessionConfig(t)

	cookie := issueCookie(t, &authz.AuthUser{ID: 42, Email: "coach@club.test", Name: "Coach"})
	if !cookie.HttpOnly || cookie.Secure {
		t.Fatalf("unexpected cookie flags: %+v", cookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(cookie)
	user, err := UserFromRequest(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("user from request: %v", err)
	}
	if user == nil || user.ID != 42 || user.Email != "coach@club.test" || user.Name != "Coach" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAuthCookieRejectsTampering(t *testing.T) {
	withSessionConfig(t)

	cookie := issueCookie(t, &authz.AuthUser{ID: 42, Email: "coach@club.test"})
	parts := strings.SplitN(cookie.Value, ".", 2)
	forged, err := json.Marshal(authSession{UserID: 1, Email: "root@club.test", ExpiresAt: time.Now().Add(time.Hour).Unix()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	cookie.Value = base64.RawURLEncoding.EncodeToString(forged) + "." + parts[1]

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	recorder := httptest.NewRecorder()
	user, err := UserFromRequest(recorder, req)
	if err != nil {
		t.Fatalf("expected tampered cookie to be ignored, got %v", err)
	}
	if user != nil {
		t.Fatalf("expected no user for tampered cookie, got %+v", user)
	}
	cleared := recorder.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("expected cookie to be cleared, got %+v", cleared)
	}
}

func TestAuthCookieExpires(t *testing.T) {
	fake := withSessionConfig(t)

	cookie := issueCookie(t, &authz.AuthUser{ID: 7, Email: "coach@club.test"})
	fake.Advance(authSessionTTL + time.Second)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	user, err := UserFromRequest(httptest.NewRecorder(), req)
	if err != nil || user != nil {
		t.Fatalf("expected expired session to yield no user, got %+v, %v", user, err)
	}
}

func TestSetAuthCookieRequiresSecret(t *testing.T) {
	withSessionConfig(t)
	appConfig.App.SecretKey = ""

	err := SetAuthCookie(httptest.NewRecorder(), &authz.AuthUser{ID: 1})
	if err != errAuthConfigMissing {
		t.Fatalf("expected errAuthConfigMissing, got %v", err)
	}
}

func TestNoCookieMeansNoUser(t *testing.T) {
	withSessionConfig(t)

	user, err := UserFromRequest(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || user != nil {
		t.Fatalf("expected anonymous request, got %+v, %v", user, err)
	}
}

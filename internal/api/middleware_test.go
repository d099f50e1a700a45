package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codr1/Clubhouse/internal/api/authz"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestWithRequestIDSetsHeaderAndContext(t *testing.T) {
	var seen string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	recorder := httptest.NewRecorder()
	h.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || recorder.Header().Get("X-Request-ID") != seen {
		t.Fatalf("expected matching request id, header %q context %q", recorder.Header().Get("X-Request-ID"), seen)
	}
}

func TestWithRecovery(t *testing.T) {
	h := WithRecovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	h.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/admin/sports", nil))
	if recorder.Code != http.StatusInternalServerError || !strings.Contains(recorder.Body.String(), "internal server error") {
		t.Fatalf("expected JSON 500, got %d %s", recorder.Code, recorder.Body.String())
	}

	recorder = httptest.NewRecorder()
	h.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/events", nil))
	if recorder.Code != http.StatusInternalServerError || !strings.Contains(recorder.Body.String(), "Internal Server Error") {
		t.Fatalf("expected plain 500, got %d %s", recorder.Code, recorder.Body.String())
	}
}

func TestWithAdminAuth(t *testing.T) {
	guarded := WithAdminAuth(true)(http.HandlerFunc(okHandler))

	tests := []struct {
		name     string
		path     string
		user     *authz.AuthUser
		htmx     bool
		want     int
		location string
	}{
		{name: "page redirects to login", path: "/admin/events?page=2", want: http.StatusSeeOther, location: "/login?next=%2Fadmin%2Fevents%3Fpage%3D2"},
		{name: "api is unauthorized", path: "/api/admin/events", want: http.StatusUnauthorized},
		{name: "htmx gets redirect header", path: "/admin/blogs", htmx: true, want: http.StatusUnauthorized},
		{name: "user without id is forbidden", path: "/api/admin/events", user: &authz.AuthUser{Email: "x@y.z"}, want: http.StatusForbidden},
		{name: "signed in user passes", path: "/admin/dashboard", user: &authz.AuthUser{ID: 1, Email: "admin@club.test"}, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.user != nil {
				req = req.WithContext(authz.ContextWithUser(context.Background(), tt.user))
			}
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			recorder := httptest.NewRecorder()
			guarded.ServeHTTP(recorder, req)
			if recorder.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, recorder.Code)
			}
			if tt.location != "" && recorder.Header().Get("Location") != tt.location {
				t.Fatalf("expected Location %q, got %q", tt.location, recorder.Header().Get("Location"))
			}
			if tt.htmx && !strings.HasPrefix(recorder.Header().Get("HX-Redirect"), "/login?next=") {
				t.Fatalf("expected HX-Redirect to login, got %q", recorder.Header().Get("HX-Redirect"))
			}
		})
	}

	open := WithAdminAuth(false)(http.HandlerFunc(okHandler))
	recorder := httptest.NewRecorder()
	open.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected unenforced guard to pass, got %d", recorder.Code)
	}
}

func TestWithCORSOnlyTouchesAPI(t *testing.T) {
	h := WithCORS([]string{"https://club.example"})(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Origin", "https://club.example")
	recorder := httptest.NewRecorder()
	h.ServeHTTP(recorder, req)
	if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != "https://club.example" {
		t.Fatalf("expected allowed origin on API route, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Origin", "https://club.example")
	recorder = httptest.NewRecorder()
	h.ServeHTTP(recorder, req)
	if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS headers on pages, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	recorder = httptest.NewRecorder()
	h.ServeHTTP(recorder, req)
	if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected unknown origin to be ignored, got %q", got)
	}
}

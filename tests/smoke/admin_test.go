//go:build smoke

package smoke

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"testing"
	"time"
)

func TestAdminSignInSmoke(t *testing.T) {
	proc := startServer(t, `features:
  require_admin_auth: true
`, "APP_SECRET_KEY=smoke-test-secret")

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	client := &http.Client{
		Timeout: 5 * time.Second,
		Jar:     jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(proc.url("/admin/dashboard"))
	if err != nil {
		t.Fatalf("dashboard request failed: %v\n%s", err, proc.logs())
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || !strings.HasPrefix(resp.Header.Get("Location"), "/login") {
		t.Fatalf("expected redirect to login, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, err = client.Get(proc.url("/api/admin/sports"))
	if err != nil {
		t.Fatalf("admin api request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("admin api without session: got %d want %d", resp.StatusCode, http.StatusUnauthorized)
	}

	postJSON(t, client, proc, "/api/auth/register", map[string]string{
		"name":     "Club Admin",
		"email":    "admin@smoke.test",
		"password": "correct-horse-battery",
	}, http.StatusCreated)
	postJSON(t, client, proc, "/api/auth/login", map[string]string{
		"email":    "admin@smoke.test",
		"password": "correct-horse-battery",
	}, http.StatusOK)

	resp, err = client.Get(proc.url("/admin/dashboard"))
	if err != nil {
		t.Fatalf("dashboard request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard status: got %d want %d\n%s", resp.StatusCode, http.StatusOK, proc.logs())
	}
	if !strings.Contains(string(body), "stat-value") {
		t.Fatalf("expected dashboard counts in response")
	}

	postJSON(t, client, proc, "/api/admin/sports", map[string]any{
		"name":       "Football",
		"formConfig": []any{},
	}, http.StatusCreated)

	proc.assertRunning(t)
}

func postJSON(t *testing.T, client *http.Client, proc *serverProcess, path string, payload any, wantStatus int) {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal %s payload: %v", path, err)
	}
	req, err := http.NewRequest(http.MethodPost, proc.url(path), bytes.NewReader(data))
	if err != nil {
		t.Fatalf("build %s request: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s request failed: %v\n%s", path, err, proc.logs())
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s status: got %d want %d: %s\n%s", path, resp.StatusCode, wantStatus, body, proc.logs())
	}
}

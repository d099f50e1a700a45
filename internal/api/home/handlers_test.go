package home

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/codr1/Clubhouse/internal/api/blogs"
	"github.com/codr1/Clubhouse/internal/api/events"
	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/testutil"
)

// The events and blogs packages initialize once per process, so this file
// keeps to a single test.
func TestHomePage(t *testing.T) {
	database := testutil.NewTestDB(t)
	events.InitHandlers(database, time.UTC)
	blogs.InitHandlers(database.Queries)
	InitHandlers("Riverside FC", "Football and cricket by the river since 1998.")

	ctx := context.Background()
	now := time.Now().UTC()
	for _, e := range []struct {
		name   string
		start  time.Time
		status string
	}{
		{"Summer Fete", now.Add(48 * time.Hour), "upcoming"},
		{"Old Final", now.Add(-48 * time.Hour), "completed"},
	} {
		if _, err := database.Queries.CreateEvent(ctx, dbgen.CreateEventParams{
			Name: e.name, Slug: strings.ToLower(strings.ReplaceAll(e.name, " ", "_")),
			StartDate: e.start, EndDate: e.start.Add(time.Hour), Status: e.status,
		}); err != nil {
			t.Fatalf("create event: %v", err)
		}
	}
	for _, b := range []struct{ title, status string }{{"Club Awards", "published"}, {"Unfinished", "draft"}} {
		if _, err := database.Queries.CreateBlog(ctx, dbgen.CreateBlogParams{
			Title: b.title, Slug: strings.ToLower(strings.ReplaceAll(b.title, " ", "_")),
			Content: "Text", Tags: "[]", Status: b.status,
		}); err != nil {
			t.Fatalf("create blog: %v", err)
		}
	}

	recorder := httptest.NewRecorder()
	HandleHome(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	body := recorder.Body.String()
	for _, want := range []string{"Riverside FC", "Summer Fete", "Club Awards", "since 1998"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q on home page", want)
		}
	}
	for _, unwanted := range []string{"Old Final", "Unfinished"} {
		if strings.Contains(body, unwanted) {
			t.Fatalf("did not expect %q on home page", unwanted)
		}
	}

	recorder = httptest.NewRecorder()
	HandleHome(recorder, httptest.NewRequest(http.MethodGet, "/no-such-page", nil))
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

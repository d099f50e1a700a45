package events

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/codr1/Clubhouse/internal/db"
	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/testutil"
)

var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func setupEventHandlers(t *testing.T) (*db.DB, *clockwork.FakeClock) {
	t.Helper()

	database := testutil.NewTestDB(t)
	prevClock := clock
	fake := clockwork.NewFakeClockAt(testNow)
	clock = fake
	InitHandlers(database, time.UTC)
	t.Cleanup(func() {
		eventService = nil
		clock = prevClock
		location = time.UTC
		queriesOnce = sync.Once{}
	})
	return database, fake
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			t.Fatalf("marshal: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func decodeEvent(t *testing.T, recorder *httptest.ResponseRecorder) models.Event {
	t.Helper()
	var resp struct {
		Event models.Event `json:"event"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.Event
}

func createEvent(t *testing.T, name string, start, end time.Time, extra map[string]any) models.Event {
	t.Helper()
	body := map[string]any{
		"name":      name,
		"location":  "Main field",
		"startDate": start.Format(time.RFC3339),
		"endDate":   end.Format(time.RFC3339),
	}
	for k, v := range extra {
		body[k] = v
	}
	resp := doJSON(t, HandleCreate, http.MethodPost, "/api/admin/events", body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create %s: %d %s", name, resp.Code, resp.Body.String())
	}
	return decodeEvent(t, resp)
}

func seedTeams(t *testing.T, q *dbgen.Queries) (int64, []int64) {
	t.Helper()
	ctx := context.Background()
	sportID, err := q.CreateSport(ctx, dbgen.CreateSportParams{Name: "Soccer", Slug: "soccer", FormConfig: "[]"})
	if err != nil {
		t.Fatalf("create sport: %v", err)
	}
	var teamIDs []int64
	for _, name := range []string{"Reds", "Blues"} {
		id, err := q.CreateTeam(ctx, dbgen.CreateTeamParams{Name: name, Slug: strings.ToLower(name), SportID: sportID})
		if err != nil {
			t.Fatalf("create team: %v", err)
		}
		teamIDs = append(teamIDs, id)
	}
	return sportID, teamIDs
}

func TestCreateEventDerivesStatus(t *testing.T) {
	setupEventHandlers(t)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  models.EventStatus
	}{
		{"Spring Cup", testNow.Add(24 * time.Hour), testNow.Add(48 * time.Hour), models.EventUpcoming},
		{"Summer League", testNow.Add(-time.Hour), testNow.Add(time.Hour), models.EventOngoing},
		{"Starts Now", testNow, testNow.Add(time.Hour), models.EventOngoing},
		{"Winter Gala", testNow.Add(-48 * time.Hour), testNow.Add(-24 * time.Hour), models.EventCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := createEvent(t, tt.name, tt.start, tt.end, nil)
			if event.Status != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, event.Status)
			}
		})
	}

	cancelled := createEvent(t, "Rained Out", testNow.Add(time.Hour), testNow.Add(2*time.Hour), map[string]any{"status": "cancelled"})
	if cancelled.Status != models.EventCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
}

func TestCreateEventValidation(t *testing.T) {
	setupEventHandlers(t)

	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{"end before start", map[string]any{"name": "Cup", "startDate": "2026-06-02", "endDate": "2026-06-01"}, "end date cannot be before start date"},
		{"missing start", map[string]any{"name": "Cup", "endDate": "2026-06-01"}, "startDate is required"},
		{"bad status", map[string]any{"name": "Cup", "startDate": "2026-06-01", "endDate": "2026-06-02", "status": "postponed"}, "status must be one of"},
		{"unknown sport", map[string]any{"name": "Cup", "startDate": "2026-06-01", "endDate": "2026-06-02", "sportId": 99}, "Sport not found"},
		{"unknown team", map[string]any{"name": "Cup", "startDate": "2026-06-01", "endDate": "2026-06-02", "teamIds": []int{42}}, "Team 42 not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, HandleCreate, http.MethodPost, "/api/admin/events", tt.body)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d %s", resp.Code, resp.Body.String())
			}
			if !strings.Contains(resp.Body.String(), tt.want) {
				t.Fatalf("expected %q in %s", tt.want, resp.Body.String())
			}
		})
	}
}

func TestCreateEventTeamsAndSlugs(t *testing.T) {
	database, _ := setupEventHandlers(t)
	sportID, teamIDs := seedTeams(t, database.Queries)

	start := testNow.Add(72 * time.Hour)
	first := createEvent(t, "Derby Day", start, start.Add(2*time.Hour), map[string]any{
		"sport": strconv.FormatInt(sportID, 10),
		"teams": []int64{teamIDs[1], teamIDs[0], teamIDs[1]},
	})
	if first.Slug != "derby_day" {
		t.Fatalf("slug: %q", first.Slug)
	}
	if len(first.TeamIDs) != 2 || first.TeamIDs[0] != teamIDs[1] || first.TeamIDs[1] != teamIDs[0] {
		t.Fatalf("expected deduplicated teams in order, got %v", first.TeamIDs)
	}
	if first.Sport == nil || first.Sport.Slug != "soccer" || len(first.Teams) != 2 || first.Teams[0].Name != "Blues" {
		t.Fatalf("references not populated: %+v %+v", first.Sport, first.Teams)
	}

	second := createEvent(t, "Derby Day", start, start.Add(2*time.Hour), nil)
	if second.Slug != "derby_day_2" {
		t.Fatalf("expected suffixed slug, got %q", second.Slug)
	}
}

func TestUpdateEvent(t *testing.T) {
	database, _ := setupEventHandlers(t)
	sportID, teamIDs := seedTeams(t, database.Queries)
	event := createEvent(t, "Cup Final", testNow.Add(time.Hour), testNow.Add(3*time.Hour), map[string]any{
		"sportId": sportID,
		"teamIds": teamIDs,
	})

	resp := doJSON(t, HandleUpdate, http.MethodPut, "/api/admin/events", map[string]any{
		"id":        event.ID,
		"startDate": testNow.Add(-2 * time.Hour).Format(time.RFC3339),
		"teamIds":   []int64{teamIDs[0]},
		"sportId":   "",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("update: %d %s", resp.Code, resp.Body.String())
	}
	updated := decodeEvent(t, resp)
	if updated.Status != models.EventOngoing {
		t.Fatalf("expected ongoing after moving start, got %s", updated.Status)
	}
	if updated.SportID != nil || len(updated.TeamIDs) != 1 || updated.Slug != "cup_final" {
		t.Fatalf("unexpected update: %+v", updated)
	}

	resp = doJSON(t, HandleUpdate, http.MethodPut, "/api/admin/events", map[string]any{
		"id":      event.ID,
		"endDate": testNow.Add(-3 * time.Hour).Format(time.RFC3339),
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for end before start, got %d", resp.Code)
	}

	if resp := doJSON(t, HandleUpdate, http.MethodPut, "/api/admin/events", map[string]any{"name": "X"}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without id, got %d", resp.Code)
	}
	if resp := doJSON(t, HandleUpdate, http.MethodPut, "/api/admin/events", map[string]any{"id": 999}); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestDeleteEvent(t *testing.T) {
	setupEventHandlers(t)
	event := createEvent(t, "Cup", testNow.Add(time.Hour), testNow.Add(2*time.Hour), nil)

	target := "/api/admin/events?id=" + strconv.FormatInt(event.ID, 10)
	if resp := doJSON(t, HandleDelete, http.MethodDelete, target, nil); resp.Code != http.StatusOK {
		t.Fatalf("delete: %d", resp.Code)
	}
	if resp := doJSON(t, HandleDelete, http.MethodDelete, target, nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", resp.Code)
	}
	if resp := doJSON(t, HandleDelete, http.MethodDelete, "/api/admin/events", nil); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without id, got %d", resp.Code)
	}
}

func TestAdminListLookups(t *testing.T) {
	setupEventHandlers(t)
	event := createEvent(t, "Cup", testNow.Add(time.Hour), testNow.Add(2*time.Hour), nil)
	createEvent(t, "Open Day", testNow.Add(time.Hour), testNow.Add(2*time.Hour), nil)

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?eventId=" + strconv.FormatInt(event.ID, 10), 1},
		{"?slug=open_day", 1},
		{"?slug=missing", 0},
	}
	for _, tt := range tests {
		resp := doJSON(t, HandleList, http.MethodGet, "/api/admin/events"+tt.query, nil)
		var list []models.Event
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			t.Fatalf("%s: decode: %v", tt.query, err)
		}
		if len(list) != tt.want {
			t.Fatalf("%s: got %d, want %d", tt.query, len(list), tt.want)
		}
	}
}

func TestPublicListPaginationAndSort(t *testing.T) {
	database, _ := setupEventHandlers(t)
	_, teamIDs := seedTeams(t, database.Queries)

	for i := 0; i < 12; i++ {
		start := testNow.Add(time.Duration(i+1) * 24 * time.Hour)
		extra := map[string]any{}
		if i%3 == 0 {
			extra["teamIds"] = []int64{teamIDs[0]}
		}
		createEvent(t, "Match "+strconv.Itoa(i+1), start, start.Add(time.Hour), extra)
	}
	createEvent(t, "Last Season", testNow.Add(-72*time.Hour), testNow.Add(-70*time.Hour), nil)

	resp := doJSON(t, HandlePublicList, http.MethodGet, "/api/events?page=2", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("status: %d", resp.Code)
	}
	for header, want := range map[string]string{"X-Total-Count": "13", "X-Page": "2", "X-Limit": "10", "X-Total-Pages": "2"} {
		if got := resp.Header().Get(header); got != want {
			t.Fatalf("%s: got %q, want %q", header, got, want)
		}
	}
	var list []models.Event
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 3 || list[0].Name != "Match 10" {
		t.Fatalf("unexpected second page: %d events", len(list))
	}

	sorts := []struct {
		query string
		want  string
	}{
		{"sort=startDate", "Last Season"},
		{"sort=endDate", "Match 12"},
		{"sort=name", "Match 9"},
		{"sort=createdAt", "Last Season"},
	}
	for _, tt := range sorts {
		resp = doJSON(t, HandlePublicList, http.MethodGet, "/api/events?limit=1&"+tt.query, nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: status %d", tt.query, resp.Code)
		}
		list = nil
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			t.Fatalf("%s: decode: %v", tt.query, err)
		}
		if len(list) != 1 || list[0].Name != tt.want {
			t.Fatalf("%s: expected %q first, got %+v", tt.query, tt.want, list)
		}
	}

	if resp := doJSON(t, HandlePublicList, http.MethodGet, "/api/events?sort=location", nil); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown sort, got %d", resp.Code)
	}

	resp = doJSON(t, HandlePublicList, http.MethodGet, "/api/events?status=upcoming&teamId="+strconv.FormatInt(teamIDs[0], 10), nil)
	if got := resp.Header().Get("X-Total-Count"); got != "4" {
		t.Fatalf("expected 4 upcoming team events, got %s", got)
	}

	if resp := doJSON(t, HandlePublicList, http.MethodGet, "/api/events?status=later", nil); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", resp.Code)
	}
}

func TestUpcomingExcludesStartedEvents(t *testing.T) {
	database, _ := setupEventHandlers(t)
	createEvent(t, "Next Week", testNow.Add(7*24*time.Hour), testNow.Add(7*24*time.Hour+time.Hour), nil)
	createEvent(t, "Tomorrow", testNow.Add(24*time.Hour), testNow.Add(25*time.Hour), nil)
	past := createEvent(t, "Yesterday", testNow.Add(-24*time.Hour), testNow.Add(-23*time.Hour), nil)

	// A stale status must not pull a started event into the upcoming list.
	if _, err := database.Queries.UpdateEvent(context.Background(), dbgen.UpdateEventParams{
		ID: past.ID, Name: past.Name, Slug: past.Slug, StartDate: past.StartDate, EndDate: past.EndDate, Status: "upcoming",
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	list, err := Upcoming(context.Background(), 5)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Tomorrow" || list[1].Name != "Next Week" {
		t.Fatalf("unexpected upcoming events: %+v", list)
	}
}

func TestFormSubmit(t *testing.T) {
	setupEventHandlers(t)

	form := url.Values{}
	form.Set("name", "Club Social")
	form.Set("startDate", "2026-06-01T18:00")
	form.Set("endDate", "2026-06-01T17:00")

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin/events/new", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		recorder := httptest.NewRecorder()
		HandleFormSubmit(recorder, req)
		return recorder
	}

	resp := post()
	if resp.Code != http.StatusBadRequest || !strings.Contains(resp.Body.String(), "end date cannot be before start date") {
		t.Fatalf("expected form error, got %d %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `value="2026-06-01T18:00"`) {
		t.Fatalf("expected submitted start kept: %s", resp.Body.String())
	}

	form.Set("endDate", "2026-06-01T22:00")
	resp = post()
	if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/admin/events?notice=created" {
		t.Fatalf("expected redirect, got %d %s", resp.Code, resp.Body.String())
	}
}

func TestDetailPage(t *testing.T) {
	setupEventHandlers(t)
	createEvent(t, "Awards Night", testNow.Add(time.Hour), testNow.Add(3*time.Hour), map[string]any{"description": "Trophies & speeches"})

	req := httptest.NewRequest(http.MethodGet, "/event/awards_night", nil)
	req.SetPathValue("slug", "awards_night")
	recorder := httptest.NewRecorder()
	HandleDetailPage(recorder, req)
	if recorder.Code != http.StatusOK || !strings.Contains(recorder.Body.String(), "Trophies &amp; speeches") {
		t.Fatalf("unexpected detail page: %d %s", recorder.Code, recorder.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/event/nope", nil)
	req.SetPathValue("slug", "nope")
	recorder = httptest.NewRecorder()
	HandleDetailPage(recorder, req)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

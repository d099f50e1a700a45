package players

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

	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/formconfig"
	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/testutil"
)

type fixture struct {
	q       *dbgen.Queries
	sportID int64
	teamID  int64
}

var soccerFields = formconfig.Config{
	{ID: "1700000000000", Type: formconfig.TypeSelect, Label: "Position", Required: true, Options: []string{"Goalkeeper", "Defender", "Forward"}},
	{ID: "1700000000001", Type: formconfig.TypeNumber, Label: "Jersey Number"},
}

func setupPlayerHandlers(t *testing.T) fixture {
	t.Helper()

	database := testutil.NewTestDB(t)
	InitHandlers(database.Queries, "US")
	t.Cleanup(func() {
		playerService = nil
		queriesOnce = sync.Once{}
	})

	cfg, err := soccerFields.Marshal()
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	ctx := context.Background()
	sportID, err := database.Queries.CreateSport(ctx, dbgen.CreateSportParams{Name: "Soccer", Slug: "soccer", FormConfig: cfg})
	if err != nil {
		t.Fatalf("create sport: %v", err)
	}
	teamID, err := database.Queries.CreateTeam(ctx, dbgen.CreateTeamParams{Name: "Reds", Slug: "reds", SportID: sportID})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	return fixture{q: database.Queries, sportID: sportID, teamID: teamID}
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

func decodePlayer(t *testing.T, recorder *httptest.ResponseRecorder) models.Player {
	t.Helper()
	var resp struct {
		Player models.Player `json:"player"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.Player
}

func (f fixture) body(name string, extra map[string]any) map[string]any {
	body := map[string]any{
		"name":    name,
		"age":     17,
		"contact": "(650) 253-0000",
		"teamId":  f.teamID,
		"sportId": f.sportID,
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

func TestCreatePlayerStoresAdditionalFields(t *testing.T) {
	f := setupPlayerHandlers(t)

	resp := doJSON(t, HandleCreate, http.MethodPost, "/api/admin/players", f.body("Ana Lima", map[string]any{
		"additionalFields": map[string]any{
			"Position":      "Forward",
			"1700000000001": 9,
		},
	}))
	if resp.Code != http.StatusCreated {
		t.Fatalf("status: %d body: %s", resp.Code, resp.Body.String())
	}
	player := decodePlayer(t, resp)
	if player.Slug != "ana_lima" {
		t.Fatalf("slug: %q", player.Slug)
	}
	if player.Contact != "+16502530000" {
		t.Fatalf("contact not normalized: %q", player.Contact)
	}
	if player.AdditionalFields["Position"] != "Forward" || player.AdditionalFields["Jersey Number"] != float64(9) {
		t.Fatalf("unexpected additional fields: %+v", player.AdditionalFields)
	}
	if player.Team == nil || player.Team.Slug != "reds" || player.Sport == nil || player.Sport.Slug != "soccer" {
		t.Fatalf("references not populated: %+v %+v", player.Team, player.Sport)
	}
}

func TestCreatePlayerFieldErrors(t *testing.T) {
	f := setupPlayerHandlers(t)

	tests := []struct {
		name      string
		fields    map[string]any
		wantField string
	}{
		{"missing required", map[string]any{}, "1700000000000"},
		{"bad option", map[string]any{"Position": "Coach"}, "1700000000000"},
		{"bad number", map[string]any{"Position": "Defender", "Jersey Number": "ten"}, "1700000000001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, HandleCreate, http.MethodPost, "/api/admin/players", f.body("Ana", map[string]any{"additionalFields": tt.fields}))
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d %s", resp.Code, resp.Body.String())
			}
			var body struct {
				Error       string            `json:"error"`
				FieldErrors map[string]string `json:"fieldErrors"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.FieldErrors[tt.wantField] == "" || body.Error == "" {
				t.Fatalf("expected error for %s, got %+v", tt.wantField, body)
			}
		})
	}

	resp := doJSON(t, HandleCreate, http.MethodPost, "/api/admin/players", f.body("Ana", map[string]any{
		"additionalFields": map[string]any{"Position": "Forward", "Shoe Size": 10},
	}))
	if resp.Code != http.StatusBadRequest || !strings.Contains(resp.Body.String(), "unknown field") {
		t.Fatalf("expected unknown field rejection, got %d %s", resp.Code, resp.Body.String())
	}
}

func TestCreatePlayerReferences(t *testing.T) {
	f := setupPlayerHandlers(t)
	fields := map[string]any{"additionalFields": map[string]any{"Position": "Forward"}}

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"unknown team", f.body("Ana", map[string]any{"teamId": 999, "additionalFields": fields["additionalFields"]}), http.StatusBadRequest},
		{"unknown sport", f.body("Ana", map[string]any{"sportId": 999}), http.StatusBadRequest},
		{"missing contact", f.body("Ana", map[string]any{"contact": "", "additionalFields": fields["additionalFields"]}), http.StatusBadRequest},
		{"age out of range", f.body("Ana", map[string]any{"age": 150, "additionalFields": fields["additionalFields"]}), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, HandleCreate, http.MethodPost, "/api/admin/players", tt.body)
			if resp.Code != tt.want {
				t.Fatalf("expected %d, got %d %s", tt.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestCreatePlayerSlugSuffix(t *testing.T) {
	f := setupPlayerHandlers(t)
	fields := map[string]any{"additionalFields": map[string]any{"Position": "Forward"}}

	first := decodePlayer(t, doJSON(t, HandleCreate, http.MethodPost, "/api/admin/players", f.body("Sam Reyes", fields)))
	second := decodePlayer(t, doJSON(t, HandleCreate, http.MethodPost, "/api/admin/players", f.body("Sam Reyes", fields)))
	if first.Slug != "sam_reyes" || second.Slug != "sam_reyes_2" {
		t.Fatalf("unexpected slugs: %q %q", first.Slug, second.Slug)
	}
}

func TestUpdatePlayerKeepsFrozenAnswers(t *testing.T) {
	f := setupPlayerHandlers(t)
	player := decodePlayer(t, doJSON(t, HandleCreate, http.MethodPost, "/api/admin/players", f.body("Ana", map[string]any{
		"additionalFields": map[string]any{"Position": "Forward"},
	})))

	renamed := formconfig.Config{
		{ID: "1700000000000", Type: formconfig.TypeSelect, Label: "Role", Required: true, Options: []string{"Keeper", "Outfield"}},
	}
	cfg, err := renamed.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := f.q.UpdateSport(context.Background(), dbgen.UpdateSportParams{ID: f.sportID, Name: "Soccer", Slug: "soccer", FormConfig: cfg}); err != nil {
		t.Fatalf("update sport: %v", err)
	}

	resp := doJSON(t, HandleUpdate, http.MethodPut, "/api/admin/players", map[string]any{"id": strconv.FormatInt(player.ID, 10), "age": 18})
	if resp.Code != http.StatusOK {
		t.Fatalf("update: %d %s", resp.Code, resp.Body.String())
	}
	updated := decodePlayer(t, resp)
	if updated.Age != 18 || updated.AdditionalFields["Position"] != "Forward" {
		t.Fatalf("expected frozen answers, got %+v", updated)
	}

	resp = doJSON(t, HandleUpdate, http.MethodPut, "/api/admin/players", map[string]any{
		"id":               player.ID,
		"additionalFields": map[string]any{"Role": "Keeper"},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("update answers: %d %s", resp.Code, resp.Body.String())
	}
	updated = decodePlayer(t, resp)
	if _, ok := updated.AdditionalFields["Position"]; ok || updated.AdditionalFields["Role"] != "Keeper" {
		t.Fatalf("expected new answers, got %+v", updated.AdditionalFields)
	}
}

func TestUpdateAndDeletePlayerErrors(t *testing.T) {
	setupPlayerHandlers(t)

	if resp := doJSON(t, HandleUpdate, http.MethodPut, "/api/admin/players", map[string]any{"name": "X"}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without id, got %d", resp.Code)
	}
	if resp := doJSON(t, HandleUpdate, http.MethodPut, "/api/admin/players", map[string]any{"id": 999}); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if resp := doJSON(t, HandleDelete, http.MethodDelete, "/api/admin/players?id=999", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if resp := doJSON(t, HandleDelete, http.MethodDelete, "/api/admin/players", nil); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestListPlayersFilters(t *testing.T) {
	f := setupPlayerHandlers(t)
	otherTeam, err := f.q.CreateTeam(context.Background(), dbgen.CreateTeamParams{Name: "Blues", Slug: "blues", SportID: f.sportID})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	fields := map[string]any{"Position": "Forward"}
	for _, p := range []struct {
		name string
		team int64
	}{{"Ana", f.teamID}, {"Bea", f.teamID}, {"Cal", otherTeam}} {
		if resp := doJSON(t, HandleCreate, http.MethodPost, "/api/admin/players", f.body(p.name, map[string]any{"teamId": p.team, "additionalFields": fields})); resp.Code != http.StatusCreated {
			t.Fatalf("create %s: %d %s", p.name, resp.Code, resp.Body.String())
		}
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?teamId=" + strconv.FormatInt(f.teamID, 10), 2},
		{"?slug=cal", 1},
		{"?slug=cal&teamId=" + strconv.FormatInt(f.teamID, 10), 0},
		{"?playerId=999", 0},
	}
	for _, tt := range tests {
		resp := doJSON(t, HandleList, http.MethodGet, "/api/admin/players"+tt.query, nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: status %d", tt.query, resp.Code)
		}
		var players []models.Player
		if err := json.NewDecoder(resp.Body).Decode(&players); err != nil {
			t.Fatalf("%s: decode: %v", tt.query, err)
		}
		if len(players) != tt.want {
			t.Fatalf("%s: got %d players, want %d", tt.query, len(players), tt.want)
		}
	}

	if resp := doJSON(t, HandleList, http.MethodGet, "/api/admin/players?teamId=abc", nil); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad team id, got %d", resp.Code)
	}
}

func TestFieldsFragment(t *testing.T) {
	f := setupPlayerHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/players/fields?sportId="+strconv.FormatInt(f.sportID, 10), nil)
	recorder := httptest.NewRecorder()
	HandleFieldsFragment(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d", recorder.Code)
	}
	body := recorder.Body.String()
	if !strings.Contains(body, `id="player-fields"`) || !strings.Contains(body, `name="field.1700000000000"`) {
		t.Fatalf("unexpected fragment: %s", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/players/fields?sportId=999", nil)
	recorder = httptest.NewRecorder()
	HandleFieldsFragment(recorder, req)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestFormSubmitShowsFieldErrors(t *testing.T) {
	f := setupPlayerHandlers(t)

	form := url.Values{}
	form.Set("name", "Ana")
	form.Set("age", "17")
	form.Set("contact", "ana@club.test")
	form.Set("teamId", strconv.FormatInt(f.teamID, 10))
	form.Set("sportId", strconv.FormatInt(f.sportID, 10))
	form.Set("field.1700000000001", "7")

	req := httptest.NewRequest(http.MethodPost, "/admin/players/new", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	HandleFormSubmit(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
	body := recorder.Body.String()
	if !strings.Contains(body, "Position is required") || !strings.Contains(body, `value="7"`) {
		t.Fatalf("expected field error and kept value: %s", body)
	}

	form.Set("field.1700000000000", "Defender")
	req = httptest.NewRequest(http.MethodPost, "/admin/players/new", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder = httptest.NewRecorder()
	HandleFormSubmit(recorder, req)

	if recorder.Code != http.StatusSeeOther || recorder.Header().Get("Location") != "/admin/players?notice=created" {
		t.Fatalf("expected redirect, got %d %s", recorder.Code, recorder.Body.String())
	}
}

func TestDetailPageByIDOrSlug(t *testing.T) {
	f := setupPlayerHandlers(t)
	player := decodePlayer(t, doJSON(t, HandleCreate, http.MethodPost, "/api/admin/players", f.body("Ana Lima", map[string]any{
		"additionalFields": map[string]any{"Position": "Goalkeeper"},
	})))

	for _, key := range []string{strconv.FormatInt(player.ID, 10), "ana_lima"} {
		req := httptest.NewRequest(http.MethodGet, "/player/"+key, nil)
		req.SetPathValue("id", key)
		recorder := httptest.NewRecorder()
		HandleDetailPage(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("%s: status %d", key, recorder.Code)
		}
		if !strings.Contains(recorder.Body.String(), "<dt>Position</dt><dd>Goalkeeper</dd>") {
			t.Fatalf("%s: expected additional field: %s", key, recorder.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/player/nobody", nil)
	req.SetPathValue("id", "nobody")
	recorder := httptest.NewRecorder()
	HandleDetailPage(recorder, req)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

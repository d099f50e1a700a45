package main

import (
	"context"
	"testing"
	"time"

	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/formconfig"
	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/testutil"
)

var seedNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func TestSeedPlayerAnswersMatchSportFields(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	counts := Counts{
		Sports:         Range{3, 3},
		TeamsPerSport:  Range{2, 2},
		PlayersPerTeam: Range{4, 4},
		Events:         Range{6, 6},
		Blogs:          Range{5, 5},
	}
	summary, err := Seed(ctx, database, counts, 42, seedNow)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	want := Summary{Sports: 3, Teams: 6, Players: 24, Events: 6, Blogs: 5}
	if summary != want {
		t.Fatalf("expected %+v, got %+v", want, summary)
	}

	sports, err := database.Queries.ListSports(ctx)
	if err != nil {
		t.Fatalf("list sports: %v", err)
	}
	configs := make(map[int64]formconfig.Config, len(sports))
	for _, s := range sports {
		cfg, err := formconfig.ParseConfig([]byte(s.FormConfig))
		if err != nil {
			t.Fatalf("sport %s config: %v", s.Name, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("sport %s config invalid: %v", s.Name, err)
		}
		configs[s.ID] = cfg
	}

	players, err := database.Queries.ListPlayers(ctx, dbgen.ListPlayersParams{})
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 24 {
		t.Fatalf("expected 24 players, got %d", len(players))
	}
	for _, p := range players {
		snapshot, err := formconfig.ParseSnapshot([]byte(p.FieldValues))
		if err != nil {
			t.Fatalf("player %s answers: %v", p.Name, err)
		}
		cfg := configs[p.SportID]
		for _, field := range cfg {
			if _, ok := snapshot.Get(field.ID); field.Required && !ok {
				t.Fatalf("player %s is missing required %s", p.Name, field.Label)
			}
		}
		for _, answer := range snapshot {
			if _, ok := cfg.Field(answer.FieldID); !ok {
				t.Fatalf("player %s has answer for unknown field %s", p.Name, answer.FieldID)
			}
		}
	}

	events, err := database.Queries.ListEvents(ctx, dbgen.ListEventsParams{Limit: 100})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	for _, e := range events {
		status := models.EventStatus(e.Status)
		if status == models.EventCancelled {
			continue
		}
		if derived := models.DeriveEventStatus(e.StartDate, e.EndDate, seedNow); status != derived {
			t.Fatalf("event %s: stored %s, derived %s", e.Name, status, derived)
		}
	}
}

func TestSeedIsReproducible(t *testing.T) {
	counts := Counts{Sports: Range{1, 4}, TeamsPerSport: Range{1, 2}, PlayersPerTeam: Range{0, 3}}

	first, err := Seed(context.Background(), testutil.NewTestDB(t), counts, 7, seedNow)
	if err != nil {
		t.Fatalf("first seed: %v", err)
	}
	second, err := Seed(context.Background(), testutil.NewTestDB(t), counts, 7, seedNow)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical summaries, got %+v and %+v", first, second)
	}
}

package models

import (
	"testing"
	"time"

	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
)

func TestDeriveEventStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  EventStatus
	}{
		{"future", now.Add(time.Hour), now.Add(2 * time.Hour), EventUpcoming},
		{"in progress", now.Add(-time.Hour), now.Add(time.Hour), EventOngoing},
		{"starts now", now, now.Add(time.Hour), EventOngoing},
		{"ends now", now.Add(-time.Hour), now, EventOngoing},
		{"finished", now.Add(-2 * time.Hour), now.Add(-time.Hour), EventCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveEventStatus(tt.start, tt.end, now); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEventValidateRejectsEndBeforeStart(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	event := Event{Name: "Cup", StartDate: start, EndDate: start.Add(-time.Minute), Status: EventUpcoming}
	if err := event.Validate(); err == nil || err.Error() != "end date cannot be before start date" {
		t.Fatalf("expected date order error, got %v", err)
	}
	event.EndDate = start
	if err := event.Validate(); err != nil {
		t.Fatalf("expected equal dates to be valid, got %v", err)
	}
}

func TestNormalizeContact(t *testing.T) {
	tests := []struct {
		in     string
		region string
		want   string
	}{
		{"(415) 555-2671", "US", "+14155552671"},
		{"+44 20 7946 0958", "US", "+442079460958"},
		{" Coach@Example.COM ", "US", "coach@example.com"},
		{"ask at front desk", "US", "ask at front desk"},
		{"", "US", ""},
	}
	for _, tt := range tests {
		if got := NormalizeContact(tt.in, tt.region); got != tt.want {
			t.Fatalf("NormalizeContact(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlayerFromDBExposesLabelKeyedFields(t *testing.T) {
	row := dbgen.Player{
		ID:          3,
		Name:        "Sam",
		FieldValues: `[{"fieldId":"jerseyNumber","label":"Jersey Number","type":"number","value":{"kind":"number","number":10}}]`,
	}
	player, err := PlayerFromDB(row)
	if err != nil {
		t.Fatalf("from db: %v", err)
	}
	if got := player.AdditionalFields["Jersey Number"]; got != float64(10) {
		t.Fatalf("unexpected additional fields: %#v", player.AdditionalFields)
	}
	if len(player.Fields) != 1 || player.Fields[0].FieldID != "jerseyNumber" {
		t.Fatalf("expected snapshot to keep descriptor id: %+v", player.Fields)
	}
}

func TestSportFromDBRejectsCorruptFormConfig(t *testing.T) {
	if _, err := SportFromDB(dbgen.Sport{ID: 1, FormConfig: "{not json"}); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestBlogHelpers(t *testing.T) {
	tags := NormalizeTags([]string{" news", "", "news", "match report "})
	if len(tags) != 2 || tags[0] != "news" || tags[1] != "match report" {
		t.Fatalf("unexpected tags: %v", tags)
	}
	encoded, err := EncodeTags(nil)
	if err != nil || encoded != "[]" {
		t.Fatalf("expected [] for nil tags, got %q (%v)", encoded, err)
	}

	blog := Blog{Title: "Hi", Content: "abcdefghij", Status: BlogDraft}
	if got := blog.Excerpt(4); got != "abcd..." {
		t.Fatalf("unexpected excerpt %q", got)
	}
	blog.Status = "archived"
	if err := blog.Validate(); err == nil {
		t.Fatalf("expected invalid status to fail")
	}
}

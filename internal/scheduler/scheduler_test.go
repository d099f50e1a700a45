package scheduler

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/testutil"
)

var testNow = time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)

func resetScheduler(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		if service != nil {
			_ = service.Stop()
		}
		service = nil
		serviceErr = nil
		serviceOnce = sync.Once{}
	})
}

func TestAddJobRequiresInit(t *testing.T) {
	resetScheduler(t)

	if _, err := AddJob("job", "* * * * *", func() error { return nil }); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if err := Start(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized from Start, got %v", err)
	}
}

func TestAddJobValidation(t *testing.T) {
	resetScheduler(t)
	if err := Init(clockwork.NewFakeClockAt(testNow), time.UTC); err != nil {
		t.Fatalf("init: %v", err)
	}

	if _, err := AddJob(" ", "* * * * *", func() error { return nil }); !errors.Is(err, ErrEmptyJobName) {
		t.Fatalf("expected ErrEmptyJobName, got %v", err)
	}
	if _, err := AddJob("job", "", func() error { return nil }); !errors.Is(err, ErrEmptyCronExpr) {
		t.Fatalf("expected ErrEmptyCronExpr, got %v", err)
	}
	if _, err := AddJob("job", "not a cron", func() error { return nil }); err == nil {
		t.Fatalf("expected invalid cron to be rejected")
	}
}

func TestRegisterEventStatusJob(t *testing.T) {
	resetScheduler(t)
	database := testutil.NewTestDB(t)
	if err := Init(clockwork.NewFakeClockAt(testNow), time.UTC); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := RegisterEventStatusJob(database.Queries, "*/15 * * * *", nil); err != nil {
		t.Fatalf("register: %v", err)
	}
	svc, err := ServiceInstance()
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	jobs := svc.Jobs()
	if len(jobs) != 1 || jobs[0].Name() != EventStatusJobName {
		t.Fatalf("expected %s job, got %d jobs", EventStatusJobName, len(jobs))
	}
}

func TestRefreshEventStatuses(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	create := func(name, status string, start, end time.Time) int64 {
		t.Helper()
		id, err := database.Queries.CreateEvent(ctx, dbgen.CreateEventParams{
			Name:      name,
			Slug:      name,
			Location:  "Main field",
			StartDate: start.UTC(),
			EndDate:   end.UTC(),
			Status:    status,
			SportID:   sql.NullInt64{},
		})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		return id
	}

	started := create("started", "upcoming", testNow.Add(-time.Hour), testNow.Add(time.Hour))
	finished := create("finished", "ongoing", testNow.Add(-3*time.Hour), testNow.Add(-time.Hour))
	future := create("future", "upcoming", testNow.Add(time.Hour), testNow.Add(2*time.Hour))
	cancelled := create("cancelled", "cancelled", testNow.Add(-3*time.Hour), testNow.Add(-time.Hour))

	changed, err := RefreshEventStatuses(ctx, database.Queries, testNow.In(time.FixedZone("EST", -5*3600)))
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if changed != 2 {
		t.Fatalf("expected 2 events updated, got %d", changed)
	}

	want := map[int64]string{
		started:   "ongoing",
		finished:  "completed",
		future:    "upcoming",
		cancelled: "cancelled",
	}
	for id, status := range want {
		row, err := database.Queries.GetEventByID(ctx, id)
		if err != nil {
			t.Fatalf("load %d: %v", id, err)
		}
		if row.Status != status {
			t.Fatalf("event %s: expected %s, got %s", row.Name, status, row.Status)
		}
	}

	if changed, err = RefreshEventStatuses(ctx, database.Queries, testNow); err != nil || changed != 0 {
		t.Fatalf("expected no changes on second run, got %d (%v)", changed, err)
	}
}

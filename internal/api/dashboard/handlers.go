// internal/api/dashboard/handlers.go
package dashboard

import (
	"context"
	"database/sql"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	"github.com/codr1/Clubhouse/internal/api/events"
	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/models"
	dashboardtempl "github.com/codr1/Clubhouse/internal/templates/components/dashboard"
)

const (
	dashboardQueryTimeout = 5 * time.Second
	upcomingLimit         = 5
)

var (
	queries     dashboardQueries
	queriesOnce sync.Once
)

type dashboardQueries interface {
	CountBlogs(ctx context.Context, arg dbgen.CountBlogsParams) (int64, error)
	CountEvents(ctx context.Context, arg dbgen.CountEventsParams) (int64, error)
	CountPlayers(ctx context.Context) (int64, error)
	CountSports(ctx context.Context) (int64, error)
	CountTeams(ctx context.Context) (int64, error)
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(q *dbgen.Queries) {
	if q == nil {
		log.Warn().Msg("InitHandlers called with nil queries; dashboard handlers will be unavailable")
		return
	}
	queriesOnce.Do(func() {
		queries = q
	})
}

// loadCounts runs the count queries concurrently.
func loadCounts(ctx context.Context, q dashboardQueries) (dashboardtempl.Counts, error) {
	var c dashboardtempl.Counts
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { c.Sports, err = q.CountSports(ctx); return })
	g.Go(func() (err error) { c.Teams, err = q.CountTeams(ctx); return })
	g.Go(func() (err error) { c.Players, err = q.CountPlayers(ctx); return })
	g.Go(func() (err error) {
		c.Events, err = q.CountEvents(ctx, dbgen.CountEventsParams{})
		return
	})
	g.Go(func() (err error) {
		c.UpcomingEvents, err = q.CountEvents(ctx, dbgen.CountEventsParams{
			Status: sql.NullString{String: string(models.EventUpcoming), Valid: true},
		})
		return
	})
	g.Go(func() (err error) {
		c.PublishedBlogs, err = q.CountBlogs(ctx, dbgen.CountBlogsParams{
			Status: sql.NullString{String: string(models.BlogPublished), Valid: true},
		})
		return
	})
	g.Go(func() (err error) {
		c.DraftBlogs, err = q.CountBlogs(ctx, dbgen.CountBlogsParams{
			Status: sql.NullString{String: string(models.BlogDraft), Valid: true},
		})
		return
	})

	return c, g.Wait()
}

// HandleDashboardPage renders the dashboard page for GET /admin/dashboard.
func HandleDashboardPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), dashboardQueryTimeout)
	defer cancel()

	counts, err := loadCounts(ctx, queries)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load dashboard counts")
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}
	upcoming, err := events.Upcoming(ctx, upcomingLimit)
	if err != nil {
		// Render the counts without the list.
		logger.Warn().Err(err).Msg("Failed to load upcoming events for dashboard")
	}

	body := dashboardtempl.Page(dashboardtempl.Data{Counts: counts, Upcoming: upcoming})
	apiutil.RenderPage(w, r, apiutil.AdminPage(r, "Dashboard", "dashboard", body), "Failed to render dashboard")
}

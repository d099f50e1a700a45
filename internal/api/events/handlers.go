// internal/api/events/handlers.go
package events

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	"github.com/codr1/Clubhouse/internal/db"
	"github.com/codr1/Clubhouse/internal/models"
)

const (
	eventQueryTimeout = 5 * time.Second
	defaultPageLimit  = 10
	maxPageLimit      = 100
)

var (
	eventService *service
	clock        clockwork.Clock = clockwork.NewRealClock()
	location     *time.Location  = time.UTC
	queriesOnce  sync.Once
)

type createEventRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	ImageURL    string       `json:"imageUrl"`
	Location    string       `json:"location"`
	StartDate   string       `json:"startDate"`
	EndDate     string       `json:"endDate"`
	Status      string       `json:"status"`
	Sport       apiutil.ID   `json:"sport"`
	SportID     apiutil.ID   `json:"sportId"`
	Teams       []apiutil.ID `json:"teams"`
	TeamIDs     []apiutil.ID `json:"teamIds"`
}

type updateEventRequest struct {
	ID          apiutil.ID    `json:"id"`
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	ImageURL    *string       `json:"imageUrl"`
	Location    *string       `json:"location"`
	StartDate   *string       `json:"startDate"`
	EndDate     *string       `json:"endDate"`
	Status      *string       `json:"status"`
	Sport       *apiutil.ID   `json:"sport"`
	SportID     *apiutil.ID   `json:"sportId"`
	Teams       *[]apiutil.ID `json:"teams"`
	TeamIDs     *[]apiutil.ID `json:"teamIds"`
}

type eventResponse struct {
	Message string        `json:"message"`
	Event   *models.Event `json:"event,omitempty"`
}

func int64s(ids []apiutil.ID) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Int64())
	}
	return out
}

// InitHandlers must be called during server startup before handling requests.
// loc reads dates submitted without an offset.
func InitHandlers(database *db.DB, loc *time.Location) {
	if database == nil {
		return
	}
	queriesOnce.Do(func() {
		if loc != nil {
			location = loc
		}
		eventService = &service{db: database, q: database.Queries, clock: clock}
	})
}

func loadService() *service {
	return eventService
}

func parseDates(start, end string) (time.Time, time.Time, error) {
	startDate, err := apiutil.ParseDateTime(start, "startDate", location)
	if err != nil {
		return time.Time{}, time.Time{}, apiutil.BadRequest(err.Error())
	}
	endDate, err := apiutil.ParseDateTime(end, "endDate", location)
	if err != nil {
		return time.Time{}, time.Time{}, apiutil.BadRequest(err.Error())
	}
	return startDate, endDate, nil
}

// GET /api/admin/events
func HandleList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "database not initialized")
		return
	}

	var filter eventFilter
	var err error
	if filter.ID, err = apiutil.OptionalIDQuery(r, "id", "eventId"); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.Slug = strings.TrimSpace(r.URL.Query().Get("slug"))

	ctx, cancel := context.WithTimeout(r.Context(), eventQueryTimeout)
	defer cancel()

	result, err := svc.find(ctx, filter)
	if err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to list events")
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, result)
}

// POST /api/admin/events
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "database not initialized")
		return
	}

	var req createEventRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	start, end, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to create event")
		return
	}
	teamIDs := req.TeamIDs
	if len(teamIDs) == 0 {
		teamIDs = req.Teams
	}
	sportID := req.SportID
	if sportID == 0 {
		sportID = req.Sport
	}

	ctx, cancel := context.WithTimeout(r.Context(), eventQueryTimeout)
	defer cancel()

	event, err := svc.create(ctx, eventInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Location:    req.Location,
		StartDate:   start,
		EndDate:     end,
		Status:      req.Status,
		SportID:     sportID.Ptr(),
		TeamIDs:     int64s(teamIDs),
	})
	if err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to create event")
		return
	}

	logger.Info().Int64("event_id", event.ID).Str("status", string(event.Status)).Msg("Event created")
	_ = apiutil.WriteJSON(w, http.StatusCreated, eventResponse{Message: "Event created successfully", Event: &event})
}

// PUT /api/admin/events
func HandleUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "database not initialized")
		return
	}

	var req updateEventRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.ID <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "Event ID is required")
		return
	}

	patch := eventPatch{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Location:    req.Location,
		Status:      req.Status,
	}
	if req.StartDate != nil {
		start, err := apiutil.ParseDateTime(*req.StartDate, "startDate", location)
		if err != nil {
			apiutil.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		patch.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := apiutil.ParseDateTime(*req.EndDate, "endDate", location)
		if err != nil {
			apiutil.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		patch.EndDate = &end
	}
	switch {
	case req.SportID != nil:
		id := req.SportID.Int64()
		patch.SportID = &id
	case req.Sport != nil:
		id := req.Sport.Int64()
		patch.SportID = &id
	}
	switch {
	case req.TeamIDs != nil:
		ids := int64s(*req.TeamIDs)
		patch.TeamIDs = &ids
	case req.Teams != nil:
		ids := int64s(*req.Teams)
		patch.TeamIDs = &ids
	}

	ctx, cancel := context.WithTimeout(r.Context(), eventQueryTimeout)
	defer cancel()

	event, err := svc.update(ctx, req.ID.Int64(), patch)
	if err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to update event")
		return
	}

	logger.Info().Int64("event_id", event.ID).Msg("Event updated")
	_ = apiutil.WriteJSON(w, http.StatusOK, eventResponse{Message: "Event updated successfully", Event: &event})
}

// DELETE /api/admin/events?id=
func HandleDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "database not initialized")
		return
	}

	id, err := apiutil.OptionalIDQuery(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if id == nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Event ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), eventQueryTimeout)
	defer cancel()

	if err := svc.delete(ctx, *id); err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to delete event")
		return
	}

	logger.Info().Int64("event_id", *id).Msg("Event deleted")
	_ = apiutil.WriteJSON(w, http.StatusOK, eventResponse{Message: "Event deleted successfully"})
}

// publicFilter reads the /api/events and /events query string.
func publicFilter(r *http.Request, now time.Time) (eventFilter, error) {
	query := r.URL.Query()
	filter := eventFilter{
		Status: strings.TrimSpace(strings.ToLower(query.Get("status"))),
	}
	if filter.Status != "" && !models.EventStatus(filter.Status).Valid() {
		return filter, apiutil.BadRequest("status must be one of upcoming, ongoing, completed, cancelled")
	}
	var err error
	if filter.Sort, err = parseEventSort(query.Get("sort")); err != nil {
		return filter, err
	}
	if filter.SportID, err = apiutil.OptionalIDQuery(r, "sportId"); err != nil {
		return filter, apiutil.BadRequest(err.Error())
	}
	if filter.TeamID, err = apiutil.OptionalIDQuery(r, "teamId"); err != nil {
		return filter, apiutil.BadRequest(err.Error())
	}
	if filter.Status == string(models.EventUpcoming) {
		filter.StartsAfter = &now
	}
	return filter, nil
}

// GET /api/events
func HandlePublicList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "database not initialized")
		return
	}

	filter, err := publicFilter(r, svc.clock.Now())
	if err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to list events")
		return
	}
	page := apiutil.ParsePage(r, defaultPageLimit, maxPageLimit)

	ctx, cancel := context.WithTimeout(r.Context(), eventQueryTimeout)
	defer cancel()

	list, page, err := svc.page(ctx, filter, page)
	if err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to list events")
		return
	}
	apiutil.WritePageHeaders(w, page)
	_ = apiutil.WriteJSON(w, http.StatusOK, list)
}

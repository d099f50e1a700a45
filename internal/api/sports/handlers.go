// internal/api/sports/handlers.go
package sports

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/formconfig"
	"github.com/codr1/Clubhouse/internal/models"
)

const sportQueryTimeout = 5 * time.Second

var (
	queries     sportQueries
	clock       clockwork.Clock = clockwork.NewRealClock()
	queriesOnce sync.Once
)

type sportQueries interface {
	CountTeamsBySport(ctx context.Context, sportID int64) (int64, error)
	CreateSport(ctx context.Context, arg dbgen.CreateSportParams) (int64, error)
	DeleteSport(ctx context.Context, id int64) (int64, error)
	GetSportByID(ctx context.Context, id int64) (dbgen.Sport, error)
	GetSportByName(ctx context.Context, name string) (dbgen.Sport, error)
	GetSportBySlug(ctx context.Context, slug string) (dbgen.Sport, error)
	ListSports(ctx context.Context) ([]dbgen.Sport, error)
	ListTeams(ctx context.Context, sportID sql.NullInt64) ([]dbgen.Team, error)
	UpdateSport(ctx context.Context, arg dbgen.UpdateSportParams) (int64, error)
}

type createSportRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	ImageURL    string            `json:"imageUrl"`
	FormConfig  formconfig.Config `json:"formConfig"`
}

type updateSportRequest struct {
	ID          apiutil.ID         `json:"id"`
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	ImageURL    *string            `json:"imageUrl"`
	FormConfig  *formconfig.Config `json:"formConfig"`
}

type sportResponse struct {
	Message string        `json:"message"`
	Sport   *models.Sport `json:"sport,omitempty"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(q *dbgen.Queries) {
	if q == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = q
	})
}

func loadQueries() sportQueries {
	return queries
}

// GET /api/admin/sports
func HandleList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "database not initialized")
		return
	}

	id, err := apiutil.OptionalIDQuery(r, "id", "_id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter := sportFilter{
		ID:   id,
		Name: strings.TrimSpace(r.URL.Query().Get("name")),
		Slug: strings.TrimSpace(r.URL.Query().Get("slug")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), sportQueryTimeout)
	defer cancel()

	sports, err := findSports(ctx, q, filter)
	if err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to list sports")
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, sports)
}

// POST /api/admin/sports
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "database not initialized")
		return
	}

	var req createSportRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sportQueryTimeout)
	defer cancel()

	sport, err := createSport(ctx, q, sportInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		FormConfig:  req.FormConfig,
	})
	if err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to create sport")
		return
	}

	logger.Info().Int64("sport_id", sport.ID).Str("slug", sport.Slug).Int("fields", len(sport.FormConfig)).Msg("Sport created")
	_ = apiutil.WriteJSON(w, http.StatusCreated, sportResponse{Message: "Sport created successfully", Sport: &sport})
}

// PUT /api/admin/sports
func HandleUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "database not initialized")
		return
	}

	var req updateSportRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.ID <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "Sport ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sportQueryTimeout)
	defer cancel()

	sport, err := updateSport(ctx, q, req.ID.Int64(), sportPatch{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		FormConfig:  req.FormConfig,
	})
	if err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to update sport")
		return
	}

	logger.Info().Int64("sport_id", sport.ID).Msg("Sport updated")
	_ = apiutil.WriteJSON(w, http.StatusOK, sportResponse{Message: "Sport updated successfully", Sport: &sport})
}

// DELETE /api/admin/sports?id=
func HandleDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries()
	if q == nil {
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
		apiutil.WriteError(w, http.StatusBadRequest, "Sport ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sportQueryTimeout)
	defer cancel()

	if err := deleteSport(ctx, q, *id); err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to delete sport")
		return
	}

	logger.Info().Int64("sport_id", *id).Msg("Sport deleted")
	_ = apiutil.WriteJSON(w, http.StatusOK, sportResponse{Message: "Sport deleted successfully"})
}

type sportFilter struct {
	ID   *int64
	Name string
	Slug string
}

func (f sportFilter) matches(s models.Sport) bool {
	if f.ID != nil && s.ID != *f.ID {
		return false
	}
	if f.Name != "" && s.Name != f.Name {
		return false
	}
	if f.Slug != "" && s.Slug != f.Slug {
		return false
	}
	return true
}

// findSports resolves the most selective filter in SQL and applies the rest
// in memory. Results are newest first.
func findSports(ctx context.Context, q sportQueries, f sportFilter) ([]models.Sport, error) {
	var (
		rows []dbgen.Sport
		row  dbgen.Sport
		err  error
	)
	switch {
	case f.ID != nil:
		row, err = q.GetSportByID(ctx, *f.ID)
	case f.Slug != "":
		row, err = q.GetSportBySlug(ctx, f.Slug)
	case f.Name != "":
		row, err = q.GetSportByName(ctx, f.Name)
	default:
		rows, err = q.ListSports(ctx)
		if err != nil {
			return nil, err
		}
		return models.SportsFromDB(rows)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.Sport{}, nil
		}
		return nil, err
	}

	sport, err := models.SportFromDB(row)
	if err != nil {
		return nil, err
	}
	if !f.matches(sport) {
		return []models.Sport{}, nil
	}
	return []models.Sport{sport}, nil
}

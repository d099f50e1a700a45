// internal/api/teams/handlers.go
package teams

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/models"
)

const teamQueryTimeout = 5 * time.Second

var (
	queries     teamQueries
	queriesOnce sync.Once
)

type teamQueries interface {
	CountPlayersByTeam(ctx context.Context, teamID int64) (int64, error)
	CreateTeam(ctx context.Context, arg dbgen.CreateTeamParams) (int64, error)
	DeleteTeam(ctx context.Context, id int64) (int64, error)
	GetSportByID(ctx context.Context, id int64) (dbgen.Sport, error)
	GetTeamByID(ctx context.Context, id int64) (dbgen.Team, error)
	GetTeamBySlug(ctx context.Context, slug string) (dbgen.Team, error)
	ListPlayers(ctx context.Context, arg dbgen.ListPlayersParams) ([]dbgen.Player, error)
	ListSports(ctx context.Context) ([]dbgen.Sport, error)
	ListTeams(ctx context.Context, sportID sql.NullInt64) ([]dbgen.Team, error)
	UpdateTeam(ctx context.Context, arg dbgen.UpdateTeamParams) (int64, error)
}

// Clients send the sport as either "sport" or "sportId".
type createTeamRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl"`
	Coach       string     `json:"coach"`
	Sport       apiutil.ID `json:"sport"`
	SportID     apiutil.ID `json:"sportId"`
}

type updateTeamRequest struct {
	ID          apiutil.ID `json:"id"`
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"imageUrl"`
	Coach       *string    `json:"coach"`
	Sport       apiutil.ID `json:"sport"`
	SportID     apiutil.ID `json:"sportId"`
}

type teamResponse struct {
	Message string       `json:"message"`
	Team    *models.Team `json:"team,omitempty"`
}

func firstID(ids ...apiutil.ID) apiutil.ID {
	for _, id := range ids {
		if id > 0 {
			return id
		}
	}
	return 0
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

func loadQueries() teamQueries {
	return queries
}

// GET /api/admin/teams
func HandleList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "database not initialized")
		return
	}

	id, err := apiutil.OptionalIDQuery(r, "teamId", "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	sportID, err := apiutil.OptionalIDQuery(r, "sportId")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	teams, err := findTeams(ctx, q, teamFilter{
		ID:      id,
		SportID: sportID,
		Slug:    strings.TrimSpace(r.URL.Query().Get("slug")),
	})
	if err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to list teams")
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, teams)
}

// POST /api/admin/teams
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "database not initialized")
		return
	}

	var req createTeamRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	team, err := createTeam(ctx, q, teamInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Coach:       req.Coach,
		SportID:     firstID(req.SportID, req.Sport).Int64(),
	})
	if err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to create team")
		return
	}

	logger.Info().Int64("team_id", team.ID).Int64("sport_id", team.SportID).Msg("Team created")
	_ = apiutil.WriteJSON(w, http.StatusCreated, teamResponse{Message: "Team created successfully", Team: &team})
}

// PUT /api/admin/teams
func HandleUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "database not initialized")
		return
	}

	var req updateTeamRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.ID <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "Team ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	team, err := updateTeam(ctx, q, req.ID.Int64(), teamPatch{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Coach:       req.Coach,
		SportID:     firstID(req.SportID, req.Sport).Ptr(),
	})
	if err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to update team")
		return
	}

	logger.Info().Int64("team_id", team.ID).Msg("Team updated")
	_ = apiutil.WriteJSON(w, http.StatusOK, teamResponse{Message: "Team updated successfully", Team: &team})
}

// DELETE /api/admin/teams?id=
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
		apiutil.WriteError(w, http.StatusBadRequest, "Team ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	if err := deleteTeam(ctx, q, *id); err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to delete team")
		return
	}

	logger.Info().Int64("team_id", *id).Msg("Team deleted")
	_ = apiutil.WriteJSON(w, http.StatusOK, teamResponse{Message: "Team deleted successfully"})
}

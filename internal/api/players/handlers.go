// internal/api/players/handlers.go
package players

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/models"
)

const playerQueryTimeout = 5 * time.Second

var (
	playerService *service
	queriesOnce   sync.Once
)

type playerQueries interface {
	CreatePlayer(ctx context.Context, arg dbgen.CreatePlayerParams) (int64, error)
	DeletePlayer(ctx context.Context, id int64) (int64, error)
	GetPlayerByID(ctx context.Context, id int64) (dbgen.Player, error)
	GetPlayerBySlug(ctx context.Context, slug string) (dbgen.Player, error)
	GetSportByID(ctx context.Context, id int64) (dbgen.Sport, error)
	GetTeamByID(ctx context.Context, id int64) (dbgen.Team, error)
	ListPlayers(ctx context.Context, arg dbgen.ListPlayersParams) ([]dbgen.Player, error)
	ListSports(ctx context.Context) ([]dbgen.Sport, error)
	ListTeams(ctx context.Context, sportID sql.NullInt64) ([]dbgen.Team, error)
	UpdatePlayer(ctx context.Context, arg dbgen.UpdatePlayerParams) (int64, error)
}

// Team and sport arrive as either "team"/"sport" or "teamId"/"sportId".
type createPlayerRequest struct {
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	Age              int64          `json:"age"`
	ImageURL         string         `json:"imageUrl"`
	Contact          string         `json:"contact"`
	Team             apiutil.ID     `json:"team"`
	TeamID           apiutil.ID     `json:"teamId"`
	Sport            apiutil.ID     `json:"sport"`
	SportID          apiutil.ID     `json:"sportId"`
	AdditionalFields map[string]any `json:"additionalFields"`
}

type updatePlayerRequest struct {
	ID               apiutil.ID     `json:"id"`
	Name             *string        `json:"name"`
	Description      *string        `json:"description"`
	Age              *int64         `json:"age"`
	ImageURL         *string        `json:"imageUrl"`
	Contact          *string        `json:"contact"`
	Team             apiutil.ID     `json:"team"`
	TeamID           apiutil.ID     `json:"teamId"`
	Sport            apiutil.ID     `json:"sport"`
	SportID          apiutil.ID     `json:"sportId"`
	AdditionalFields map[string]any `json:"additionalFields"`
}

type playerResponse struct {
	Message string         `json:"message"`
	Player  *models.Player `json:"player,omitempty"`
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
// phoneRegion is the default region for contact numbers without a country code.
func InitHandlers(q *dbgen.Queries, phoneRegion string) {
	if q == nil {
		return
	}
	queriesOnce.Do(func() {
		playerService = &service{q: q, phoneRegion: phoneRegion}
	})
}

func loadService() *service {
	return playerService
}

// writeServiceError reports custom field failures with every message keyed by
// descriptor id.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	var fieldErr fieldValidationError
	if errors.As(err, &fieldErr) {
		apiutil.WriteFieldErrors(w, fieldErr.Error(), fieldErr.Fields.ByID())
		return
	}
	apiutil.WriteHandlerError(w, r, err, logMsg)
}

// GET /api/admin/players
func HandleList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "database not initialized")
		return
	}

	var filter playerFilter
	var err error
	if filter.TeamID, err = apiutil.OptionalIDQuery(r, "teamId"); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.ID, err = apiutil.OptionalIDQuery(r, "playerId", "id"); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.SportID, err = apiutil.OptionalIDQuery(r, "sportId"); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	filter.Slug = strings.TrimSpace(r.URL.Query().Get("slug"))

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	result, err := svc.find(ctx, filter)
	if err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to list players")
		return
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, result)
}

// POST /api/admin/players
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "database not initialized")
		return
	}

	var req createPlayerRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	additional := req.AdditionalFields
	if additional == nil {
		additional = map[string]any{}
	}

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	player, err := svc.create(ctx, playerInput{
		Name:        req.Name,
		Description: req.Description,
		Age:         req.Age,
		ImageURL:    req.ImageURL,
		Contact:     req.Contact,
		TeamID:      firstID(req.TeamID, req.Team).Int64(),
		SportID:     firstID(req.SportID, req.Sport).Int64(),
		Answers:     answers{JSON: additional},
	})
	if err != nil {
		writeServiceError(w, r, err, "Failed to create player")
		return
	}

	logger.Info().Int64("player_id", player.ID).Int64("team_id", player.TeamID).Int("fields", len(player.Fields)).Msg("Player created")
	_ = apiutil.WriteJSON(w, http.StatusCreated, playerResponse{Message: "Player created successfully", Player: &player})
}

// PUT /api/admin/players
func HandleUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "database not initialized")
		return
	}

	var req updatePlayerRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.ID <= 0 {
		apiutil.WriteError(w, http.StatusBadRequest, "Player ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	player, err := svc.update(ctx, req.ID.Int64(), playerPatch{
		Name:        req.Name,
		Description: req.Description,
		Age:         req.Age,
		ImageURL:    req.ImageURL,
		Contact:     req.Contact,
		TeamID:      firstID(req.TeamID, req.Team).Ptr(),
		SportID:     firstID(req.SportID, req.Sport).Ptr(),
		Answers:     answers{JSON: req.AdditionalFields},
	})
	if err != nil {
		writeServiceError(w, r, err, "Failed to update player")
		return
	}

	logger.Info().Int64("player_id", player.ID).Msg("Player updated")
	_ = apiutil.WriteJSON(w, http.StatusOK, playerResponse{Message: "Player updated successfully", Player: &player})
}

// DELETE /api/admin/players?id=
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
		apiutil.WriteError(w, http.StatusBadRequest, "Player ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	if err := svc.delete(ctx, *id); err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to delete player")
		return
	}

	logger.Info().Int64("player_id", *id).Msg("Player deleted")
	_ = apiutil.WriteJSON(w, http.StatusOK, playerResponse{Message: "Player deleted successfully"})
}

package teams

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	"github.com/codr1/Clubhouse/internal/api/htmx"
	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/models"
	teamstempl "github.com/codr1/Clubhouse/internal/templates/components/teams"
)

var listNotices = map[string]string{
	"created": "Team created.",
	"saved":   "Team saved.",
	"deleted": "Team deleted.",
}

// GET /admin/teams
func HandleAdminList(w http.ResponseWriter, r *http.Request) {
	q := loadQueries()
	if q == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	teams, err := findTeams(ctx, q, teamFilter{})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to list teams")
		http.Error(w, "Failed to load teams", http.StatusInternalServerError)
		return
	}
	rows := make([]teamstempl.ListRow, 0, len(teams))
	for _, team := range teams {
		count, err := q.CountPlayersByTeam(ctx, team.ID)
		if err != nil {
			log.Ctx(r.Context()).Error().Err(err).Int64("team_id", team.ID).Msg("Failed to count players")
			http.Error(w, "Failed to load teams", http.StatusInternalServerError)
			return
		}
		rows = append(rows, teamstempl.ListRow{Team: team, PlayerCount: count})
	}

	notice := listNotices[r.URL.Query().Get("notice")]
	page := apiutil.AdminPage(r, "Teams", "teams", teamstempl.AdminList(rows, notice))
	apiutil.RenderPage(w, r, page, "Failed to render teams list")
}

// GET /admin/teams/new and /admin/teams/{id}
func HandleFormPage(w http.ResponseWriter, r *http.Request) {
	q := loadQueries()
	if q == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	data := teamstempl.FormData{}
	if raw := r.PathValue("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "Invalid team ID", http.StatusBadRequest)
			return
		}
		team, err := loadTeam(ctx, q, id)
		if err != nil {
			if errors.Is(err, errTeamNotFound) {
				http.Error(w, "Team not found", http.StatusNotFound)
				return
			}
			log.Ctx(r.Context()).Error().Err(err).Int64("team_id", id).Msg("Failed to load team")
			http.Error(w, "Failed to load team", http.StatusInternalServerError)
			return
		}
		data = teamstempl.FormData{
			ID:          team.ID,
			Name:        team.Name,
			Description: team.Description,
			ImageURL:    team.ImageURL,
			Coach:       team.Coach,
			SportID:     team.SportID,
		}
	} else if sportID, err := apiutil.OptionalIDQuery(r, "sportId"); err == nil && sportID != nil {
		data.SportID = *sportID
	}

	if err := attachSports(ctx, q, &data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to list sports")
		http.Error(w, "Failed to load sports", http.StatusInternalServerError)
		return
	}
	renderForm(w, r, http.StatusOK, data)
}

// POST /admin/teams/new and /admin/teams/{id}
func HandleFormSubmit(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries()
	if q == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	var id int64
	if raw := r.PathValue("id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid team ID", http.StatusBadRequest)
			return
		}
		id = parsed
	}

	data := teamstempl.FormData{
		ID:          id,
		Name:        r.PostForm.Get("name"),
		Description: r.PostForm.Get("description"),
		ImageURL:    r.PostForm.Get("imageUrl"),
		Coach:       r.PostForm.Get("coach"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	sportID, err := apiutil.ParseOptionalInt64Field(r.PostForm.Get("sportId"), "sport")
	if err != nil {
		err = apiutil.BadRequest(err.Error())
	} else if sportID != nil {
		data.SportID = *sportID
	}

	var notice string
	if err == nil {
		if id == 0 {
			_, err = createTeam(ctx, q, teamInput{
				Name:        data.Name,
				Description: data.Description,
				ImageURL:    data.ImageURL,
				Coach:       data.Coach,
				SportID:     data.SportID,
			})
			notice = "created"
		} else {
			_, err = updateTeam(ctx, q, id, teamPatch{
				Name:        &data.Name,
				Description: &data.Description,
				ImageURL:    &data.ImageURL,
				Coach:       &data.Coach,
				SportID:     &data.SportID,
			})
			notice = "saved"
		}
	}
	if err != nil {
		msg, ok := apiutil.ClientErrorMessage(err)
		if !ok {
			logger.Error().Err(err).Int64("team_id", id).Msg("Failed to save team")
			http.Error(w, "Failed to save team", http.StatusInternalServerError)
			return
		}
		data.Error = msg
		if sportsErr := attachSports(ctx, q, &data); sportsErr != nil {
			logger.Error().Err(sportsErr).Msg("Failed to list sports")
		}
		renderForm(w, r, apiutil.ErrorStatus(err), data)
		return
	}

	http.Redirect(w, r, "/admin/teams?notice="+notice, http.StatusSeeOther)
}

// POST /admin/teams/{id}/delete
func HandleDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries()
	if q == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid team ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	if err := deleteTeam(ctx, q, id); err != nil {
		if msg, ok := apiutil.ClientErrorMessage(err); ok {
			http.Error(w, msg, apiutil.ErrorStatus(err))
			return
		}
		logger.Error().Err(err).Int64("team_id", id).Msg("Failed to delete team")
		http.Error(w, "Failed to delete team", http.StatusInternalServerError)
		return
	}

	target := "/admin/teams?notice=deleted"
	if htmx.IsRequest(r) {
		htmx.Redirect(w, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// GET /team/{slug}
func HandleDetailPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries()
	if q == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	slug := strings.TrimSpace(r.PathValue("slug"))
	ctx, cancel := context.WithTimeout(r.Context(), teamQueryTimeout)
	defer cancel()

	row, err := q.GetTeamBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.RenderNotFound(w, r, "We couldn't find that team.")
			return
		}
		logger.Error().Err(err).Str("slug", slug).Msg("Failed to load team")
		http.Error(w, "Failed to load team", http.StatusInternalServerError)
		return
	}
	team := models.TeamFromDB(row)

	sportRow, err := q.GetSportByID(ctx, team.SportID)
	if err != nil {
		logger.Error().Err(err).Int64("sport_id", team.SportID).Msg("Failed to load team sport")
		http.Error(w, "Failed to load team", http.StatusInternalServerError)
		return
	}
	sport, err := models.SportFromDB(sportRow)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to decode sport")
		http.Error(w, "Failed to load team", http.StatusInternalServerError)
		return
	}

	playerRows, err := q.ListPlayers(ctx, dbgen.ListPlayersParams{TeamID: sql.NullInt64{Int64: team.ID, Valid: true}})
	if err != nil {
		logger.Error().Err(err).Int64("team_id", team.ID).Msg("Failed to list players")
		http.Error(w, "Failed to load team", http.StatusInternalServerError)
		return
	}
	players, err := models.PlayersFromDB(playerRows)
	if err != nil {
		logger.Error().Err(err).Int64("team_id", team.ID).Msg("Failed to decode players")
		http.Error(w, "Failed to load team", http.StatusInternalServerError)
		return
	}

	body := teamstempl.Detail(teamstempl.DetailData{Team: team, Sport: sport, Players: players})
	page := apiutil.PublicPage(r, team.Name, "sports", team.Description, body)
	apiutil.RenderPage(w, r, page, "Failed to render team page")
}

func attachSports(ctx context.Context, q teamQueries, data *teamstempl.FormData) error {
	rows, err := q.ListSports(ctx)
	if err != nil {
		return err
	}
	sports, err := models.SportsFromDB(rows)
	if err != nil {
		return err
	}
	data.Sports = sports
	return nil
}

func renderForm(w http.ResponseWriter, r *http.Request, status int, data teamstempl.FormData) {
	title := "Edit team"
	if data.IsNew() {
		title = "New team"
	}
	page := apiutil.AdminPage(r, title, "teams", teamstempl.Form(data))
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, page, "Failed to render team form")
}

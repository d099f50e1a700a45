package sports

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
	"github.com/codr1/Clubhouse/internal/formconfig"
	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/templates/components/formbuilder"
	sportstempl "github.com/codr1/Clubhouse/internal/templates/components/sports"
)

const maxFormBytes = 1 << 20

var listNotices = map[string]string{
	"created": "Sport created.",
	"saved":   "Sport saved.",
	"deleted": "Sport deleted.",
}

// GET /admin/sports
func HandleAdminList(w http.ResponseWriter, r *http.Request) {
	q := loadQueries()
	if q == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sportQueryTimeout)
	defer cancel()

	sports, err := findSports(ctx, q, sportFilter{})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to list sports")
		http.Error(w, "Failed to load sports", http.StatusInternalServerError)
		return
	}
	rows := make([]sportstempl.ListRow, 0, len(sports))
	for _, sport := range sports {
		count, err := q.CountTeamsBySport(ctx, sport.ID)
		if err != nil {
			log.Ctx(r.Context()).Error().Err(err).Int64("sport_id", sport.ID).Msg("Failed to count teams")
			http.Error(w, "Failed to load sports", http.StatusInternalServerError)
			return
		}
		rows = append(rows, sportstempl.ListRow{Sport: sport, TeamCount: count})
	}

	notice := listNotices[r.URL.Query().Get("notice")]
	page := apiutil.AdminPage(r, "Sports", "sports", sportstempl.AdminList(rows, notice))
	apiutil.RenderPage(w, r, page, "Failed to render sports list")
}

// GET /admin/sports/new and /admin/sports/{id}
func HandleFormPage(w http.ResponseWriter, r *http.Request) {
	q := loadQueries()
	if q == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	data := sportstempl.FormData{Builder: formbuilder.Data{Fields: formconfig.Config{}}}
	if raw := r.PathValue("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "Invalid sport ID", http.StatusBadRequest)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), sportQueryTimeout)
		defer cancel()

		sport, err := loadSport(ctx, q, id)
		if err != nil {
			if errors.Is(err, errSportNotFound) {
				http.Error(w, "Sport not found", http.StatusNotFound)
				return
			}
			log.Ctx(r.Context()).Error().Err(err).Int64("sport_id", id).Msg("Failed to load sport")
			http.Error(w, "Failed to load sport", http.StatusInternalServerError)
			return
		}
		data = formDataFromSport(sport)
	}

	renderForm(w, r, http.StatusOK, data)
}

// POST /admin/sports/new and /admin/sports/{id}
func HandleFormSubmit(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries()
	if q == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	var id int64
	if raw := r.PathValue("id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid sport ID", http.StatusBadRequest)
			return
		}
		id = parsed
	}

	data := sportstempl.FormData{
		ID:          id,
		Name:        r.PostForm.Get("name"),
		Description: r.PostForm.Get("description"),
		ImageURL:    r.PostForm.Get("imageUrl"),
	}
	builder, err := builderStateFromForm(r.PostForm)
	data.Builder = builder
	if err != nil {
		data.Error = "The field list could not be read. Reload the page and try again."
		renderForm(w, r, http.StatusBadRequest, data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sportQueryTimeout)
	defer cancel()

	var (
		sport  models.Sport
		notice string
	)
	if id == 0 {
		sport, err = createSport(ctx, q, sportInput{
			Name:        data.Name,
			Description: data.Description,
			ImageURL:    data.ImageURL,
			FormConfig:  builder.Fields,
		})
		notice = "created"
	} else {
		fields := builder.Fields
		sport, err = updateSport(ctx, q, id, sportPatch{
			Name:        &data.Name,
			Description: &data.Description,
			ImageURL:    &data.ImageURL,
			FormConfig:  &fields,
		})
		notice = "saved"
	}
	if err != nil {
		if msg, ok := apiutil.ClientErrorMessage(err); ok {
			data.Error = msg
			renderForm(w, r, apiutil.ErrorStatus(err), data)
			return
		}
		logger.Error().Err(err).Int64("sport_id", id).Msg("Failed to save sport")
		http.Error(w, "Failed to save sport", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("sport_id", sport.ID).Str("notice", notice).Msg("Sport saved from admin form")
	http.Redirect(w, r, "/admin/sports?notice="+notice, http.StatusSeeOther)
}

// POST /admin/sports/builder
func HandleBuilderAction(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	data, err := builderStateFromForm(r.PostForm)
	if err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("Rejected builder state")
		data.Fields = formconfig.Config{}
		data.Error = "The field list could not be read and was reset."
	} else {
		action := parseBuilderAction(r.PostForm.Get(formbuilder.ActionInput))
		data = applyBuilderAction(clock, data, r.PostForm, action)
	}

	apiutil.RenderHTMLComponent(r.Context(), w, formbuilder.Builder(data), nil, "Failed to render form builder", "Failed to render form builder")
}

// POST /admin/sports/{id}/delete
func HandleDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries()
	if q == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid sport ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), sportQueryTimeout)
	defer cancel()

	if err := deleteSport(ctx, q, id); err != nil {
		if msg, ok := apiutil.ClientErrorMessage(err); ok {
			http.Error(w, msg, apiutil.ErrorStatus(err))
			return
		}
		logger.Error().Err(err).Int64("sport_id", id).Msg("Failed to delete sport")
		http.Error(w, "Failed to delete sport", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("sport_id", id).Msg("Sport deleted from admin")
	target := "/admin/sports?notice=deleted"
	if htmx.IsRequest(r) {
		htmx.Redirect(w, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// GET /sport/{slug}
func HandleDetailPage(w http.ResponseWriter, r *http.Request) {
	q := loadQueries()
	if q == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	slug := strings.TrimSpace(r.PathValue("slug"))
	ctx, cancel := context.WithTimeout(r.Context(), sportQueryTimeout)
	defer cancel()

	row, err := q.GetSportBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.RenderNotFound(w, r, "We couldn't find that sport.")
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Str("slug", slug).Msg("Failed to load sport")
		http.Error(w, "Failed to load sport", http.StatusInternalServerError)
		return
	}
	sport, err := models.SportFromDB(row)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("slug", slug).Msg("Failed to decode sport")
		http.Error(w, "Failed to load sport", http.StatusInternalServerError)
		return
	}

	teams, err := q.ListTeams(ctx, sql.NullInt64{Int64: sport.ID, Valid: true})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("sport_id", sport.ID).Msg("Failed to list teams")
		http.Error(w, "Failed to load sport", http.StatusInternalServerError)
		return
	}

	body := sportstempl.Detail(sportstempl.DetailData{Sport: sport, Teams: models.TeamsFromDB(teams)})
	page := apiutil.PublicPage(r, sport.Name, "sports", sport.Description, body)
	apiutil.RenderPage(w, r, page, "Failed to render sport page")
}

func formDataFromSport(sport models.Sport) sportstempl.FormData {
	fields := sport.FormConfig
	if fields == nil {
		fields = formconfig.Config{}
	}
	return sportstempl.FormData{
		ID:          sport.ID,
		Name:        sport.Name,
		Description: sport.Description,
		ImageURL:    sport.ImageURL,
		Builder:     formbuilder.Data{Fields: fields},
	}
}

func renderForm(w http.ResponseWriter, r *http.Request, status int, data sportstempl.FormData) {
	title := "Edit sport"
	if data.IsNew() {
		title = "New sport"
	}
	page := apiutil.AdminPage(r, title, "sports", sportstempl.Form(data))
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, page, "Failed to render sport form")
}

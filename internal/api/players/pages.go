package players

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	"github.com/codr1/Clubhouse/internal/api/htmx"
	"github.com/codr1/Clubhouse/internal/formconfig"
	"github.com/codr1/Clubhouse/internal/models"
	playerstempl "github.com/codr1/Clubhouse/internal/templates/components/players"
)

var listNotices = map[string]string{
	"created": "Player created.",
	"saved":   "Player saved.",
	"deleted": "Player deleted.",
}

// GET /admin/players
func HandleAdminList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	svc := loadService()
	if svc == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	teamID, err := apiutil.OptionalIDQuery(r, "teamId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	list, err := svc.find(ctx, playerFilter{TeamID: teamID})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list players")
		http.Error(w, "Failed to load players", http.StatusInternalServerError)
		return
	}
	teams, err := svc.teams(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list teams")
		http.Error(w, "Failed to load players", http.StatusInternalServerError)
		return
	}

	data := playerstempl.ListData{
		Players: list,
		Teams:   teams,
		Notice:  listNotices[r.URL.Query().Get("notice")],
	}
	if teamID != nil {
		data.TeamID = *teamID
	}
	page := apiutil.AdminPage(r, "Players", "players", playerstempl.AdminList(data))
	apiutil.RenderPage(w, r, page, "Failed to render players list")
}

// GET /admin/players/fields?sportId=
func HandleFieldsFragment(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	sportID, err := apiutil.OptionalIDQuery(r, "sportId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg := formconfig.Config{}
	if sportID != nil {
		ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
		defer cancel()

		row, err := svc.q.GetSportByID(ctx, *sportID)
		if err != nil {
			if isNoRows(err) {
				http.Error(w, "Sport not found", http.StatusNotFound)
				return
			}
			log.Ctx(r.Context()).Error().Err(err).Int64("sport_id", *sportID).Msg("Failed to load sport")
			http.Error(w, "Failed to load fields", http.StatusInternalServerError)
			return
		}
		sport, err := models.SportFromDB(row)
		if err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("Failed to decode sport")
			http.Error(w, "Failed to load fields", http.StatusInternalServerError)
			return
		}
		cfg = sport.FormConfig
	}

	apiutil.RenderHTMLComponent(r.Context(), w, playerstempl.Fields(cfg, nil, nil), nil, "Failed to render player fields", "Failed to render player fields")
}

// GET /admin/players/new and /admin/players/{id}
func HandleFormPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	svc := loadService()
	if svc == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	data := playerstempl.FormData{}
	if raw := r.PathValue("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "Invalid player ID", http.StatusBadRequest)
			return
		}
		player, err := svc.load(ctx, id)
		if err != nil {
			if errors.Is(err, errPlayerNotFound) {
				http.Error(w, "Player not found", http.StatusNotFound)
				return
			}
			logger.Error().Err(err).Int64("player_id", id).Msg("Failed to load player")
			http.Error(w, "Failed to load player", http.StatusInternalServerError)
			return
		}
		data = playerstempl.FormData{
			ID:          player.ID,
			Name:        player.Name,
			Age:         strconv.FormatInt(player.Age, 10),
			Contact:     player.Contact,
			Description: player.Description,
			ImageURL:    player.ImageURL,
			TeamID:      player.TeamID,
			SportID:     player.SportID,
			FieldValues: player.Fields.FormValues(),
		}
	} else {
		if teamID, err := apiutil.OptionalIDQuery(r, "teamId"); err == nil && teamID != nil {
			data.TeamID = *teamID
		}
		if sportID, err := apiutil.OptionalIDQuery(r, "sportId"); err == nil && sportID != nil {
			data.SportID = *sportID
		}
	}

	if err := svc.fillFormChoices(ctx, &data); err != nil {
		logger.Error().Err(err).Msg("Failed to load player form choices")
		http.Error(w, "Failed to load player form", http.StatusInternalServerError)
		return
	}
	renderForm(w, r, http.StatusOK, data)
}

// POST /admin/players/new and /admin/players/{id}
func HandleFormSubmit(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	svc := loadService()
	if svc == nil {
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
			http.Error(w, "Invalid player ID", http.StatusBadRequest)
			return
		}
		id = parsed
	}

	form := r.PostForm
	data := playerstempl.FormData{
		ID:          id,
		Name:        form.Get("name"),
		Age:         strings.TrimSpace(form.Get("age")),
		Contact:     form.Get("contact"),
		Description: form.Get("description"),
		ImageURL:    form.Get("imageUrl"),
		FieldValues: submittedValues(form),
	}

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	input, err := playerInputFromForm(form)
	data.TeamID = input.TeamID
	data.SportID = input.SportID

	var notice string
	if err == nil {
		if id == 0 {
			_, err = svc.create(ctx, input)
			notice = "created"
		} else {
			_, err = svc.update(ctx, id, playerPatch{
				Name:        &input.Name,
				Description: &input.Description,
				Age:         &input.Age,
				ImageURL:    &input.ImageURL,
				Contact:     &input.Contact,
				TeamID:      &input.TeamID,
				SportID:     &input.SportID,
				Answers:     input.Answers,
			})
			notice = "saved"
		}
	}
	if err != nil {
		status := http.StatusBadRequest
		var fieldErr fieldValidationError
		switch {
		case errors.As(err, &fieldErr):
			data.Error = "Please correct the highlighted fields."
			data.FieldErrors = fieldErr.Fields.ByID()
		default:
			msg, ok := apiutil.ClientErrorMessage(err)
			if !ok {
				logger.Error().Err(err).Int64("player_id", id).Msg("Failed to save player")
				http.Error(w, "Failed to save player", http.StatusInternalServerError)
				return
			}
			data.Error = msg
			status = apiutil.ErrorStatus(err)
		}
		if choicesErr := svc.fillFormChoices(ctx, &data); choicesErr != nil {
			logger.Error().Err(choicesErr).Msg("Failed to load player form choices")
		}
		renderForm(w, r, status, data)
		return
	}

	http.Redirect(w, r, "/admin/players?notice="+notice, http.StatusSeeOther)
}

// POST /admin/players/{id}/delete
func HandleDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	svc := loadService()
	if svc == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid player ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	if err := svc.delete(ctx, id); err != nil {
		if msg, ok := apiutil.ClientErrorMessage(err); ok {
			http.Error(w, msg, apiutil.ErrorStatus(err))
			return
		}
		logger.Error().Err(err).Int64("player_id", id).Msg("Failed to delete player")
		http.Error(w, "Failed to delete player", http.StatusInternalServerError)
		return
	}

	target := "/admin/players?notice=deleted"
	if htmx.IsRequest(r) {
		htmx.Redirect(w, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// GET /player/{id}. The segment may be a numeric id or a slug.
func HandleDetailPage(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	key := strings.TrimSpace(r.PathValue("id"))
	filter := playerFilter{Slug: key}
	if id, err := strconv.ParseInt(key, 10, 64); err == nil && id > 0 {
		filter = playerFilter{ID: &id}
	}

	ctx, cancel := context.WithTimeout(r.Context(), playerQueryTimeout)
	defer cancel()

	found, err := svc.find(ctx, filter)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("player", key).Msg("Failed to load player")
		http.Error(w, "Failed to load player", http.StatusInternalServerError)
		return
	}
	if len(found) == 0 {
		apiutil.RenderNotFound(w, r, "We couldn't find that player.")
		return
	}

	player := found[0]
	page := apiutil.PublicPage(r, player.Name, "sports", player.Description, playerstempl.Detail(playerstempl.DetailData{Player: player}))
	apiutil.RenderPage(w, r, page, "Failed to render player page")
}

func playerInputFromForm(form map[string][]string) (playerInput, error) {
	get := func(key string) string {
		if values := form[key]; len(values) > 0 {
			return values[0]
		}
		return ""
	}
	input := playerInput{
		Name:        get("name"),
		Description: get("description"),
		ImageURL:    get("imageUrl"),
		Contact:     get("contact"),
		Answers:     answers{Form: form},
	}
	teamID, err := apiutil.ParseOptionalInt64Field(get("teamId"), "team")
	if err != nil {
		return input, apiutil.BadRequest(err.Error())
	}
	if teamID != nil {
		input.TeamID = *teamID
	}
	sportID, err := apiutil.ParseOptionalInt64Field(get("sportId"), "sport")
	if err != nil {
		return input, apiutil.BadRequest(err.Error())
	}
	if sportID != nil {
		input.SportID = *sportID
	}
	age, err := apiutil.ParseNonNegativeInt64Field(get("age"), "age")
	if err != nil {
		return input, apiutil.BadRequest(err.Error())
	}
	input.Age = age
	return input, nil
}

// submittedValues keeps the raw custom field values so a failed submit can
// re-populate the controls.
func submittedValues(form map[string][]string) map[string][]string {
	out := make(map[string][]string)
	for key, values := range form {
		if id, ok := strings.CutPrefix(key, formconfig.FormFieldPrefix); ok {
			out[id] = values
		}
	}
	return out
}

func renderForm(w http.ResponseWriter, r *http.Request, status int, data playerstempl.FormData) {
	title := "Edit player"
	if data.IsNew() {
		title = "New player"
	}
	page := apiutil.AdminPage(r, title, "players", playerstempl.Form(data))
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, page, "Failed to render player form")
}

package events

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	"github.com/codr1/Clubhouse/internal/api/htmx"
	"github.com/codr1/Clubhouse/internal/models"
	eventstempl "github.com/codr1/Clubhouse/internal/templates/components/events"
)

const (
	publicPageLimit  = 12
	paginationWindow = 5
)

var listNotices = map[string]string{
	"created": "Event created.",
	"saved":   "Event saved.",
	"deleted": "Event deleted.",
}

// Upcoming returns the next events that have not started yet, soonest first,
// with times in the club's timezone.
func Upcoming(ctx context.Context, limit int64) ([]models.Event, error) {
	svc := loadService()
	if svc == nil {
		return nil, errors.New("events not initialized")
	}
	now := svc.clock.Now()
	list, err := svc.find(ctx, eventFilter{
		Status:      string(models.EventUpcoming),
		StartsAfter: &now,
		Sort:        sortStartDate,
		Limit:       limit,
	})
	return localize(list), err
}

// localize converts event times to the club's timezone for display.
func localize(list []models.Event) []models.Event {
	for i := range list {
		list[i].StartDate = list[i].StartDate.In(location)
		list[i].EndDate = list[i].EndDate.In(location)
	}
	return list
}

// GET /admin/events
func HandleAdminList(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), eventQueryTimeout)
	defer cancel()

	list, err := svc.find(ctx, eventFilter{})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to list events")
		http.Error(w, "Failed to load events", http.StatusInternalServerError)
		return
	}
	page := apiutil.AdminPage(r, "Events", "events", eventstempl.AdminList(localize(list), listNotices[r.URL.Query().Get("notice")]))
	apiutil.RenderPage(w, r, page, "Failed to render events list")
}

func formTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(location).Format(eventstempl.InputLayout)
}

// GET /admin/events/new and /admin/events/{id}
func HandleFormPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	svc := loadService()
	if svc == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), eventQueryTimeout)
	defer cancel()

	data := eventstempl.FormData{}
	if raw := r.PathValue("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "Invalid event ID", http.StatusBadRequest)
			return
		}
		event, err := svc.load(ctx, id)
		if err != nil {
			if errors.Is(err, errEventNotFound) {
				http.Error(w, "Event not found", http.StatusNotFound)
				return
			}
			logger.Error().Err(err).Int64("event_id", id).Msg("Failed to load event")
			http.Error(w, "Failed to load event", http.StatusInternalServerError)
			return
		}
		data = eventstempl.FormData{
			ID:          event.ID,
			Name:        event.Name,
			Description: event.Description,
			ImageURL:    event.ImageURL,
			Location:    event.Location,
			StartDate:   formTime(event.StartDate),
			EndDate:     formTime(event.EndDate),
			Status:      string(event.Status),
			TeamIDs:     event.TeamIDs,
		}
		if event.SportID != nil {
			data.SportID = *event.SportID
		}
	}

	if err := attachChoices(ctx, svc, &data); err != nil {
		logger.Error().Err(err).Msg("Failed to load event form choices")
		http.Error(w, "Failed to load event form", http.StatusInternalServerError)
		return
	}
	renderForm(w, r, http.StatusOK, data)
}

// POST /admin/events/new and /admin/events/{id}
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
			http.Error(w, "Invalid event ID", http.StatusBadRequest)
			return
		}
		id = parsed
	}

	form := r.PostForm
	data := eventstempl.FormData{
		ID:          id,
		Name:        form.Get("name"),
		Description: form.Get("description"),
		ImageURL:    form.Get("imageUrl"),
		Location:    form.Get("location"),
		StartDate:   form.Get("startDate"),
		EndDate:     form.Get("endDate"),
		Status:      form.Get("status"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), eventQueryTimeout)
	defer cancel()

	in, err := eventInputFromForm(form)
	data.TeamIDs = in.TeamIDs
	if in.SportID != nil {
		data.SportID = *in.SportID
	}

	notice := "created"
	if err == nil {
		if id == 0 {
			_, err = svc.create(ctx, in)
		} else {
			sportID := data.SportID
			teamIDs := in.TeamIDs
			_, err = svc.update(ctx, id, eventPatch{
				Name:        &in.Name,
				Description: &in.Description,
				ImageURL:    &in.ImageURL,
				Location:    &in.Location,
				StartDate:   &in.StartDate,
				EndDate:     &in.EndDate,
				Status:      &in.Status,
				SportID:     &sportID,
				TeamIDs:     &teamIDs,
			})
			notice = "saved"
		}
	}
	if err != nil {
		msg, ok := apiutil.ClientErrorMessage(err)
		if !ok {
			logger.Error().Err(err).Int64("event_id", id).Msg("Failed to save event")
			http.Error(w, "Failed to save event", http.StatusInternalServerError)
			return
		}
		data.Error = msg
		if choicesErr := attachChoices(ctx, svc, &data); choicesErr != nil {
			logger.Error().Err(choicesErr).Msg("Failed to load event form choices")
		}
		renderForm(w, r, apiutil.ErrorStatus(err), data)
		return
	}

	http.Redirect(w, r, "/admin/events?notice="+notice, http.StatusSeeOther)
}

// POST /admin/events/{id}/delete
func HandleDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid event ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), eventQueryTimeout)
	defer cancel()

	if err := svc.delete(ctx, id); err != nil {
		if msg, ok := apiutil.ClientErrorMessage(err); ok {
			http.Error(w, msg, apiutil.ErrorStatus(err))
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Int64("event_id", id).Msg("Failed to delete event")
		http.Error(w, "Failed to delete event", http.StatusInternalServerError)
		return
	}

	target := "/admin/events?notice=deleted"
	if htmx.IsRequest(r) {
		htmx.Redirect(w, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// GET /events
func HandlePublicListPage(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	filter, err := publicFilter(r, svc.clock.Now())
	if err != nil {
		filter = eventFilter{Sort: sortStartDate}
	}
	page := apiutil.ParsePage(r, publicPageLimit, publicPageLimit)

	ctx, cancel := context.WithTimeout(r.Context(), eventQueryTimeout)
	defer cancel()

	list, page, err := svc.page(ctx, filter, page)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to list events")
		http.Error(w, "Failed to load events", http.StatusInternalServerError)
		return
	}

	base := url.URL{Path: "/events"}
	if filter.Status != "" {
		base.RawQuery = url.Values{"status": {filter.Status}}.Encode()
	}
	body := eventstempl.List(eventstempl.ListData{
		Events:     localize(list),
		Status:     filter.Status,
		Base:       base,
		Page:       page.Number,
		TotalPages: page.TotalPages,
		Window:     apiutil.PageWindow(page.Number, page.TotalPages, paginationWindow),
	})
	apiutil.RenderPage(w, r, apiutil.PublicPage(r, "Events", "events", "Club events and fixtures", body), "Failed to render events page")
}

// GET /event/{slug}
func HandleDetailPage(w http.ResponseWriter, r *http.Request) {
	svc := loadService()
	if svc == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	slug := strings.TrimSpace(r.PathValue("slug"))
	ctx, cancel := context.WithTimeout(r.Context(), eventQueryTimeout)
	defer cancel()

	found, err := svc.find(ctx, eventFilter{Slug: slug})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("slug", slug).Msg("Failed to load event")
		http.Error(w, "Failed to load event", http.StatusInternalServerError)
		return
	}
	if slug == "" || len(found) == 0 {
		apiutil.RenderNotFound(w, r, "We couldn't find that event.")
		return
	}

	event := localize(found)[0]
	page := apiutil.PublicPage(r, event.Name, "events", event.Description, eventstempl.Detail(event))
	apiutil.RenderPage(w, r, page, "Failed to render event page")
}

func eventInputFromForm(form url.Values) (eventInput, error) {
	in := eventInput{
		Name:        form.Get("name"),
		Description: form.Get("description"),
		ImageURL:    form.Get("imageUrl"),
		Location:    form.Get("location"),
		Status:      form.Get("status"),
	}
	for _, raw := range form["teamIds"] {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			return in, apiutil.BadRequest("invalid team")
		}
		in.TeamIDs = append(in.TeamIDs, id)
	}
	sportID, err := apiutil.ParseOptionalInt64Field(form.Get("sportId"), "sport")
	if err != nil {
		return in, apiutil.BadRequest(err.Error())
	}
	in.SportID = sportID

	if in.StartDate, in.EndDate, err = parseDates(form.Get("startDate"), form.Get("endDate")); err != nil {
		return in, err
	}
	return in, nil
}

func attachChoices(ctx context.Context, svc *service, data *eventstempl.FormData) error {
	sports, teams, err := svc.formChoices(ctx)
	if err != nil {
		return err
	}
	data.Sports = sports
	data.Teams = teams
	return nil
}

func renderForm(w http.ResponseWriter, r *http.Request, status int, data eventstempl.FormData) {
	title := "Edit event"
	if data.IsNew() {
		title = "New event"
	}
	page := apiutil.AdminPage(r, title, "events", eventstempl.Form(data))
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, page, "Failed to render event form")
}

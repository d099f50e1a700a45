package events

import (
	"net/url"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/templates/components/shared"
	"github.com/codr1/Clubhouse/internal/templates/view"
)

// InputLayout is the datetime-local format used by the admin form.
const InputLayout = "2006-01-02T15:04"

const displayLayout = "Mon Jan 2, 2006 3:04 PM"

var statusLabels = map[models.EventStatus]string{
	models.EventUpcoming:  "Upcoming",
	models.EventOngoing:   "Ongoing",
	models.EventCompleted: "Completed",
	models.EventCancelled: "Cancelled",
}

func statusBadge(v *view.Writer, status models.EventStatus) {
	v.Printf(`<span class="badge badge-%s">%s</span>`, string(status), statusLabels[status])
}

func dateRange(start, end time.Time) string {
	if start.Format("2006-01-02") == end.Format("2006-01-02") {
		return start.Format(displayLayout) + " to " + end.Format("3:04 PM")
	}
	return start.Format(displayLayout) + " to " + end.Format(displayLayout)
}

type FormData struct {
	ID          int64
	Name        string
	Description string
	ImageURL    string
	Location    string
	StartDate   string
	EndDate     string
	// Status is only honoured when set to cancelled; other values are
	// derived from the dates.
	Status  string
	SportID int64
	TeamIDs []int64
	Sports  []models.Sport
	Teams   []models.Team
	Error   string
}

func (d FormData) IsNew() bool { return d.ID == 0 }

func (d FormData) action() string {
	if d.IsNew() {
		return "/admin/events/new"
	}
	return "/admin/events/" + strconv.FormatInt(d.ID, 10)
}

func (d FormData) hasTeam(id int64) bool {
	for _, teamID := range d.TeamIDs {
		if teamID == id {
			return true
		}
	}
	return false
}

func AdminList(list []models.Event, notice string) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Raw(`<div class="page-header"><h1>Events</h1><a class="btn btn-primary" href="/admin/events/new">New event</a></div>`)
		if notice != "" {
			v.Printf(`<div class="alert alert-success">%s</div>`, notice)
		}
		if len(list) == 0 {
			v.Component(shared.EmptyState("No events yet."))
			return
		}
		v.Raw(`<table class="data-table"><thead><tr><th>Name</th><th>Starts</th><th>Location</th><th>Status</th><th></th></tr></thead><tbody>`)
		for _, e := range list {
			v.Printf(`<tr><td><a href="/admin/events/%d">%s</a></td><td>%s</td><td>%s</td><td>`,
				e.ID, e.Name, e.StartDate.Format(displayLayout), e.Location)
			statusBadge(v, e.Status)
			v.Raw(`</td><td class="actions">`)
			v.Printf(`<a class="btn btn-small" href="/event/%s">View</a>`, e.Slug)
			v.Component(shared.DeleteButton("/admin/events/"+strconv.FormatInt(e.ID, 10)+"/delete", e.Name))
			v.Raw(`</td></tr>`)
		}
		v.Raw(`</tbody></table>`)
	})
}

func Form(data FormData) templ.Component {
	return view.Func(func(v *view.Writer) {
		title := "Edit event"
		if data.IsNew() {
			title = "New event"
		}
		v.Printf(`<div class="page-header"><h1>%s</h1><a href="/admin/events">Back to events</a></div>`, title)
		v.Component(shared.FormError(data.Error))
		v.Printf(`<form method="post" action="%s" class="stack event-form">`, data.action())
		v.Printf(`<label for="name">Name</label><input id="name" type="text" name="name" value="%s" required maxlength="100">`, data.Name)
		v.Printf(`<label for="location">Location</label><input id="location" type="text" name="location" value="%s">`, data.Location)
		v.Printf(`<label for="startDate">Starts</label><input id="startDate" type="datetime-local" name="startDate" value="%s" required>`, data.StartDate)
		v.Printf(`<label for="endDate">Ends</label><input id="endDate" type="datetime-local" name="endDate" value="%s" required>`, data.EndDate)
		v.Raw(`<label class="checkbox"><input type="checkbox" name="status" value="cancelled"`)
		v.BoolAttr("checked", data.Status == string(models.EventCancelled))
		v.Raw(`> Cancelled</label>`)
		v.Raw(`<label for="description">Description</label><textarea id="description" name="description" rows="5">`)
		v.Text(data.Description)
		v.Raw(`</textarea>`)
		v.Component(shared.ImageInput("imageUrl", "Image", data.ImageURL))

		sports := make([]shared.Option, 0, len(data.Sports))
		for _, s := range data.Sports {
			sports = append(sports, shared.Option{Value: strconv.FormatInt(s.ID, 10), Label: s.Name})
		}
		selected := ""
		if data.SportID > 0 {
			selected = strconv.FormatInt(data.SportID, 10)
		}
		v.Component(shared.Select("sportId", "Sport", "No sport", sports, selected))

		if len(data.Teams) > 0 {
			v.Raw(`<fieldset class="team-picker"><legend>Teams</legend>`)
			for _, t := range data.Teams {
				v.Printf(`<label class="checkbox"><input type="checkbox" name="teamIds" value="%d"`, t.ID)
				v.BoolAttr("checked", data.hasTeam(t.ID))
				v.Printf(`> %s</label>`, t.Name)
			}
			v.Raw(`</fieldset>`)
		}
		v.Raw(`<div class="form-actions"><button type="submit" class="btn btn-primary">Save event</button></div></form>`)
	})
}

// Card is the summary used on listings and the home page.
func Card(e models.Event) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Printf(`<a class="card event-card" href="/event/%s">`, e.Slug)
		v.Component(shared.Image(e.ImageURL, e.Name, "card-image"))
		v.Printf(`<h3>%s</h3>`, e.Name)
		v.Printf(`<p class="muted">%s</p>`, e.StartDate.Format(displayLayout))
		if e.Location != "" {
			v.Printf(`<p class="muted">%s</p>`, e.Location)
		}
		statusBadge(v, e.Status)
		v.Raw(`</a>`)
	})
}

type ListData struct {
	Events     []models.Event
	Status     string
	Base       url.URL
	Page       int64
	TotalPages int64
	Window     []int64
}

var statusTabs = []models.EventStatus{models.EventUpcoming, models.EventOngoing, models.EventCompleted}

// List renders the public /events page.
func List(data ListData) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Raw(`<div class="page-header"><h1>Events</h1></div><nav class="tabs">`)
		v.Raw(`<a`)
		v.Href("/events")
		v.Attr("class", view.Classes("tab", activeClass(data.Status == "")))
		v.Raw(`>All</a>`)
		for _, status := range statusTabs {
			v.Raw(`<a`)
			v.Href("/events?status=" + string(status))
			v.Attr("class", view.Classes("tab", activeClass(data.Status == string(status))))
			v.Printf(`>%s</a>`, statusLabels[status])
		}
		v.Raw(`</nav>`)
		if len(data.Events) == 0 {
			v.Component(shared.EmptyState("No events to show."))
			return
		}
		v.Raw(`<div class="card-grid">`)
		for _, e := range data.Events {
			v.Component(Card(e))
		}
		v.Raw(`</div>`)
		v.Component(shared.Pagination(data.Base, data.Page, data.TotalPages, data.Window))
	})
}

func activeClass(on bool) string {
	if on {
		return "active"
	}
	return ""
}

func Detail(e models.Event) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Raw(`<article class="event">`)
		v.Component(shared.Image(e.ImageURL, e.Name, "hero-image"))
		v.Printf(`<h1>%s</h1>`, e.Name)
		v.Raw(`<p class="muted">`)
		statusBadge(v, e.Status)
		v.Printf(` %s`, dateRange(e.StartDate, e.EndDate))
		v.Raw(`</p>`)
		if e.Location != "" {
			v.Printf(`<p class="location">%s</p>`, e.Location)
		}
		if e.Sport != nil {
			v.Printf(`<p>Sport: <a href="/sport/%s">%s</a></p>`, e.Sport.Slug, e.Sport.Name)
		}
		if e.Description != "" {
			v.Printf(`<div class="prose"><p>%s</p></div>`, e.Description)
		}
		if len(e.Teams) > 0 {
			v.Raw(`<h2>Teams</h2><ul class="team-list">`)
			for _, t := range e.Teams {
				v.Printf(`<li><a href="/team/%s">%s</a></li>`, t.Slug, t.Name)
			}
			v.Raw(`</ul>`)
		}
		v.Raw(`</article>`)
	})
}

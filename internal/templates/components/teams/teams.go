package teams

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/templates/components/shared"
	"github.com/codr1/Clubhouse/internal/templates/view"
)

type ListRow struct {
	Team        models.Team
	PlayerCount int64
}

type FormData struct {
	ID          int64
	Name        string
	Description string
	ImageURL    string
	Coach       string
	SportID     int64
	Sports      []models.Sport
	Error       string
}

func (d FormData) IsNew() bool { return d.ID == 0 }

func (d FormData) action() string {
	if d.IsNew() {
		return "/admin/teams/new"
	}
	return "/admin/teams/" + strconv.FormatInt(d.ID, 10)
}

type DetailData struct {
	Team    models.Team
	Sport   models.Sport
	Players []models.Player
}

// SportOptions converts sports into select options keyed by id.
func SportOptions(sports []models.Sport) []shared.Option {
	options := make([]shared.Option, 0, len(sports))
	for _, sport := range sports {
		options = append(options, shared.Option{Value: strconv.FormatInt(sport.ID, 10), Label: sport.Name})
	}
	return options
}

func idString(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func AdminList(rows []ListRow, notice string) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Raw(`<div class="page-header"><h1>Teams</h1><a class="btn btn-primary" href="/admin/teams/new">New team</a></div>`)
		if notice != "" {
			v.Printf(`<div class="alert alert-success">%s</div>`, notice)
		}
		if len(rows) == 0 {
			v.Component(shared.EmptyState("No teams yet."))
			return
		}
		v.Raw(`<table class="data-table"><thead><tr><th>Name</th><th>Sport</th><th>Coach</th><th>Players</th><th></th></tr></thead><tbody>`)
		for _, row := range rows {
			t := row.Team
			sportName := ""
			if t.Sport != nil {
				sportName = t.Sport.Name
			}
			v.Printf(`<tr><td><a href="/admin/teams/%d">%s</a></td><td>%s</td><td>%s</td><td>%d</td><td class="actions">`,
				t.ID, t.Name, sportName, t.Coach, row.PlayerCount)
			v.Printf(`<a class="btn btn-small" href="/team/%s">View</a>`, t.Slug)
			v.Component(shared.DeleteButton("/admin/teams/"+strconv.FormatInt(t.ID, 10)+"/delete", t.Name))
			v.Raw(`</td></tr>`)
		}
		v.Raw(`</tbody></table>`)
	})
}

func Form(data FormData) templ.Component {
	return view.Func(func(v *view.Writer) {
		title := "Edit team"
		if data.IsNew() {
			title = "New team"
		}
		v.Printf(`<div class="page-header"><h1>%s</h1><a href="/admin/teams">Back to teams</a></div>`, title)
		v.Component(shared.FormError(data.Error))
		if len(data.Sports) == 0 {
			v.Raw(`<p class="form-hint">Create a sport before adding teams. <a href="/admin/sports/new">New sport</a></p>`)
		}
		v.Printf(`<form method="post" action="%s" class="stack team-form">`, data.action())
		v.Printf(`<label for="name">Name</label><input id="name" type="text" name="name" value="%s" required maxlength="100">`, data.Name)
		v.Component(shared.Select("sportId", "Sport", "Select a sport", SportOptions(data.Sports), idString(data.SportID), "required", "required"))
		v.Printf(`<label for="coach">Coach</label><input id="coach" type="text" name="coach" value="%s">`, data.Coach)
		v.Raw(`<label for="description">Description</label><textarea id="description" name="description" rows="4">`)
		v.Text(data.Description)
		v.Raw(`</textarea>`)
		v.Component(shared.ImageInput("imageUrl", "Image", data.ImageURL))
		v.Raw(`<div class="form-actions"><button type="submit" class="btn btn-primary">Save team</button></div></form>`)
	})
}

// Detail renders the public /team/{slug} roster.
func Detail(data DetailData) templ.Component {
	return view.Func(func(v *view.Writer) {
		t := data.Team
		v.Raw(`<section class="hero">`)
		v.Component(shared.Image(t.ImageURL, t.Name, "hero-image"))
		v.Printf(`<h1>%s</h1>`, t.Name)
		v.Printf(`<p class="muted"><a href="/sport/%s">%s</a>`, data.Sport.Slug, data.Sport.Name)
		if t.Coach != "" {
			v.Printf(` &middot; Coach: %s`, t.Coach)
		}
		v.Raw(`</p>`)
		if t.Description != "" {
			v.Printf(`<p class="lead">%s</p>`, t.Description)
		}
		v.Raw(`</section><section><h2>Roster</h2>`)
		if len(data.Players) == 0 {
			v.Component(shared.EmptyState("No players on this team yet."))
		} else {
			v.Raw(`<div class="card-grid">`)
			for _, p := range data.Players {
				v.Printf(`<a class="card" href="/player/%s">`, p.Slug)
				v.Component(shared.Image(p.ImageURL, p.Name, "card-image"))
				v.Printf(`<h3>%s</h3>`, p.Name)
				if p.Age > 0 {
					v.Printf(`<p class="muted">Age %d</p>`, p.Age)
				}
				v.Raw(`</a>`)
			}
			v.Raw(`</div>`)
		}
		v.Raw(`</section>`)
	})
}

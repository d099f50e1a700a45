package players

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/codr1/Clubhouse/internal/formconfig"
	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/templates/components/formfields"
	"github.com/codr1/Clubhouse/internal/templates/components/shared"
	"github.com/codr1/Clubhouse/internal/templates/view"
)

// FieldsTarget is the element swapped when the sport select changes.
const FieldsTarget = "player-fields"

type FormData struct {
	ID          int64
	Name        string
	Age         string
	Contact     string
	Description string
	ImageURL    string
	TeamID      int64
	SportID     int64
	Teams       []models.Team
	Sports      []models.Sport
	// Config is the selected sport's current field list.
	Config      formconfig.Config
	FieldValues map[string][]string
	FieldErrors map[string]string
	Error       string
}

func (d FormData) IsNew() bool { return d.ID == 0 }

func (d FormData) action() string {
	if d.IsNew() {
		return "/admin/players/new"
	}
	return "/admin/players/" + strconv.FormatInt(d.ID, 10)
}

type ListData struct {
	Players []models.Player
	Teams   []models.Team
	TeamID  int64
	Notice  string
}

func idString(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func teamOptions(teams []models.Team) []shared.Option {
	options := make([]shared.Option, 0, len(teams))
	for _, team := range teams {
		label := team.Name
		if team.Sport != nil {
			label += " (" + team.Sport.Name + ")"
		}
		options = append(options, shared.Option{Value: strconv.FormatInt(team.ID, 10), Label: label})
	}
	return options
}

func sportOptions(sports []models.Sport) []shared.Option {
	options := make([]shared.Option, 0, len(sports))
	for _, sport := range sports {
		options = append(options, shared.Option{Value: strconv.FormatInt(sport.ID, 10), Label: sport.Name})
	}
	return options
}

func AdminList(data ListData) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Raw(`<div class="page-header"><h1>Players</h1><a class="btn btn-primary" href="/admin/players/new">New player</a></div>`)
		if data.Notice != "" {
			v.Printf(`<div class="alert alert-success">%s</div>`, data.Notice)
		}
		v.Raw(`<form method="get" action="/admin/players" class="filters">`)
		v.Component(shared.Select("teamId", "Team", "All teams", teamOptions(data.Teams), idString(data.TeamID)))
		v.Raw(`<button type="submit" class="btn">Filter</button></form>`)

		if len(data.Players) == 0 {
			v.Component(shared.EmptyState("No players found."))
			return
		}
		v.Raw(`<table class="data-table"><thead><tr><th>Name</th><th>Team</th><th>Sport</th><th>Age</th><th>Contact</th><th></th></tr></thead><tbody>`)
		for _, p := range data.Players {
			teamName, sportName := "", ""
			if p.Team != nil {
				teamName = p.Team.Name
			}
			if p.Sport != nil {
				sportName = p.Sport.Name
			}
			v.Printf(`<tr><td><a href="/admin/players/%d">%s</a></td><td>%s</td><td>%s</td><td>%d</td><td>%s</td><td class="actions">`,
				p.ID, p.Name, teamName, sportName, p.Age, p.Contact)
			v.Printf(`<a class="btn btn-small" href="/player/%s">View</a>`, p.Slug)
			v.Component(shared.DeleteButton("/admin/players/"+strconv.FormatInt(p.ID, 10)+"/delete", p.Name))
			v.Raw(`</td></tr>`)
		}
		v.Raw(`</tbody></table>`)
	})
}

// Fields is the fragment returned for /admin/players/fields.
func Fields(cfg formconfig.Config, values map[string][]string, errors map[string]string) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Printf(`<div id="%s" class="player-fields">`, FieldsTarget)
		v.Component(formfields.Fields(cfg, values, errors))
		v.Raw(`</div>`)
	})
}

func Form(data FormData) templ.Component {
	return view.Func(func(v *view.Writer) {
		title := "Edit player"
		if data.IsNew() {
			title = "New player"
		}
		v.Printf(`<div class="page-header"><h1>%s</h1><a href="/admin/players">Back to players</a></div>`, title)
		v.Component(shared.FormError(data.Error))
		v.Printf(`<form method="post" action="%s" class="stack player-form">`, data.action())
		v.Printf(`<label for="name">Name</label><input id="name" type="text" name="name" value="%s" required maxlength="100">`, data.Name)
		v.Printf(`<label for="age">Age</label><input id="age" type="number" name="age" min="0" max="120" value="%s" required>`, data.Age)
		v.Printf(`<label for="contact">Contact</label><input id="contact" type="text" name="contact" value="%s" placeholder="Email or phone number" required>`, data.Contact)
		v.Raw(`<label for="description">Description</label><textarea id="description" name="description" rows="3">`)
		v.Text(data.Description)
		v.Raw(`</textarea>`)
		v.Component(shared.ImageInput("imageUrl", "Photo", data.ImageURL))
		v.Component(shared.Select("teamId", "Team", "Select a team", teamOptions(data.Teams), idString(data.TeamID), "required", "required"))
		v.Component(shared.Select("sportId", "Sport", "Select a sport", sportOptions(data.Sports), idString(data.SportID),
			"required", "required",
			"hx-get", "/admin/players/fields",
			"hx-target", "#"+FieldsTarget,
			"hx-swap", "outerHTML",
			"hx-trigger", "change"))
		v.Raw(`<h2>Additional details</h2>`)
		if data.SportID == 0 {
			v.Printf(`<div id="%s" class="player-fields"><p class="form-hint">Select a sport to see its fields.</p></div>`, FieldsTarget)
		} else {
			v.Component(Fields(data.Config, data.FieldValues, data.FieldErrors))
		}
		v.Raw(`<div class="form-actions"><button type="submit" class="btn btn-primary">Save player</button></div></form>`)
	})
}

type DetailData struct {
	Player models.Player
}

// Detail renders the public profile including the stored additional fields
// in the order they were captured.
func Detail(data DetailData) templ.Component {
	return view.Func(func(v *view.Writer) {
		p := data.Player
		v.Raw(`<article class="profile">`)
		v.Component(shared.Image(p.ImageURL, p.Name, "profile-image"))
		v.Printf(`<h1>%s</h1>`, p.Name)
		v.Raw(`<p class="muted">`)
		if p.Team != nil {
			v.Printf(`<a href="/team/%s">%s</a>`, p.Team.Slug, p.Team.Name)
		}
		if p.Sport != nil {
			v.Printf(` &middot; <a href="/sport/%s">%s</a>`, p.Sport.Slug, p.Sport.Name)
		}
		v.Raw(`</p>`)
		if p.Description != "" {
			v.Printf(`<p class="lead">%s</p>`, p.Description)
		}
		v.Raw(`<dl class="details">`)
		v.Printf(`<dt>Age</dt><dd>%d</dd>`, p.Age)
		if p.Contact != "" {
			v.Printf(`<dt>Contact</dt><dd>%s</dd>`, p.Contact)
		}
		for _, fv := range p.Fields {
			v.Printf(`<dt>%s</dt><dd>%s</dd>`, fv.Label, fv.Value.String())
		}
		v.Raw(`</dl></article>`)
	})
}

package sports

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/templates/components/formbuilder"
	"github.com/codr1/Clubhouse/internal/templates/components/shared"
	"github.com/codr1/Clubhouse/internal/templates/view"
)

type ListRow struct {
	Sport     models.Sport
	TeamCount int64
}

type FormData struct {
	ID          int64
	Name        string
	Description string
	ImageURL    string
	Builder     formbuilder.Data
	Error       string
}

func (d FormData) IsNew() bool { return d.ID == 0 }

func (d FormData) action() string {
	if d.IsNew() {
		return "/admin/sports/new"
	}
	return "/admin/sports/" + strconv.FormatInt(d.ID, 10)
}

type DetailData struct {
	Sport models.Sport
	Teams []models.Team
}

// AdminList renders /admin/sports.
func AdminList(rows []ListRow, notice string) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Raw(`<div class="page-header"><h1>Sports</h1><a class="btn btn-primary" href="/admin/sports/new">New sport</a></div>`)
		if notice != "" {
			v.Printf(`<div class="alert alert-success">%s</div>`, notice)
		}
		if len(rows) == 0 {
			v.Component(shared.EmptyState("No sports yet. Create one to start adding teams."))
			return
		}
		v.Raw(`<table class="data-table"><thead><tr><th>Name</th><th>Slug</th><th>Custom fields</th><th>Teams</th><th></th></tr></thead><tbody>`)
		for _, row := range rows {
			s := row.Sport
			v.Printf(`<tr><td><a href="/admin/sports/%d">%s</a></td><td>%s</td><td>%d</td><td>%d</td><td class="actions">`,
				s.ID, s.Name, s.Slug, len(s.FormConfig), row.TeamCount)
			v.Printf(`<a class="btn btn-small" href="/sport/%s">View</a>`, s.Slug)
			v.Component(shared.DeleteButton("/admin/sports/"+strconv.FormatInt(s.ID, 10)+"/delete", s.Name))
			v.Raw(`</td></tr>`)
		}
		v.Raw(`</tbody></table>`)
	})
}

// Form renders the create and edit page including the field builder.
func Form(data FormData) templ.Component {
	return view.Func(func(v *view.Writer) {
		title := "Edit sport"
		if data.IsNew() {
			title = "New sport"
		}
		v.Printf(`<div class="page-header"><h1>%s</h1><a href="/admin/sports">Back to sports</a></div>`, title)
		v.Component(shared.FormError(data.Error))
		v.Printf(`<form method="post" action="%s" class="stack sport-form">`, data.action())
		v.Printf(`<label for="name">Name</label><input id="name" type="text" name="name" value="%s" required maxlength="100">`, data.Name)
		v.Raw(`<label for="description">Description</label><textarea id="description" name="description" rows="4">`)
		v.Text(data.Description)
		v.Raw(`</textarea>`)
		v.Component(shared.ImageInput("imageUrl", "Image", data.ImageURL))
		v.Component(formbuilder.Builder(data.Builder))
		v.Raw(`<div class="form-actions"><button type="submit" class="btn btn-primary">Save sport</button></div></form>`)
	})
}

// Detail renders the public /sport/{slug} page.
func Detail(data DetailData) templ.Component {
	return view.Func(func(v *view.Writer) {
		s := data.Sport
		v.Raw(`<section class="hero">`)
		v.Component(shared.Image(s.ImageURL, s.Name, "hero-image"))
		v.Printf(`<h1>%s</h1>`, s.Name)
		if s.Description != "" {
			v.Printf(`<p class="lead">%s</p>`, s.Description)
		}
		v.Raw(`</section><section><h2>Teams</h2>`)
		if len(data.Teams) == 0 {
			v.Component(shared.EmptyState("No teams have been added for this sport yet."))
		} else {
			v.Raw(`<div class="card-grid">`)
			for _, team := range data.Teams {
				v.Printf(`<a class="card" href="/team/%s">`, team.Slug)
				v.Component(shared.Image(team.ImageURL, team.Name, "card-image"))
				v.Printf(`<h3>%s</h3>`, team.Name)
				if team.Coach != "" {
					v.Printf(`<p class="muted">Coach: %s</p>`, team.Coach)
				}
				v.Raw(`</a>`)
			}
			v.Raw(`</div>`)
		}
		v.Raw(`</section>`)
	})
}

package dashboard

import (
	"github.com/a-h/templ"

	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/templates/view"
)

type Counts struct {
	Sports         int64
	Teams          int64
	Players        int64
	Events         int64
	UpcomingEvents int64
	PublishedBlogs int64
	DraftBlogs     int64
}

type Data struct {
	Counts   Counts
	Upcoming []models.Event
}

type tile struct {
	label string
	value int64
	href  string
}

func Page(data Data) templ.Component {
	return view.Func(func(v *view.Writer) {
		c := data.Counts
		tiles := []tile{
			{"Sports", c.Sports, "/admin/sports"},
			{"Teams", c.Teams, "/admin/teams"},
			{"Players", c.Players, "/admin/players"},
			{"Events", c.Events, "/admin/events"},
			{"Upcoming events", c.UpcomingEvents, "/events?status=upcoming"},
			{"Published posts", c.PublishedBlogs, "/admin/blogs?status=published"},
			{"Draft posts", c.DraftBlogs, "/admin/blogs?status=draft"},
		}
		v.Raw(`<div class="page-header"><h1>Dashboard</h1></div><div class="stat-grid">`)
		for _, t := range tiles {
			v.Printf(`<a class="stat-tile" href="%s"><span class="stat-value">%d</span><span class="stat-label">%s</span></a>`, t.href, t.value, t.label)
		}
		v.Raw(`</div>`)

		v.Raw(`<section><h2>Next up</h2>`)
		if len(data.Upcoming) == 0 {
			v.Raw(`<p class="muted">Nothing scheduled.</p></section>`)
			return
		}
		v.Raw(`<ul class="plain-list">`)
		for _, e := range data.Upcoming {
			v.Printf(`<li><a href="/admin/events/%d">%s</a> <span class="muted">%s</span></li>`, e.ID, e.Name, e.StartDate.Format("Mon Jan 2, 3:04 PM"))
		}
		v.Raw(`</ul></section>`)
	})
}

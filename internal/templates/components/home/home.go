package home

import (
	"github.com/a-h/templ"

	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/templates/components/blogs"
	"github.com/codr1/Clubhouse/internal/templates/components/events"
	"github.com/codr1/Clubhouse/internal/templates/components/shared"
	"github.com/codr1/Clubhouse/internal/templates/view"
)

type Data struct {
	ClubName string
	About    string
	Events   []models.Event
	Blogs    []models.Blog
}

func Page(data Data) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Printf(`<section class="hero"><h1>Welcome to <span class="accent">%s</span></h1>`, data.ClubName)
		if data.About != "" {
			v.Printf(`<p class="lead">%s</p>`, data.About)
		}
		v.Raw(`<div class="hero-actions"><a class="btn btn-primary" href="/contact">Become a Member</a><a class="btn" href="/events">Upcoming Events</a></div></section>`)

		v.Raw(`<section class="home-section"><div class="section-header"><h2>Upcoming Events</h2><a href="/events?status=upcoming">View all events</a></div>`)
		if len(data.Events) == 0 {
			v.Component(shared.EmptyState("No upcoming events scheduled. Check back soon!"))
		} else {
			v.Raw(`<div class="card-grid">`)
			for _, e := range data.Events {
				v.Component(events.Card(e))
			}
			v.Raw(`</div>`)
		}
		v.Raw(`</section>`)

		v.Raw(`<section class="home-section"><div class="section-header"><h2>Latest News</h2><a href="/blogs">View all posts</a></div>`)
		if len(data.Blogs) == 0 {
			v.Component(shared.EmptyState("No blogs published yet. Check back soon for new content!"))
		} else {
			v.Raw(`<div class="card-grid">`)
			for _, b := range data.Blogs {
				v.Component(blogs.Card(b))
			}
			v.Raw(`</div>`)
		}
		v.Raw(`</section>`)
	})
}

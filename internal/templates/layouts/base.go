package layouts

import (
	"github.com/a-h/templ"

	"github.com/codr1/Clubhouse/internal/templates/view"
)

// Page describes the chrome around a page body.
type Page struct {
	Title       string
	Description string
	// Section highlights the matching navigation link.
	Section string
	// UserName is set when an admin session is active.
	UserName string
	SiteName string
}

type navLink struct {
	section string
	label   string
	href    string
}

var publicNav = []navLink{
	{"home", "Home", "/"},
	{"events", "Events", "/events"},
	{"blogs", "News", "/blogs"},
	{"contact", "Contact", "/contact"},
}

var adminNav = []navLink{
	{"dashboard", "Dashboard", "/admin/dashboard"},
	{"sports", "Sports", "/admin/sports"},
	{"teams", "Teams", "/admin/teams"},
	{"players", "Players", "/admin/players"},
	{"events", "Events", "/admin/events"},
	{"blogs", "Blogs", "/admin/blogs"},
}

func (p Page) siteName() string {
	if p.SiteName != "" {
		return p.SiteName
	}
	return "Clubhouse"
}

func (p Page) fullTitle() string {
	if p.Title == "" {
		return p.siteName()
	}
	return p.Title + " | " + p.siteName()
}

func head(v *view.Writer, p Page) {
	v.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
	v.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	v.Printf(`<title>%s</title>`, p.fullTitle())
	if p.Description != "" {
		v.Printf(`<meta name="description" content="%s">`, p.Description)
	}
	v.Raw(`<link rel="stylesheet" href="/static/css/main.css">`)
	v.Raw(`<script src="/static/js/htmx.min.js" defer></script>`)
	v.Printf(`<style>%s</style>`, getThemeCssVars(currentTheme()))
	v.Raw(`</head>`)
}

func nav(v *view.Writer, links []navLink, active string) {
	v.Raw(`<ul class="nav-links">`)
	for _, link := range links {
		v.Raw(`<li><a`)
		v.Href(link.href)
		if link.section == active {
			v.Raw(` class="active" aria-current="page"`)
		}
		v.Printf(`>%s</a></li>`, link.label)
	}
	v.Raw(`</ul>`)
}

// Base wraps a public page.
func Base(p Page, body templ.Component) templ.Component {
	return view.Func(func(v *view.Writer) {
		head(v, p)
		v.Raw(`<body class="public"><header class="site-header"><nav>`)
		v.Printf(`<a class="brand" href="/">%s</a>`, p.siteName())
		nav(v, publicNav, p.Section)
		v.Raw(`</nav></header><main id="main-content">`)
		v.Component(body)
		v.Raw(`</main><footer class="site-footer">`)
		v.Printf(`<p>%s</p>`, p.siteName())
		v.Raw(`</footer></body></html>`)
	})
}

// Admin wraps a back-office page.
func Admin(p Page, body templ.Component) templ.Component {
	return view.Func(func(v *view.Writer) {
		head(v, p)
		v.Raw(`<body class="admin"><aside class="admin-sidebar">`)
		v.Printf(`<a class="brand" href="/admin/dashboard">%s Admin</a>`, p.siteName())
		nav(v, adminNav, p.Section)
		if p.UserName != "" {
			v.Printf(`<div class="admin-user"><span>%s</span>`, p.UserName)
			v.Raw(`<form method="post" action="/api/auth/logout"><button type="submit">Log out</button></form></div>`)
		}
		v.Raw(`</aside><main id="main-content" class="admin-main">`)
		v.Component(body)
		v.Raw(`</main></body></html>`)
	})
}

// Alert renders a dismissible notice. Kind is one of success, error or info.
func Alert(kind, message string) templ.Component {
	return view.Func(func(v *view.Writer) {
		if message == "" {
			return
		}
		v.Printf(`<div class="alert alert-%s" role="alert">%s</div>`, kind, message)
	})
}

// Package shared holds small components reused across admin and public pages.
package shared

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/codr1/Clubhouse/internal/templates/view"
)

// ImageInput renders an image URL field with an htmx upload control that
// replaces the whole block once the file is stored.
func ImageInput(name, label, current string) templ.Component {
	return view.Func(func(v *view.Writer) {
		id := "image-" + name
		v.Printf(`<div class="image-input" id="%s">`, id)
		v.Printf(`<label for="%s-url">%s</label>`, id, label)
		v.Printf(`<input type="text" id="%s-url" name="%s" value="%s" placeholder="/uploads/...">`, id, name, current)
		if current != "" {
			v.Raw(`<img class="image-preview" alt="" src="`)
			v.Text(string(templ.URL(current)))
			v.Raw(`">`)
		}
		v.Printf(`<input type="file" name="file" accept="image/jpeg,image/png,image/gif" hx-post="/api/upload" hx-encoding="multipart/form-data" hx-target="#%s" hx-swap="outerHTML" hx-vals='{"field": "%s", "label": "%s"}'>`,
			id, name, label)
		v.Raw(`</div>`)
	})
}

// Pagination renders windowed page links. base must not carry a page param.
func Pagination(base url.URL, current, totalPages int64, window []int64) templ.Component {
	return view.Func(func(v *view.Writer) {
		if totalPages <= 1 {
			return
		}
		link := func(page int64) string {
			u := base
			q := u.Query()
			q.Set("page", strconv.FormatInt(page, 10))
			u.RawQuery = q.Encode()
			return u.String()
		}

		v.Raw(`<nav class="pagination" aria-label="Pagination">`)
		if current > 1 {
			v.Raw(`<a rel="prev"`)
			v.Href(link(current - 1))
			v.Raw(`>Previous</a>`)
		}
		for _, page := range window {
			if page == current {
				v.Printf(`<span class="current" aria-current="page">%d</span>`, page)
				continue
			}
			v.Raw(`<a`)
			v.Href(link(page))
			v.Printf(`>%d</a>`, page)
		}
		if current < totalPages {
			v.Raw(`<a rel="next"`)
			v.Href(link(current + 1))
			v.Raw(`>Next</a>`)
		}
		v.Raw(`</nav>`)
	})
}

// DeleteButton posts to action after a confirmation prompt. With htmx the
// handler answers with HX-Redirect; without it the form posts normally.
func DeleteButton(action, what string) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Printf(`<form method="post" action="%s" hx-post="%s" hx-confirm="%s" class="inline">`,
			action, action, fmt.Sprintf("Delete %s? This cannot be undone.", what))
		v.Raw(`<button type="submit" class="btn btn-danger btn-small">Delete</button></form>`)
	})
}

func EmptyState(message string) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Printf(`<p class="empty-state">%s</p>`, message)
	})
}

// FormError renders the top-of-form error banner.
func FormError(message string) templ.Component {
	return view.Func(func(v *view.Writer) {
		if message == "" {
			return
		}
		v.Printf(`<div class="alert alert-error" role="alert">%s</div>`, message)
	})
}

// Image renders an img tag, or nothing when src is empty.
func Image(src, alt, class string) templ.Component {
	return view.Func(func(v *view.Writer) {
		if src == "" {
			return
		}
		v.Printf(`<img class="%s" alt="%s" src="%s" loading="lazy">`, class, alt, templ.URL(src))
	})
}

func NotFound(message string) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Printf(`<section class="not-found"><h1>Not found</h1><p>%s</p><a href="/">Back to the home page</a></section>`, message)
	})
}

// Option is one entry of a Select.
type Option struct {
	Value string
	Label string
}

// Select renders a labelled dropdown. An empty placeholder omits the blank
// first entry.
func Select(name, label, placeholder string, options []Option, selected string, attrs ...string) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Printf(`<label for="%s">%s</label><select id="%s" name="%s"`, name, label, name, name)
		for i := 0; i+1 < len(attrs); i += 2 {
			v.Attr(attrs[i], attrs[i+1])
		}
		v.Raw(`>`)
		if placeholder != "" {
			v.Printf(`<option value="">%s</option>`, placeholder)
		}
		for _, opt := range options {
			v.Printf(`<option value="%s"`, opt.Value)
			v.BoolAttr("selected", opt.Value == selected)
			v.Printf(`>%s</option>`, opt.Label)
		}
		v.Raw(`</select>`)
	})
}

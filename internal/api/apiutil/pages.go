package apiutil

import (
	"net/http"
	"sync/atomic"

	"github.com/a-h/templ"

	"github.com/codr1/Clubhouse/internal/api/authz"
	"github.com/codr1/Clubhouse/internal/templates/components/shared"
	"github.com/codr1/Clubhouse/internal/templates/layouts"
)

var siteName atomic.Value

// SetSiteName sets the club name shown in page titles and headers.
func SetSiteName(name string) {
	siteName.Store(name)
}

func currentSiteName() string {
	name, _ := siteName.Load().(string)
	return name
}

// PublicPage wraps body in the public layout.
func PublicPage(r *http.Request, title, section, description string, body templ.Component) templ.Component {
	return layouts.Base(layouts.Page{
		Title:       title,
		Description: description,
		Section:     section,
		SiteName:    currentSiteName(),
	}, body)
}

// AdminPage wraps body in the back-office layout with the signed-in user.
func AdminPage(r *http.Request, title, section string, body templ.Component) templ.Component {
	return layouts.Admin(layouts.Page{
		Title:    title,
		Section:  section,
		SiteName: currentSiteName(),
		UserName: authz.UserFromContext(r.Context()).DisplayName(),
	}, body)
}

// RenderPage renders a full page with status 200.
func RenderPage(w http.ResponseWriter, r *http.Request, page templ.Component, logMsg string) {
	RenderHTMLComponent(r.Context(), w, page, nil, logMsg, "Failed to render page")
}

// RenderNotFound renders the public 404 page.
func RenderNotFound(w http.ResponseWriter, r *http.Request, message string) {
	page := PublicPage(r, "Not found", "", "", shared.NotFound(message))
	RenderHTMLComponentStatus(r.Context(), w, http.StatusNotFound, page, "Failed to render not found page")
}

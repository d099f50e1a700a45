// internal/api/home/handlers.go
package home

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	"github.com/codr1/Clubhouse/internal/api/blogs"
	"github.com/codr1/Clubhouse/internal/api/events"
	hometempl "github.com/codr1/Clubhouse/internal/templates/components/home"
)

const (
	homeQueryTimeout = 5 * time.Second
	eventsOnHome     = 4
	blogsOnHome      = 3
)

var (
	clubName  string
	about     string
	aboutOnce sync.Once
)

// InitHandlers sets the club name and introduction shown on the home page.
func InitHandlers(name, intro string) {
	aboutOnce.Do(func() {
		clubName = name
		about = intro
	})
}

// GET /
//
// The pattern "/" also catches unknown paths, which get the 404 page.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		apiutil.RenderNotFound(w, r, "We couldn't find that page.")
		return
	}
	logger := log.Ctx(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), homeQueryTimeout)
	defer cancel()

	data := hometempl.Data{ClubName: clubName, About: about}
	if data.ClubName == "" {
		data.ClubName = "Clubhouse"
	}

	var err error
	if data.Events, err = events.Upcoming(ctx, eventsOnHome); err != nil {
		logger.Error().Err(err).Msg("Failed to load upcoming events for home page")
	}
	if data.Blogs, err = blogs.Recent(ctx, blogsOnHome); err != nil {
		logger.Error().Err(err).Msg("Failed to load recent blogs for home page")
	}

	page := apiutil.PublicPage(r, "", "home", about, hometempl.Page(data))
	apiutil.RenderPage(w, r, page, "Failed to render home page")
}

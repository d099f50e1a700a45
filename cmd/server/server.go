// cmd/server/server.go
package main

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Clubhouse/internal/api"
	"github.com/codr1/Clubhouse/internal/api/apiutil"
	"github.com/codr1/Clubhouse/internal/api/auth"
	"github.com/codr1/Clubhouse/internal/api/blogs"
	"github.com/codr1/Clubhouse/internal/api/contact"
	"github.com/codr1/Clubhouse/internal/api/dashboard"
	"github.com/codr1/Clubhouse/internal/api/events"
	"github.com/codr1/Clubhouse/internal/api/home"
	"github.com/codr1/Clubhouse/internal/api/players"
	"github.com/codr1/Clubhouse/internal/api/sports"
	"github.com/codr1/Clubhouse/internal/api/teams"
	"github.com/codr1/Clubhouse/internal/api/upload"
	"github.com/codr1/Clubhouse/internal/config"
	"github.com/codr1/Clubhouse/internal/db"
	"github.com/codr1/Clubhouse/internal/email"
	"github.com/codr1/Clubhouse/internal/ratelimit"
	"github.com/codr1/Clubhouse/internal/templates/layouts"
	"github.com/codr1/Clubhouse/internal/uploads"
)

type serverDeps struct {
	database *db.DB
	store    *uploads.Store
	sender   email.EmailSender
	limiter  *ratelimit.Limiter
}

func newServer(cfg *config.Config, deps serverDeps) *http.Server {
	apiutil.SetSiteName(cfg.App.Name)
	layouts.SetTheme(layouts.Theme{
		PrimaryColor:   cfg.Theme.PrimaryColor,
		SecondaryColor: cfg.Theme.SecondaryColor,
		AccentColor:    cfg.Theme.AccentColor,
	})

	initHandlers(cfg, deps)

	router := http.NewServeMux()
	registerRoutes(router, cfg)

	// Setup middleware chain; the last entry runs first.
	handler := api.ChainMiddleware(
		router,
		api.WithAuth,
		api.WithLogging,
		api.WithRecovery,
		api.WithCORS(cfg.CORS.AllowedOrigins),
		api.WithRequestID,
		api.WithContentType,
	)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func initHandlers(cfg *config.Config, deps serverDeps) {
	q := deps.database.Queries

	sports.InitHandlers(q)
	teams.InitHandlers(q)
	players.InitHandlers(q, cfg.Players.DefaultPhoneRegion)
	events.InitHandlers(deps.database, cfg.Location())
	blogs.InitHandlers(q)
	upload.InitHandlers(deps.store)
	contact.InitHandlers(cfg, deps.sender, deps.limiter)
	auth.InitHandlers(q, cfg, deps.limiter)
	dashboard.InitHandlers(q)
	home.InitHandlers(cfg.App.Name, cfg.Club.About)
}

func registerRoutes(mux *http.ServeMux, cfg *config.Config) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Public pages
	mux.HandleFunc("GET /{$}", home.HandleHome)
	mux.HandleFunc("GET /events", events.HandlePublicListPage)
	mux.HandleFunc("GET /event/{slug}", events.HandleDetailPage)
	mux.HandleFunc("GET /blogs", blogs.HandlePublicListPage)
	mux.HandleFunc("GET /blogs/tag/{tag}", blogs.HandleTagPage)
	mux.HandleFunc("GET /blog/{slug}", blogs.HandleDetailPage)
	mux.HandleFunc("GET /sport/{slug}", sports.HandleDetailPage)
	mux.HandleFunc("GET /team/{slug}", teams.HandleDetailPage)
	mux.HandleFunc("GET /player/{id}", players.HandleDetailPage)
	mux.HandleFunc("GET /contact", contact.HandleContactPage)
	mux.HandleFunc("GET /login", auth.HandleLoginPage)
	mux.HandleFunc("GET /register", auth.HandleRegisterPage)

	// Public API
	mux.HandleFunc("GET /api/events", events.HandlePublicList)
	mux.HandleFunc("POST /api/contact", contact.HandleSubmit)
	mux.HandleFunc("POST /api/auth/login", auth.HandleLogin)
	mux.HandleFunc("POST /api/auth/register", auth.HandleRegister)
	mux.HandleFunc("POST /api/auth/logout", auth.HandleLogout)
	mux.HandleFunc("GET /api/auth/session", auth.HandleSession)

	// Back office
	admin := http.NewServeMux()
	registerAdminRoutes(admin)
	guarded := api.WithAdminAuth(cfg.Features.RequireAdminAuth)(admin)
	mux.Handle("/admin/", guarded)
	mux.Handle("/api/admin/", guarded)
	mux.Handle("POST /api/upload", guarded)
	mux.HandleFunc("GET /admin", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
	})

	// Uploaded images
	uploadPrefix := strings.TrimSuffix(cfg.Uploads.PublicPrefix, "/") + "/"
	mux.Handle("GET "+uploadPrefix, http.StripPrefix(uploadPrefix, http.FileServer(http.Dir(cfg.Uploads.Dir))))

	// Static file handling
	staticDir := cfg.App.StaticDir
	if staticDir == "" {
		staticDir = "static"
	}
	fs := http.FileServer(http.Dir(staticDir))
	mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug().
			Str("path", r.URL.Path).
			Str("static_dir", staticDir).
			Msg("Static file request")
		http.StripPrefix("/static/", fs).ServeHTTP(w, r)
	}))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		apiutil.RenderNotFound(w, r, "Page not found")
	})
}

func registerAdminRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/dashboard", dashboard.HandleDashboardPage)

	mux.HandleFunc("GET /api/admin/sports", sports.HandleList)
	mux.HandleFunc("POST /api/admin/sports", sports.HandleCreate)
	mux.HandleFunc("PUT /api/admin/sports", sports.HandleUpdate)
	mux.HandleFunc("DELETE /api/admin/sports", sports.HandleDelete)
	mux.HandleFunc("GET /admin/sports", sports.HandleAdminList)
	mux.HandleFunc("POST /admin/sports/builder", sports.HandleBuilderAction)
	mux.HandleFunc("GET /admin/sports/new", sports.HandleFormPage)
	mux.HandleFunc("POST /admin/sports/new", sports.HandleFormSubmit)
	mux.HandleFunc("GET /admin/sports/{id}", sports.HandleFormPage)
	mux.HandleFunc("POST /admin/sports/{id}", sports.HandleFormSubmit)
	mux.HandleFunc("POST /admin/sports/{id}/delete", sports.HandleDeleteSubmit)

	mux.HandleFunc("GET /api/admin/teams", teams.HandleList)
	mux.HandleFunc("POST /api/admin/teams", teams.HandleCreate)
	mux.HandleFunc("PUT /api/admin/teams", teams.HandleUpdate)
	mux.HandleFunc("DELETE /api/admin/teams", teams.HandleDelete)
	mux.HandleFunc("GET /admin/teams", teams.HandleAdminList)
	mux.HandleFunc("GET /admin/teams/new", teams.HandleFormPage)
	mux.HandleFunc("POST /admin/teams/new", teams.HandleFormSubmit)
	mux.HandleFunc("GET /admin/teams/{id}", teams.HandleFormPage)
	mux.HandleFunc("POST /admin/teams/{id}", teams.HandleFormSubmit)
	mux.HandleFunc("POST /admin/teams/{id}/delete", teams.HandleDeleteSubmit)

	mux.HandleFunc("GET /api/admin/players", players.HandleList)
	mux.HandleFunc("POST /api/admin/players", players.HandleCreate)
	mux.HandleFunc("PUT /api/admin/players", players.HandleUpdate)
	mux.HandleFunc("DELETE /api/admin/players", players.HandleDelete)
	mux.HandleFunc("GET /admin/players", players.HandleAdminList)
	mux.HandleFunc("GET /admin/players/fields", players.HandleFieldsFragment)
	mux.HandleFunc("GET /admin/players/new", players.HandleFormPage)
	mux.HandleFunc("POST /admin/players/new", players.HandleFormSubmit)
	mux.HandleFunc("GET /admin/players/{id}", players.HandleFormPage)
	mux.HandleFunc("POST /admin/players/{id}", players.HandleFormSubmit)
	mux.HandleFunc("POST /admin/players/{id}/delete", players.HandleDeleteSubmit)

	mux.HandleFunc("GET /api/admin/events", events.HandleList)
	mux.HandleFunc("POST /api/admin/events", events.HandleCreate)
	mux.HandleFunc("PUT /api/admin/events", events.HandleUpdate)
	mux.HandleFunc("DELETE /api/admin/events", events.HandleDelete)
	mux.HandleFunc("GET /admin/events", events.HandleAdminList)
	mux.HandleFunc("GET /admin/events/new", events.HandleFormPage)
	mux.HandleFunc("POST /admin/events/new", events.HandleFormSubmit)
	mux.HandleFunc("GET /admin/events/{id}", events.HandleFormPage)
	mux.HandleFunc("POST /admin/events/{id}", events.HandleFormSubmit)
	mux.HandleFunc("POST /admin/events/{id}/delete", events.HandleDeleteSubmit)

	mux.HandleFunc("GET /api/admin/blogs", blogs.HandleList)
	mux.HandleFunc("POST /api/admin/blogs", blogs.HandleCreate)
	mux.HandleFunc("PUT /api/admin/blogs", blogs.HandleUpdate)
	mux.HandleFunc("DELETE /api/admin/blogs", blogs.HandleDelete)
	mux.HandleFunc("GET /admin/blogs", blogs.HandleAdminList)
	mux.HandleFunc("GET /admin/blogs/new", blogs.HandleFormPage)
	mux.HandleFunc("POST /admin/blogs/new", blogs.HandleFormSubmit)
	mux.HandleFunc("GET /admin/blogs/{id}", blogs.HandleFormPage)
	mux.HandleFunc("POST /admin/blogs/{id}", blogs.HandleFormSubmit)
	mux.HandleFunc("POST /admin/blogs/{id}/delete", blogs.HandleDeleteSubmit)

	mux.HandleFunc("POST /api/upload", upload.HandleUpload)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			apiutil.WriteError(w, http.StatusNotFound, "not found")
			return
		}
		apiutil.RenderNotFound(w, r, "Page not found")
	})
}

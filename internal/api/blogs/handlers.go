// internal/api/blogs/handlers.go
package blogs

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/models"
)

const (
	blogQueryTimeout = 5 * time.Second
	defaultPageLimit = 10
	maxPageLimit     = 100
)

var (
	queries     blogQueries
	queriesOnce sync.Once
)

// Image is accepted as an alias of img.
type blogRequest struct {
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	Img     *string  `json:"img"`
	Image   *string  `json:"image"`
	Tags    *tagList `json:"tags"`
	Status  *string  `json:"status"`
}

func (r blogRequest) img() *string {
	if r.Img != nil && strings.TrimSpace(*r.Img) != "" {
		return r.Img
	}
	if r.Image != nil {
		return r.Image
	}
	return r.Img
}

func (r blogRequest) tags() *[]string {
	if r.Tags == nil {
		return nil
	}
	tags := []string(*r.Tags)
	return &tags
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(q *dbgen.Queries) {
	if q == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = q
	})
}

func loadQueries() blogQueries {
	return queries
}

// GET /api/admin/blogs
//
// With id the single post is returned. Otherwise the list is filtered by
// status, tag and q; page or limit switch to a paginated response.
func HandleList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "database not initialized")
		return
	}

	id, err := apiutil.OptionalIDQuery(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), blogQueryTimeout)
	defer cancel()

	if id != nil {
		blog, err := loadBlog(ctx, q, *id)
		if err != nil {
			apiutil.WriteHandlerError(w, r, err, "Failed to load blog")
			return
		}
		_ = apiutil.WriteJSON(w, http.StatusOK, blog)
		return
	}

	query := r.URL.Query()
	filter := blogFilter{
		Status: strings.TrimSpace(query.Get("status")),
		Tag:    query.Get("tag"),
		Search: query.Get("q"),
	}
	if filter.Status != "" && !models.BlogStatus(filter.Status).Valid() {
		apiutil.WriteError(w, http.StatusBadRequest, "status must be draft or published")
		return
	}

	if query.Get("page") == "" && query.Get("limit") == "" {
		list, err := listBlogs(ctx, q, filter)
		if err != nil {
			apiutil.WriteHandlerError(w, r, err, "Failed to list blogs")
			return
		}
		_ = apiutil.WriteJSON(w, http.StatusOK, list)
		return
	}

	list, page, err := pageBlogs(ctx, q, filter, apiutil.ParsePage(r, defaultPageLimit, maxPageLimit))
	if err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to list blogs")
		return
	}
	apiutil.WritePageHeaders(w, page)
	_ = apiutil.WriteJSON(w, http.StatusOK, list)
}

// POST /api/admin/blogs
func HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "database not initialized")
		return
	}

	var req blogRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	in := blogInput{
		Title:   deref(req.Title),
		Content: deref(req.Content),
		Img:     deref(req.img()),
		Status:  deref(req.Status),
	}
	if tags := req.tags(); tags != nil {
		in.Tags = *tags
	}

	ctx, cancel := context.WithTimeout(r.Context(), blogQueryTimeout)
	defer cancel()

	blog, err := createBlog(ctx, q, in)
	if err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to create blog")
		return
	}

	logger.Info().Int64("blog_id", blog.ID).Str("status", string(blog.Status)).Msg("Blog created")
	_ = apiutil.WriteJSON(w, http.StatusCreated, blog)
}

// PUT /api/admin/blogs?id=
func HandleUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "database not initialized")
		return
	}

	id, err := apiutil.OptionalIDQuery(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if id == nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Blog ID is required")
		return
	}

	var req blogRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), blogQueryTimeout)
	defer cancel()

	blog, err := updateBlog(ctx, q, *id, blogPatch{
		Title:   req.Title,
		Content: req.Content,
		Img:     req.img(),
		Tags:    req.tags(),
		Status:  req.Status,
	})
	if err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to update blog")
		return
	}

	logger.Info().Int64("blog_id", blog.ID).Msg("Blog updated")
	_ = apiutil.WriteJSON(w, http.StatusOK, blog)
}

// DELETE /api/admin/blogs?id=
func HandleDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries()
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		apiutil.WriteError(w, http.StatusInternalServerError, "database not initialized")
		return
	}

	id, err := apiutil.OptionalIDQuery(r, "id")
	if err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if id == nil {
		apiutil.WriteError(w, http.StatusBadRequest, "Blog ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), blogQueryTimeout)
	defer cancel()

	if err := deleteBlog(ctx, q, *id); err != nil {
		apiutil.WriteHandlerError(w, r, err, "Failed to delete blog")
		return
	}

	logger.Info().Int64("blog_id", *id).Msg("Blog deleted")
	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

package blogs

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	"github.com/codr1/Clubhouse/internal/api/htmx"
	"github.com/codr1/Clubhouse/internal/models"
	blogstempl "github.com/codr1/Clubhouse/internal/templates/components/blogs"
)

const (
	publicPageLimit  = 9
	paginationWindow = 5
)

var listNotices = map[string]string{
	"created": "Post created.",
	"saved":   "Post saved.",
	"deleted": "Post deleted.",
}

// Recent returns the newest published posts.
func Recent(ctx context.Context, limit int64) ([]models.Blog, error) {
	q := loadQueries()
	if q == nil {
		return nil, errors.New("blogs not initialized")
	}
	list, _, err := pageBlogs(ctx, q, blogFilter{Status: string(models.BlogPublished)}, apiutil.Page{Number: 1, Limit: limit})
	return list, err
}

// GET /admin/blogs
func HandleAdminList(w http.ResponseWriter, r *http.Request) {
	q := loadQueries()
	if q == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	status := r.URL.Query().Get("status")
	if !models.BlogStatus(status).Valid() {
		status = ""
	}

	ctx, cancel := context.WithTimeout(r.Context(), blogQueryTimeout)
	defer cancel()

	list, err := listBlogs(ctx, q, blogFilter{Status: status})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to list blogs")
		http.Error(w, "Failed to load blogs", http.StatusInternalServerError)
		return
	}
	body := blogstempl.AdminList(blogstempl.AdminListData{
		Blogs:  list,
		Status: status,
		Notice: listNotices[r.URL.Query().Get("notice")],
	})
	apiutil.RenderPage(w, r, apiutil.AdminPage(r, "Blog posts", "blogs", body), "Failed to render blog list")
}

// GET /admin/blogs/new and /admin/blogs/{id}
func HandleFormPage(w http.ResponseWriter, r *http.Request) {
	q := loadQueries()
	if q == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	data := blogstempl.FormData{}
	if raw := r.PathValue("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "Invalid blog ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), blogQueryTimeout)
		defer cancel()

		blog, err := loadBlog(ctx, q, id)
		if err != nil {
			if errors.Is(err, errBlogNotFound) {
				http.Error(w, "Blog not found", http.StatusNotFound)
				return
			}
			log.Ctx(r.Context()).Error().Err(err).Int64("blog_id", id).Msg("Failed to load blog")
			http.Error(w, "Failed to load blog", http.StatusInternalServerError)
			return
		}
		data = blogstempl.FormData{
			ID:      blog.ID,
			Title:   blog.Title,
			Content: blog.Content,
			Img:     blog.Img,
			Tags:    strings.Join(blog.Tags, ", "),
			Status:  string(blog.Status),
		}
	}
	renderForm(w, r, http.StatusOK, data)
}

// POST /admin/blogs/new and /admin/blogs/{id}
func HandleFormSubmit(w http.ResponseWriter, r *http.Request) {
	q := loadQueries()
	if q == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	var id int64
	if raw := r.PathValue("id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid blog ID", http.StatusBadRequest)
			return
		}
		id = parsed
	}

	form := r.PostForm
	data := blogstempl.FormData{
		ID:      id,
		Title:   form.Get("title"),
		Content: form.Get("content"),
		Img:     form.Get("img"),
		Tags:    form.Get("tags"),
		Status:  form.Get("status"),
	}
	in := blogInput{
		Title:   data.Title,
		Content: data.Content,
		Img:     data.Img,
		Tags:    splitTags(data.Tags),
		Status:  data.Status,
	}

	ctx, cancel := context.WithTimeout(r.Context(), blogQueryTimeout)
	defer cancel()

	var err error
	notice := "created"
	if id == 0 {
		_, err = createBlog(ctx, q, in)
	} else {
		_, err = updateBlog(ctx, q, id, blogPatch{
			Title:   &in.Title,
			Content: &in.Content,
			Img:     &in.Img,
			Tags:    &in.Tags,
			Status:  &in.Status,
		})
		notice = "saved"
	}
	if err != nil {
		msg, ok := apiutil.ClientErrorMessage(err)
		if !ok {
			log.Ctx(r.Context()).Error().Err(err).Int64("blog_id", id).Msg("Failed to save blog")
			http.Error(w, "Failed to save blog", http.StatusInternalServerError)
			return
		}
		data.Error = msg
		renderForm(w, r, apiutil.ErrorStatus(err), data)
		return
	}

	http.Redirect(w, r, "/admin/blogs?notice="+notice, http.StatusSeeOther)
}

// POST /admin/blogs/{id}/delete
func HandleDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	q := loadQueries()
	if q == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid blog ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), blogQueryTimeout)
	defer cancel()

	if err := deleteBlog(ctx, q, id); err != nil {
		if msg, ok := apiutil.ClientErrorMessage(err); ok {
			http.Error(w, msg, apiutil.ErrorStatus(err))
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Int64("blog_id", id).Msg("Failed to delete blog")
		http.Error(w, "Failed to delete blog", http.StatusInternalServerError)
		return
	}

	target := "/admin/blogs?notice=deleted"
	if htmx.IsRequest(r) {
		htmx.Redirect(w, target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// GET /blogs
func HandlePublicListPage(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	base := url.URL{Path: "/blogs"}
	if query != "" {
		base.RawQuery = url.Values{"q": {query}}.Encode()
	}
	renderPublicList(w, r, blogFilter{Status: string(models.BlogPublished), Search: query}, base, "Blogs")
}

// GET /blogs/tag/{tag}
func HandleTagPage(w http.ResponseWriter, r *http.Request) {
	tag := strings.TrimSpace(r.PathValue("tag"))
	if tag == "" {
		http.Redirect(w, r, "/blogs", http.StatusSeeOther)
		return
	}
	base := url.URL{Path: "/blogs/tag/" + url.PathEscape(tag)}
	renderPublicList(w, r, blogFilter{Status: string(models.BlogPublished), Tag: tag}, base, "Posts tagged "+tag)
}

func renderPublicList(w http.ResponseWriter, r *http.Request, filter blogFilter, base url.URL, title string) {
	q := loadQueries()
	if q == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), blogQueryTimeout)
	defer cancel()

	list, page, err := pageBlogs(ctx, q, filter, apiutil.ParsePage(r, publicPageLimit, publicPageLimit))
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to list blogs")
		http.Error(w, "Failed to load blogs", http.StatusInternalServerError)
		return
	}

	body := blogstempl.List(blogstempl.ListData{
		Blogs:      list,
		Query:      filter.Search,
		Tag:        filter.Tag,
		Base:       base,
		Page:       page.Number,
		TotalPages: page.TotalPages,
		Window:     apiutil.PageWindow(page.Number, page.TotalPages, paginationWindow),
	})
	apiutil.RenderPage(w, r, apiutil.PublicPage(r, title, "blogs", "Articles, news and insights from the club", body), "Failed to render blogs page")
}

// GET /blog/{slug}
//
// Drafts are not visible publicly.
func HandleDetailPage(w http.ResponseWriter, r *http.Request) {
	q := loadQueries()
	if q == nil {
		http.Error(w, "Database not initialized", http.StatusInternalServerError)
		return
	}

	slug := strings.TrimSpace(r.PathValue("slug"))
	if slug == "" {
		apiutil.RenderNotFound(w, r, "We couldn't find that post.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), blogQueryTimeout)
	defer cancel()

	row, err := q.GetBlogBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.RenderNotFound(w, r, "We couldn't find that post.")
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Str("slug", slug).Msg("Failed to load blog")
		http.Error(w, "Failed to load blog", http.StatusInternalServerError)
		return
	}
	blog, err := models.BlogFromDB(row)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("slug", slug).Msg("Failed to decode blog")
		http.Error(w, "Failed to load blog", http.StatusInternalServerError)
		return
	}
	if blog.Status != models.BlogPublished {
		apiutil.RenderNotFound(w, r, "We couldn't find that post.")
		return
	}

	page := apiutil.PublicPage(r, blog.Title, "blogs", blog.Excerpt(160), blogstempl.Detail(blog))
	apiutil.RenderPage(w, r, page, "Failed to render blog page")
}

func renderForm(w http.ResponseWriter, r *http.Request, status int, data blogstempl.FormData) {
	title := "Edit post"
	if data.IsNew() {
		title = "New post"
	}
	page := apiutil.AdminPage(r, title, "blogs", blogstempl.Form(data))
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, page, "Failed to render blog form")
}

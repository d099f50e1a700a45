package blogs

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	"github.com/codr1/Clubhouse/internal/db"
	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/slug"
)

var errBlogNotFound = apiutil.NotFound("Blog not found")

type blogQueries interface {
	CountBlogs(ctx context.Context, arg dbgen.CountBlogsParams) (int64, error)
	CreateBlog(ctx context.Context, arg dbgen.CreateBlogParams) (int64, error)
	DeleteBlog(ctx context.Context, id int64) (int64, error)
	GetBlogByID(ctx context.Context, id int64) (dbgen.Blog, error)
	GetBlogBySlug(ctx context.Context, slug string) (dbgen.Blog, error)
	ListBlogTags(ctx context.Context) ([]string, error)
	ListBlogs(ctx context.Context, arg dbgen.ListBlogsParams) ([]dbgen.Blog, error)
	UpdateBlog(ctx context.Context, arg dbgen.UpdateBlogParams) (int64, error)
}

// tagList decodes either a JSON array of tags or one comma separated string.
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*t = splitTags(raw)
		return nil
	}
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return fmt.Errorf("tags must be a list of strings")
	}
	*t = tags
	return nil
}

func splitTags(raw string) []string {
	return models.NormalizeTags(strings.Split(raw, ","))
}

type blogInput struct {
	Title   string
	Content string
	Img     string
	Tags    []string
	Status  string
}

type blogPatch struct {
	Title   *string
	Content *string
	Img     *string
	Tags    *[]string
	Status  *string
}

func model(in blogInput) models.Blog {
	status := models.BlogStatus(strings.TrimSpace(strings.ToLower(in.Status)))
	if status == "" {
		status = models.BlogDraft
	}
	return models.Blog{
		Title:   strings.TrimSpace(in.Title),
		Content: strings.TrimSpace(in.Content),
		Img:     strings.TrimSpace(in.Img),
		Tags:    models.NormalizeTags(in.Tags),
		Status:  status,
	}
}

func validate(blog models.Blog) error {
	if err := blog.Validate(); err != nil {
		return apiutil.BadRequest(err.Error())
	}
	if slug.Generate(blog.Title) == "" {
		return apiutil.BadRequest("title must contain letters or numbers")
	}
	return nil
}

func loadBlog(ctx context.Context, q blogQueries, id int64) (models.Blog, error) {
	row, err := q.GetBlogByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Blog{}, errBlogNotFound
		}
		return models.Blog{}, fmt.Errorf("load blog: %w", err)
	}
	return models.BlogFromDB(row)
}

func createBlog(ctx context.Context, q blogQueries, in blogInput) (models.Blog, error) {
	blog := model(in)
	if err := validate(blog); err != nil {
		return models.Blog{}, err
	}
	tags, err := models.EncodeTags(blog.Tags)
	if err != nil {
		return models.Blog{}, err
	}

	var id int64
	_, err = slug.Claim(slug.Generate(blog.Title), true, func(candidate string) error {
		var insertErr error
		id, insertErr = q.CreateBlog(ctx, dbgen.CreateBlogParams{
			Title:   blog.Title,
			Slug:    candidate,
			Content: blog.Content,
			Img:     blog.Img,
			Tags:    tags,
			Status:  string(blog.Status),
		})
		return insertErr
	}, db.IsUniqueViolation)
	if err != nil {
		if errors.Is(err, slug.ErrConflict) {
			return models.Blog{}, apiutil.Conflict("A blog with this title already exists")
		}
		return models.Blog{}, fmt.Errorf("create blog: %w", err)
	}
	return loadBlog(ctx, q, id)
}

func updateBlog(ctx context.Context, q blogQueries, id int64, patch blogPatch) (models.Blog, error) {
	current, err := loadBlog(ctx, q, id)
	if err != nil {
		return models.Blog{}, err
	}

	in := blogInput{
		Title:   current.Title,
		Content: current.Content,
		Img:     current.Img,
		Tags:    current.Tags,
		Status:  string(current.Status),
	}
	if patch.Title != nil {
		in.Title = *patch.Title
	}
	if patch.Content != nil {
		in.Content = *patch.Content
	}
	if patch.Img != nil {
		in.Img = *patch.Img
	}
	if patch.Tags != nil {
		in.Tags = *patch.Tags
	}
	if patch.Status != nil {
		in.Status = *patch.Status
	}

	blog := model(in)
	if err := validate(blog); err != nil {
		return models.Blog{}, err
	}
	tags, err := models.EncodeTags(blog.Tags)
	if err != nil {
		return models.Blog{}, err
	}

	renamed := blog.Title != current.Title
	base := current.Slug
	if renamed {
		base = slug.Generate(blog.Title)
	}
	var rows int64
	_, err = slug.Claim(base, renamed, func(candidate string) error {
		var updateErr error
		rows, updateErr = q.UpdateBlog(ctx, dbgen.UpdateBlogParams{
			Title:   blog.Title,
			Slug:    candidate,
			Content: blog.Content,
			Img:     blog.Img,
			Tags:    tags,
			Status:  string(blog.Status),
			ID:      id,
		})
		return updateErr
	}, db.IsUniqueViolation)
	if err != nil {
		if errors.Is(err, slug.ErrConflict) {
			return models.Blog{}, apiutil.Conflict("Another blog with this title already exists")
		}
		return models.Blog{}, fmt.Errorf("update blog: %w", err)
	}
	if rows == 0 {
		return models.Blog{}, errBlogNotFound
	}
	return loadBlog(ctx, q, id)
}

func deleteBlog(ctx context.Context, q blogQueries, id int64) error {
	rows, err := q.DeleteBlog(ctx, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if rows == 0 {
		return errBlogNotFound
	}
	return nil
}

type blogFilter struct {
	Status string
	Tag    string
	Search string
}

func (f blogFilter) params(limit, offset int64) (dbgen.ListBlogsParams, dbgen.CountBlogsParams) {
	status := apiutil.ToNullString(f.Status)
	tag := apiutil.ToNullString(strings.TrimSpace(f.Tag))
	search := apiutil.ToNullString(strings.TrimSpace(f.Search))
	if limit <= 0 {
		// SQLite treats a negative LIMIT as no limit.
		limit = -1
	}
	return dbgen.ListBlogsParams{Status: status, Tag: tag, Search: search, Limit: limit, Offset: offset},
		dbgen.CountBlogsParams{Status: status, Tag: tag, Search: search}
}

// listBlogs returns every match, newest first.
func listBlogs(ctx context.Context, q blogQueries, f blogFilter) ([]models.Blog, error) {
	listParams, _ := f.params(0, 0)
	rows, err := q.ListBlogs(ctx, listParams)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	return models.BlogsFromDB(rows)
}

// pageBlogs returns one page of matches and fills in the total.
func pageBlogs(ctx context.Context, q blogQueries, f blogFilter, page apiutil.Page) ([]models.Blog, apiutil.Page, error) {
	listParams, countParams := f.params(page.Limit, page.Offset())
	rows, err := q.ListBlogs(ctx, listParams)
	if err != nil {
		return nil, page, fmt.Errorf("list blogs: %w", err)
	}
	list, err := models.BlogsFromDB(rows)
	if err != nil {
		return nil, page, err
	}
	total, err := q.CountBlogs(ctx, countParams)
	if err != nil {
		return nil, page, fmt.Errorf("count blogs: %w", err)
	}
	return list, page.WithTotal(total), nil
}

package blogs

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/templates/components/shared"
	"github.com/codr1/Clubhouse/internal/templates/view"
)

const (
	dateLayout    = "Jan 2, 2006"
	excerptLength = 150
	cardTagLimit  = 3
)

type FormData struct {
	ID      int64
	Title   string
	Content string
	Img     string
	// Tags is the comma separated input value.
	Tags   string
	Status string
	Error  string
}

func (d FormData) IsNew() bool { return d.ID == 0 }

func (d FormData) action() string {
	if d.IsNew() {
		return "/admin/blogs/new"
	}
	return "/admin/blogs/" + strconv.FormatInt(d.ID, 10)
}

type AdminListData struct {
	Blogs  []models.Blog
	Status string
	Notice string
}

func tagHref(tag string) string {
	return "/blogs/tag/" + url.PathEscape(tag)
}

func AdminList(data AdminListData) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Raw(`<div class="page-header"><h1>Blog posts</h1><a class="btn btn-primary" href="/admin/blogs/new">New post</a></div>`)
		if data.Notice != "" {
			v.Printf(`<div class="alert alert-success">%s</div>`, data.Notice)
		}
		v.Raw(`<form method="get" action="/admin/blogs" class="filters">`)
		v.Component(shared.Select("status", "Status", "All", []shared.Option{
			{Value: string(models.BlogDraft), Label: "Draft"},
			{Value: string(models.BlogPublished), Label: "Published"},
		}, data.Status))
		v.Raw(`<button type="submit" class="btn">Filter</button></form>`)

		if len(data.Blogs) == 0 {
			v.Component(shared.EmptyState("No posts found."))
			return
		}
		v.Raw(`<table class="data-table"><thead><tr><th>Title</th><th>Status</th><th>Tags</th><th>Created</th><th></th></tr></thead><tbody>`)
		for _, b := range data.Blogs {
			v.Printf(`<tr><td><a href="/admin/blogs/%d">%s</a></td><td><span class="badge badge-%s">%s</span></td><td>%s</td><td>%s</td><td class="actions">`,
				b.ID, b.Title, string(b.Status), string(b.Status), strings.Join(b.Tags, ", "), b.CreatedAt.Format(dateLayout))
			if b.Status == models.BlogPublished {
				v.Printf(`<a class="btn btn-small" href="/blog/%s">View</a>`, b.Slug)
			}
			v.Component(shared.DeleteButton("/admin/blogs/"+strconv.FormatInt(b.ID, 10)+"/delete", b.Title))
			v.Raw(`</td></tr>`)
		}
		v.Raw(`</tbody></table>`)
	})
}

func Form(data FormData) templ.Component {
	return view.Func(func(v *view.Writer) {
		title := "Edit post"
		if data.IsNew() {
			title = "New post"
		}
		v.Printf(`<div class="page-header"><h1>%s</h1><a href="/admin/blogs">Back to posts</a></div>`, title)
		v.Component(shared.FormError(data.Error))
		v.Printf(`<form method="post" action="%s" class="stack blog-form">`, data.action())
		v.Printf(`<label for="title">Title</label><input id="title" type="text" name="title" value="%s" required maxlength="100">`, data.Title)
		v.Raw(`<label for="content">Content</label><textarea id="content" name="content" rows="14" required>`)
		v.Text(data.Content)
		v.Raw(`</textarea>`)
		v.Component(shared.ImageInput("img", "Cover image", data.Img))
		v.Printf(`<label for="tags">Tags</label><input id="tags" type="text" name="tags" value="%s" placeholder="news, results">`, data.Tags)
		status := data.Status
		if status == "" {
			status = string(models.BlogDraft)
		}
		v.Component(shared.Select("status", "Status", "", []shared.Option{
			{Value: string(models.BlogDraft), Label: "Draft"},
			{Value: string(models.BlogPublished), Label: "Published"},
		}, status))
		v.Raw(`<div class="form-actions"><button type="submit" class="btn btn-primary">Save post</button></div></form>`)
	})
}

func tagChips(v *view.Writer, tags []string, limit int) {
	if len(tags) == 0 {
		return
	}
	v.Raw(`<div class="tags">`)
	for i, tag := range tags {
		if limit > 0 && i == limit {
			v.Printf(`<span class="tag">+%d</span>`, len(tags)-limit)
			break
		}
		v.Raw(`<a class="tag"`)
		v.Href(tagHref(tag))
		v.Printf(`>%s</a>`, tag)
	}
	v.Raw(`</div>`)
}

// Card is the summary used on listings and the home page.
func Card(b models.Blog) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Raw(`<article class="card blog-card">`)
		if b.Img != "" {
			v.Printf(`<a href="/blog/%s">`, b.Slug)
			v.Component(shared.Image(b.Img, b.Title, "card-image"))
			v.Raw(`</a>`)
		}
		tagChips(v, b.Tags, cardTagLimit)
		v.Printf(`<h3><a href="/blog/%s">%s</a></h3>`, b.Slug, b.Title)
		v.Printf(`<p class="muted">%s</p>`, b.CreatedAt.Format(dateLayout))
		v.Printf(`<p>%s</p>`, b.Excerpt(excerptLength))
		v.Printf(`<a class="btn btn-outline" href="/blog/%s">Read more</a>`, b.Slug)
		v.Raw(`</article>`)
	})
}

type ListData struct {
	Blogs      []models.Blog
	Query      string
	Tag        string
	Base       url.URL
	Page       int64
	TotalPages int64
	Window     []int64
}

// List renders /blogs and /blogs/tag/{tag}.
func List(data ListData) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Raw(`<section class="page-banner">`)
		if data.Tag != "" {
			v.Printf(`<h1>Posts tagged &ldquo;%s&rdquo;</h1><p><a href="/blogs">All posts</a></p>`, data.Tag)
		} else {
			v.Raw(`<h1>Blogs</h1><p class="lead">Explore our latest articles, news, and insights.</p>`)
			v.Raw(`<form method="get" action="/blogs" class="search" role="search">`)
			v.Printf(`<input type="search" name="q" value="%s" placeholder="Search posts" aria-label="Search posts">`, data.Query)
			v.Raw(`<button type="submit" class="btn">Search</button></form>`)
		}
		v.Raw(`</section>`)

		if len(data.Blogs) == 0 {
			if data.Query != "" {
				v.Component(shared.EmptyState("No posts match your search."))
			} else {
				v.Component(shared.EmptyState("No blogs published yet. Check back soon for new content!"))
			}
			return
		}
		v.Raw(`<div class="card-grid">`)
		for _, b := range data.Blogs {
			v.Component(Card(b))
		}
		v.Raw(`</div>`)
		v.Component(shared.Pagination(data.Base, data.Page, data.TotalPages, data.Window))
	})
}

// Detail renders a published post. Content is plain text; blank lines
// separate paragraphs.
func Detail(b models.Blog) templ.Component {
	return view.Func(func(v *view.Writer) {
		v.Raw(`<article class="blog-post">`)
		v.Component(shared.Image(b.Img, b.Title, "hero-image"))
		v.Printf(`<h1>%s</h1>`, b.Title)
		v.Printf(`<p class="muted">%s</p>`, b.CreatedAt.Format(dateLayout))
		tagChips(v, b.Tags, 0)
		v.Raw(`<div class="prose">`)
		for _, para := range strings.Split(strings.ReplaceAll(b.Content, "\r\n", "\n"), "\n\n") {
			if para = strings.TrimSpace(para); para != "" {
				v.Printf(`<p>%s</p>`, para)
			}
		}
		v.Raw(`</div><p><a href="/blogs">Back to all posts</a></p></article>`)
	})
}

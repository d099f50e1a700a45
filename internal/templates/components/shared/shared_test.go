package shared

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestPaginationWindow(t *testing.T) {
	base := url.URL{Path: "/blogs", RawQuery: "q=cup"}
	html := renderString(t, Pagination(base, 3, 7, []int64{1, 2, 3, 4, 5}))

	for _, want := range []string{
		`<a rel="prev" href="/blogs?page=2&amp;q=cup">Previous</a>`,
		`<span class="current" aria-current="page">3</span>`,
		`<a href="/blogs?page=5&amp;q=cup">5</a>`,
		`<a rel="next" href="/blogs?page=4&amp;q=cup">Next</a>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in %s", want, html)
		}
	}
	if strings.Contains(html, "page=6") {
		t.Fatalf("pages outside the window should not render")
	}
}

func TestPaginationSinglePage(t *testing.T) {
	if html := renderString(t, Pagination(url.URL{Path: "/blogs"}, 1, 1, []int64{1})); html != "" {
		t.Fatalf("expected nothing for a single page, got %s", html)
	}
}

func TestImageSkipsEmptySource(t *testing.T) {
	if html := renderString(t, Image("", "x", "")); html != "" {
		t.Fatalf("expected no markup, got %s", html)
	}
	html := renderString(t, Image("/uploads/1.png", `Team "A"`, "cover"))
	if !strings.Contains(html, `alt="Team &#34;A&#34;" src="/uploads/1.png"`) {
		t.Fatalf("unexpected image markup: %s", html)
	}
}

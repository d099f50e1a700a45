package view

import (
	"bytes"
	"context"
	"testing"
)

func render(t *testing.T, fn func(v *Writer)) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Func(fn).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestTextAndPrintfEscape(t *testing.T) {
	got := render(t, func(v *Writer) {
		v.Raw("<p>")
		v.Text(`<script>alert("x")</script>`)
		v.Printf(`<a title="%s">%d</a>`, `"quoted" & <b>`, 7)
		v.Raw("</p>")
	})
	want := `<p>&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;<a title="&#34;quoted&#34; &amp; &lt;b&gt;">7</a></p>`
	if got != want {
		t.Fatalf("unexpected markup:\n got %s\nwant %s", got, want)
	}
}

func TestAttrHelpers(t *testing.T) {
	got := render(t, func(v *Writer) {
		v.Raw("<input")
		v.Attr("name", "field.1")
		v.Attr("placeholder", "")
		v.BoolAttr("required", true)
		v.BoolAttr("checked", false)
		v.Raw(">")
	})
	if got != `<input name="field.1" required>` {
		t.Fatalf("unexpected markup: %s", got)
	}
}

func TestHrefRejectsScriptURLs(t *testing.T) {
	got := render(t, func(v *Writer) {
		v.Raw("<a")
		v.Href("javascript:alert(1)")
		v.Raw(">")
	})
	if bytes.Contains([]byte(got), []byte("javascript:")) {
		t.Fatalf("expected script url to be sanitised, got %s", got)
	}
}

func TestGroupAndClasses(t *testing.T) {
	a := Func(func(v *Writer) { v.Raw("a") })
	b := Func(func(v *Writer) { v.Raw("b") })
	got := render(t, func(v *Writer) { v.Component(Group(a, nil, b)) })
	if got != "ab" {
		t.Fatalf("unexpected group output: %s", got)
	}
	if c := Classes("btn", "", " primary "); c != "btn primary" {
		t.Fatalf("unexpected classes: %q", c)
	}
}

// Package view renders HTML fragments as templ components.
//
// Components are plain Go functions over a Writer. Text and attribute values
// are always escaped; only literal markup passed to Raw bypasses escaping.
package view

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Writer accumulates the first write error so components can emit markup
// without checking every call.
type Writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

// Func adapts a render function into a templ.Component.
func Func(render func(v *Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		v := &Writer{ctx: ctx, w: w}
		render(v)
		return v.err
	})
}

func (v *Writer) Context() context.Context {
	return v.ctx
}

func (v *Writer) Err() error {
	return v.err
}

// Raw writes literal markup.
func (v *Writer) Raw(markup string) {
	if v.err != nil {
		return
	}
	_, v.err = io.WriteString(v.w, markup)
}

// Text writes s HTML-escaped.
func (v *Writer) Text(s string) {
	v.Raw(templ.EscapeString(s))
}

// Printf formats markup with every argument escaped.
func (v *Writer) Printf(format string, args ...any) {
	escaped := make([]any, len(args))
	for i, arg := range args {
		switch a := arg.(type) {
		case string:
			escaped[i] = templ.EscapeString(a)
		case templ.SafeURL:
			escaped[i] = templ.EscapeString(string(a))
		case fmt.Stringer:
			escaped[i] = templ.EscapeString(a.String())
		default:
			escaped[i] = arg
		}
	}
	v.Raw(fmt.Sprintf(format, escaped...))
}

// Attr writes ` name="value"` with value escaped. Empty values are skipped.
func (v *Writer) Attr(name, value string) {
	if value == "" {
		return
	}
	v.Printf(` %s="%s"`, name, value)
}

// BoolAttr writes a valueless attribute such as required or checked.
func (v *Writer) BoolAttr(name string, on bool) {
	if on {
		v.Raw(" " + name)
	}
}

// Href writes an href attribute sanitised by templ.URL.
func (v *Writer) Href(url string) {
	v.Printf(` href="%s"`, templ.URL(url))
}

// Component renders a nested component into the same writer.
func (v *Writer) Component(c templ.Component) {
	if v.err != nil || c == nil {
		return
	}
	v.err = c.Render(v.ctx, v.w)
}

// Classes joins the non-empty class names.
func Classes(names ...string) string {
	kept := names[:0:0]
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			kept = append(kept, n)
		}
	}
	return strings.Join(kept, " ")
}

// Group renders components one after another.
func Group(components ...templ.Component) templ.Component {
	return Func(func(v *Writer) {
		for _, c := range components {
			v.Component(c)
		}
	})
}

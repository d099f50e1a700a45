package apiutil

import (
	"net/http"
	"strconv"
	"strings"
)

// Page describes one page of a list request.
type Page struct {
	Number     int64
	Limit      int64
	Total      int64
	TotalPages int64
}

func (p Page) Offset() int64 {
	return (p.Number - 1) * p.Limit
}

func (p Page) HasPrev() bool { return p.Number > 1 }

func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// WithTotal fills in the total count and page count.
func (p Page) WithTotal(total int64) Page {
	p.Total = total
	p.TotalPages = 0
	if p.Limit > 0 {
		p.TotalPages = (total + p.Limit - 1) / p.Limit
	}
	return p
}

// ParsePage reads page and limit from the query string. Missing or invalid
// values fall back to page 1 and defaultLimit; limit is capped at maxLimit.
func ParsePage(r *http.Request, defaultLimit, maxLimit int64) Page {
	query := r.URL.Query()
	page := Page{Number: 1, Limit: defaultLimit}
	if n, err := strconv.ParseInt(strings.TrimSpace(query.Get("page")), 10, 64); err == nil && n > 0 {
		page.Number = n
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(query.Get("limit")), 10, 64); err == nil && n > 0 {
		page.Limit = n
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page
}

// WritePageHeaders exposes the page metadata as response headers.
func WritePageHeaders(w http.ResponseWriter, p Page) {
	w.Header().Set("X-Total-Count", strconv.FormatInt(p.Total, 10))
	w.Header().Set("X-Page", strconv.FormatInt(p.Number, 10))
	w.Header().Set("X-Limit", strconv.FormatInt(p.Limit, 10))
	w.Header().Set("X-Total-Pages", strconv.FormatInt(p.TotalPages, 10))
}

// PageWindow returns up to size page numbers centred on current, shifted to
// stay within 1..total.
func PageWindow(current, total, size int64) []int64 {
	if total <= 0 || size <= 0 {
		return nil
	}
	if size > total {
		size = total
	}
	start := current - size/2
	if start < 1 {
		start = 1
	}
	if start+size-1 > total {
		start = total - size + 1
	}
	pages := make([]int64, 0, size)
	for i := int64(0); i < size; i++ {
		pages = append(pages, start+i)
	}
	return pages
}

// internal/models/blog.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
)

const maxBlogTitleLength = 100

type BlogStatus string

const (
	BlogDraft     BlogStatus = "draft"
	BlogPublished BlogStatus = "published"
)

func (s BlogStatus) Valid() bool {
	return s == BlogDraft || s == BlogPublished
}

type Blog struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Content   string     `json:"content"`
	Img       string     `json:"img"`
	Tags      []string   `json:"tags"`
	Status    BlogStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (b Blog) Validate() error {
	title := strings.TrimSpace(b.Title)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if len(title) > maxBlogTitleLength {
		return fmt.Errorf("title cannot be more than %d characters", maxBlogTitleLength)
	}
	if strings.TrimSpace(b.Content) == "" {
		return fmt.Errorf("content is required")
	}
	if !b.Status.Valid() {
		return fmt.Errorf("status must be draft or published")
	}
	return nil
}

// Excerpt returns the first n runes of the content for list views.
func (b Blog) Excerpt(n int) string {
	runes := []rune(strings.TrimSpace(b.Content))
	if len(runes) <= n {
		return string(runes)
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// NormalizeTags trims tags, drops empties and duplicates, preserving order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func EncodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(data), nil
}

func BlogFromDB(row dbgen.Blog) (Blog, error) {
	tags := []string{}
	if strings.TrimSpace(row.Tags) != "" {
		if err := json.Unmarshal([]byte(row.Tags), &tags); err != nil {
			return Blog{}, fmt.Errorf("blog %d: decode tags: %w", row.ID, err)
		}
	}
	return Blog{
		ID:        row.ID,
		Title:     row.Title,
		Slug:      row.Slug,
		Content:   row.Content,
		Img:       row.Img,
		Tags:      tags,
		Status:    BlogStatus(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func BlogsFromDB(rows []dbgen.Blog) ([]Blog, error) {
	results := make([]Blog, 0, len(rows))
	for _, row := range rows {
		blog, err := BlogFromDB(row)
		if err != nil {
			return nil, err
		}
		results = append(results, blog)
	}
	return results, nil
}

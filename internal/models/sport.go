// internal/models/sport.go
package models

import (
	"fmt"
	"strings"
	"time"

	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/formconfig"
)

const maxNameLength = 100

type Sport struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	ImageURL    string            `json:"imageUrl"`
	FormConfig  formconfig.Config `json:"formConfig"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// SportRef is the populated form of a sport reference on teams, players and events.
type SportRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (s Sport) Ref() *SportRef {
	return &SportRef{ID: s.ID, Name: s.Name, Slug: s.Slug}
}

func (s Sport) Validate() error {
	if err := validateName("name", s.Name); err != nil {
		return err
	}
	if err := s.FormConfig.Validate(); err != nil {
		return fmt.Errorf("formConfig: %w", err)
	}
	return nil
}

// SportFromDB decodes the stored row. A malformed form_config is reported
// rather than silently dropped.
func SportFromDB(row dbgen.Sport) (Sport, error) {
	cfg, err := formconfig.ParseConfig([]byte(row.FormConfig))
	if err != nil {
		return Sport{}, fmt.Errorf("sport %d: %w", row.ID, err)
	}
	return Sport{
		ID:          row.ID,
		Name:        row.Name,
		Slug:        row.Slug,
		Description: row.Description,
		ImageURL:    row.ImageUrl,
		FormConfig:  cfg,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func SportsFromDB(rows []dbgen.Sport) ([]Sport, error) {
	results := make([]Sport, 0, len(rows))
	for _, row := range rows {
		sport, err := SportFromDB(row)
		if err != nil {
			return nil, err
		}
		results = append(results, sport)
	}
	return results, nil
}

func validateName(field, value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fmt.Errorf("%s is required", field)
	}
	if len(trimmed) > maxNameLength {
		return fmt.Errorf("%s must be %d characters or fewer", field, maxNameLength)
	}
	return nil
}

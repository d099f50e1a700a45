// internal/models/team.go
package models

import (
	"fmt"
	"time"

	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
)

type Team struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Coach       string    `json:"coach"`
	SportID     int64     `json:"sportId"`
	Sport       *SportRef `json:"sport,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type TeamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (t Team) Ref() *TeamRef {
	return &TeamRef{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func (t Team) Validate() error {
	if err := validateName("name", t.Name); err != nil {
		return err
	}
	if t.SportID <= 0 {
		return fmt.Errorf("sport is required")
	}
	return nil
}

func TeamFromDB(row dbgen.Team) Team {
	return Team{
		ID:          row.ID,
		Name:        row.Name,
		Slug:        row.Slug,
		Description: row.Description,
		ImageURL:    row.ImageUrl,
		Coach:       row.Coach,
		SportID:     row.SportID,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func TeamsFromDB(rows []dbgen.Team) []Team {
	results := make([]Team, 0, len(rows))
	for _, row := range rows {
		results = append(results, TeamFromDB(row))
	}
	return results
}

package sports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	"github.com/codr1/Clubhouse/internal/db"
	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/formconfig"
	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/slug"
)

var (
	errSportNotFound = apiutil.NotFound("Sport not found")
	errSportHasTeams = apiutil.Conflict("Cannot delete a sport that still has teams or players")
)

type sportInput struct {
	Name        string
	Description string
	ImageURL    string
	FormConfig  formconfig.Config
}

// sportPatch leaves nil members unchanged.
type sportPatch struct {
	Name        *string
	Description *string
	ImageURL    *string
	FormConfig  *formconfig.Config
}

func (in sportInput) model() models.Sport {
	return models.Sport{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		FormConfig:  in.FormConfig.Normalize(),
	}
}

func validateSport(sport models.Sport) error {
	if err := sport.Validate(); err != nil {
		return apiutil.BadRequest(err.Error())
	}
	if slug.Generate(sport.Name) == "" {
		return apiutil.BadRequest("name must contain letters or numbers")
	}
	return nil
}

func loadSport(ctx context.Context, q sportQueries, id int64) (models.Sport, error) {
	row, err := q.GetSportByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Sport{}, errSportNotFound
		}
		return models.Sport{}, fmt.Errorf("load sport: %w", err)
	}
	return models.SportFromDB(row)
}

func createSport(ctx context.Context, q sportQueries, in sportInput) (models.Sport, error) {
	sport := in.model()
	if err := validateSport(sport); err != nil {
		return models.Sport{}, err
	}
	formConfig, err := sport.FormConfig.Marshal()
	if err != nil {
		return models.Sport{}, err
	}

	var id int64
	_, err = slug.Claim(slug.Generate(sport.Name), false, func(candidate string) error {
		var insertErr error
		id, insertErr = q.CreateSport(ctx, dbgen.CreateSportParams{
			Name:        sport.Name,
			Slug:        candidate,
			Description: sport.Description,
			ImageUrl:    sport.ImageURL,
			FormConfig:  formConfig,
		})
		return insertErr
	}, db.IsUniqueViolation)
	if err != nil {
		if errors.Is(err, slug.ErrConflict) {
			return models.Sport{}, apiutil.Conflict("A sport with this name already exists")
		}
		return models.Sport{}, fmt.Errorf("create sport: %w", err)
	}
	return loadSport(ctx, q, id)
}

func updateSport(ctx context.Context, q sportQueries, id int64, patch sportPatch) (models.Sport, error) {
	current, err := loadSport(ctx, q, id)
	if err != nil {
		return models.Sport{}, err
	}

	in := sportInput{
		Name:        current.Name,
		Description: current.Description,
		ImageURL:    current.ImageURL,
		FormConfig:  current.FormConfig,
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		in.Name = *patch.Name
	}
	if patch.Description != nil {
		in.Description = *patch.Description
	}
	if patch.ImageURL != nil {
		in.ImageURL = *patch.ImageURL
	}
	if patch.FormConfig != nil {
		in.FormConfig = *patch.FormConfig
	}

	sport := in.model()
	if err := validateSport(sport); err != nil {
		return models.Sport{}, err
	}
	formConfig, err := sport.FormConfig.Marshal()
	if err != nil {
		return models.Sport{}, err
	}

	newSlug := current.Slug
	if sport.Name != current.Name {
		newSlug = slug.Generate(sport.Name)
	}

	rows, err := q.UpdateSport(ctx, dbgen.UpdateSportParams{
		Name:        sport.Name,
		Slug:        newSlug,
		Description: sport.Description,
		ImageUrl:    sport.ImageURL,
		FormConfig:  formConfig,
		ID:          id,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.Sport{}, apiutil.Conflict("Another sport with this name already exists")
		}
		return models.Sport{}, fmt.Errorf("update sport: %w", err)
	}
	if rows == 0 {
		return models.Sport{}, errSportNotFound
	}
	return loadSport(ctx, q, id)
}

func deleteSport(ctx context.Context, q sportQueries, id int64) error {
	teams, err := q.CountTeamsBySport(ctx, id)
	if err != nil {
		return fmt.Errorf("count teams: %w", err)
	}
	if teams > 0 {
		return errSportHasTeams
	}
	rows, err := q.DeleteSport(ctx, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return errSportHasTeams
		}
		return fmt.Errorf("delete sport: %w", err)
	}
	if rows == 0 {
		return errSportNotFound
	}
	return nil
}

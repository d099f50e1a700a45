package teams

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	"github.com/codr1/Clubhouse/internal/db"
	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/slug"
)

var (
	errTeamNotFound   = apiutil.NotFound("Team not found")
	errSportNotFound  = apiutil.BadRequest("Sport not found")
	errTeamHasPlayers = apiutil.Conflict("Cannot delete a team that still has players")
)

type teamInput struct {
	Name        string
	Description string
	ImageURL    string
	Coach       string
	SportID     int64
}

type teamPatch struct {
	Name        *string
	Description *string
	ImageURL    *string
	Coach       *string
	SportID     *int64
}

func (in teamInput) model() models.Team {
	return models.Team{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Coach:       strings.TrimSpace(in.Coach),
		SportID:     in.SportID,
	}
}

func validateTeam(ctx context.Context, q teamQueries, team models.Team) (models.Sport, error) {
	if err := team.Validate(); err != nil {
		return models.Sport{}, apiutil.BadRequest(err.Error())
	}
	if slug.Generate(team.Name) == "" {
		return models.Sport{}, apiutil.BadRequest("name must contain letters or numbers")
	}
	row, err := q.GetSportByID(ctx, team.SportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Sport{}, errSportNotFound
		}
		return models.Sport{}, fmt.Errorf("load sport: %w", err)
	}
	return models.SportFromDB(row)
}

// loadTeam fetches a team with its sport reference populated.
func loadTeam(ctx context.Context, q teamQueries, id int64) (models.Team, error) {
	row, err := q.GetTeamByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Team{}, errTeamNotFound
		}
		return models.Team{}, fmt.Errorf("load team: %w", err)
	}
	teams, err := populateSports(ctx, q, []dbgen.Team{row})
	if err != nil {
		return models.Team{}, err
	}
	return teams[0], nil
}

// populateSports converts rows and attaches each team's sport reference,
// loading every sport at most once.
func populateSports(ctx context.Context, q teamQueries, rows []dbgen.Team) ([]models.Team, error) {
	teams := models.TeamsFromDB(rows)
	refs := make(map[int64]*models.SportRef)
	for i := range teams {
		sportID := teams[i].SportID
		ref, ok := refs[sportID]
		if !ok {
			row, err := q.GetSportByID(ctx, sportID)
			switch {
			case err == nil:
				ref = &models.SportRef{ID: row.ID, Name: row.Name, Slug: row.Slug}
			case errors.Is(err, sql.ErrNoRows):
				ref = nil
			default:
				return nil, fmt.Errorf("load sport %d: %w", sportID, err)
			}
			refs[sportID] = ref
		}
		teams[i].Sport = ref
	}
	return teams, nil
}

func createTeam(ctx context.Context, q teamQueries, in teamInput) (models.Team, error) {
	team := in.model()
	if _, err := validateTeam(ctx, q, team); err != nil {
		return models.Team{}, err
	}

	var id int64
	_, err := slug.Claim(slug.Generate(team.Name), false, func(candidate string) error {
		var insertErr error
		id, insertErr = q.CreateTeam(ctx, dbgen.CreateTeamParams{
			Name:        team.Name,
			Slug:        candidate,
			Description: team.Description,
			ImageUrl:    team.ImageURL,
			Coach:       team.Coach,
			SportID:     team.SportID,
		})
		return insertErr
	}, db.IsUniqueViolation)
	if err != nil {
		if errors.Is(err, slug.ErrConflict) {
			return models.Team{}, apiutil.Conflict("A team with this name already exists")
		}
		if db.IsForeignKeyViolation(err) {
			return models.Team{}, errSportNotFound
		}
		return models.Team{}, fmt.Errorf("create team: %w", err)
	}
	return loadTeam(ctx, q, id)
}

func updateTeam(ctx context.Context, q teamQueries, id int64, patch teamPatch) (models.Team, error) {
	current, err := loadTeam(ctx, q, id)
	if err != nil {
		return models.Team{}, err
	}

	in := teamInput{
		Name:        current.Name,
		Description: current.Description,
		ImageURL:    current.ImageURL,
		Coach:       current.Coach,
		SportID:     current.SportID,
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
	if patch.Coach != nil {
		in.Coach = *patch.Coach
	}
	if patch.SportID != nil {
		in.SportID = *patch.SportID
	}

	team := in.model()
	if _, err := validateTeam(ctx, q, team); err != nil {
		return models.Team{}, err
	}

	newSlug := current.Slug
	if team.Name != current.Name {
		newSlug = slug.Generate(team.Name)
	}

	rows, err := q.UpdateTeam(ctx, dbgen.UpdateTeamParams{
		Name:        team.Name,
		Slug:        newSlug,
		Description: team.Description,
		ImageUrl:    team.ImageURL,
		Coach:       team.Coach,
		SportID:     team.SportID,
		ID:          id,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.Team{}, apiutil.Conflict("Another team with this name already exists")
		}
		if db.IsForeignKeyViolation(err) {
			return models.Team{}, errSportNotFound
		}
		return models.Team{}, fmt.Errorf("update team: %w", err)
	}
	if rows == 0 {
		return models.Team{}, errTeamNotFound
	}
	return loadTeam(ctx, q, id)
}

func deleteTeam(ctx context.Context, q teamQueries, id int64) error {
	players, err := q.CountPlayersByTeam(ctx, id)
	if err != nil {
		return fmt.Errorf("count players: %w", err)
	}
	if players > 0 {
		return errTeamHasPlayers
	}
	rows, err := q.DeleteTeam(ctx, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return errTeamHasPlayers
		}
		return fmt.Errorf("delete team: %w", err)
	}
	if rows == 0 {
		return errTeamNotFound
	}
	return nil
}

type teamFilter struct {
	ID      *int64
	SportID *int64
	Slug    string
}

func (f teamFilter) matches(t models.Team) bool {
	if f.ID != nil && t.ID != *f.ID {
		return false
	}
	if f.SportID != nil && t.SportID != *f.SportID {
		return false
	}
	if f.Slug != "" && t.Slug != f.Slug {
		return false
	}
	return true
}

func findTeams(ctx context.Context, q teamQueries, f teamFilter) ([]models.Team, error) {
	var rows []dbgen.Team
	switch {
	case f.ID != nil || f.Slug != "":
		var (
			row dbgen.Team
			err error
		)
		if f.ID != nil {
			row, err = q.GetTeamByID(ctx, *f.ID)
		} else {
			row, err = q.GetTeamBySlug(ctx, f.Slug)
		}
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return []models.Team{}, nil
			}
			return nil, err
		}
		rows = []dbgen.Team{row}
	default:
		var err error
		rows, err = q.ListTeams(ctx, apiutil.ToNullInt64(f.SportID))
		if err != nil {
			return nil, err
		}
	}

	teams, err := populateSports(ctx, q, rows)
	if err != nil {
		return nil, err
	}
	filtered := teams[:0]
	for _, team := range teams {
		if f.matches(team) {
			filtered = append(filtered, team)
		}
	}
	return filtered, nil
}

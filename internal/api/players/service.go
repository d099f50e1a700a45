package players

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	"github.com/codr1/Clubhouse/internal/db"
	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/formconfig"
	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/slug"
	playerstempl "github.com/codr1/Clubhouse/internal/templates/components/players"
)

var (
	errPlayerNotFound = apiutil.NotFound("Player not found")
	errTeamNotFound   = apiutil.BadRequest("Team not found")
	errSportNotFound  = apiutil.BadRequest("Sport not found")
)

// fieldValidationError carries per-field messages for the sport's custom
// fields. Error returns the first message.
type fieldValidationError struct {
	Fields formconfig.FieldErrors
}

func (e fieldValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid additional fields"
	}
	return e.Fields[0].Message
}

// answers is how a caller supplies custom field values. Exactly one of Form
// and JSON is used; with neither set the existing snapshot is kept.
type answers struct {
	Form url.Values
	JSON map[string]any
}

type playerInput struct {
	Name        string
	Description string
	Age         int64
	ImageURL    string
	Contact     string
	TeamID      int64
	SportID     int64
	Answers     answers
}

type playerPatch struct {
	Name        *string
	Description *string
	Age         *int64
	ImageURL    *string
	Contact     *string
	TeamID      *int64
	SportID     *int64
	Answers     answers
}

func (a answers) empty() bool {
	return a.Form == nil && a.JSON == nil
}

func (a answers) submission(cfg formconfig.Config) (formconfig.Submission, error) {
	if a.Form != nil {
		return formconfig.SubmissionFromForm(a.Form, cfg), nil
	}
	sub, err := formconfig.SubmissionFromJSON(a.JSON, cfg)
	if err != nil {
		return nil, apiutil.BadRequest("additionalFields: " + err.Error())
	}
	return sub, nil
}

func (s *service) model(in playerInput) models.Player {
	return models.Player{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Age:         in.Age,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Contact:     models.NormalizeContact(in.Contact, s.phoneRegion),
		TeamID:      in.TeamID,
		SportID:     in.SportID,
	}
}

type service struct {
	q           playerQueries
	phoneRegion string
}

// references loads the team and sport a player points at. The two are not
// cross-checked against each other.
func (s *service) references(ctx context.Context, teamID, sportID int64) (models.Team, models.Sport, error) {
	teamRow, err := s.q.GetTeamByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Team{}, models.Sport{}, errTeamNotFound
		}
		return models.Team{}, models.Sport{}, fmt.Errorf("load team: %w", err)
	}
	sportRow, err := s.q.GetSportByID(ctx, sportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Team{}, models.Sport{}, errSportNotFound
		}
		return models.Team{}, models.Sport{}, fmt.Errorf("load sport: %w", err)
	}
	sport, err := models.SportFromDB(sportRow)
	if err != nil {
		return models.Team{}, models.Sport{}, err
	}
	return models.TeamFromDB(teamRow), sport, nil
}

// validate checks the standard fields and the references, returning the
// player's sport.
func (s *service) validate(ctx context.Context, player models.Player) (models.Sport, error) {
	if err := player.Validate(); err != nil {
		return models.Sport{}, apiutil.BadRequest(err.Error())
	}
	if slug.Generate(player.Name) == "" {
		return models.Sport{}, apiutil.BadRequest("name must contain letters or numbers")
	}
	_, sport, err := s.references(ctx, player.TeamID, player.SportID)
	return sport, err
}

// decodeAnswers validates the custom answers against the sport's current
// configuration.
func decodeAnswers(sport models.Sport, a answers) (formconfig.Snapshot, error) {
	sub, err := a.submission(sport.FormConfig)
	if err != nil {
		return nil, err
	}
	snapshot, err := sport.FormConfig.Decode(sub)
	if err != nil {
		var fieldErrs formconfig.FieldErrors
		if errors.As(err, &fieldErrs) {
			return nil, fieldValidationError{Fields: fieldErrs}
		}
		return nil, err
	}
	if snapshot == nil {
		snapshot = formconfig.Snapshot{}
	}
	return snapshot, nil
}

func (s *service) load(ctx context.Context, id int64) (models.Player, error) {
	row, err := s.q.GetPlayerByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Player{}, errPlayerNotFound
		}
		return models.Player{}, fmt.Errorf("load player: %w", err)
	}
	players, err := s.populate(ctx, []dbgen.Player{row})
	if err != nil {
		return models.Player{}, err
	}
	return players[0], nil
}

// populate converts rows and attaches team and sport references, loading
// each referenced row once.
func (s *service) populate(ctx context.Context, rows []dbgen.Player) ([]models.Player, error) {
	players, err := models.PlayersFromDB(rows)
	if err != nil {
		return nil, err
	}
	teams := make(map[int64]*models.TeamRef)
	sports := make(map[int64]*models.SportRef)
	for i := range players {
		p := &players[i]
		ref, ok := teams[p.TeamID]
		if !ok {
			row, err := s.q.GetTeamByID(ctx, p.TeamID)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("load team %d: %w", p.TeamID, err)
			}
			if err == nil {
				ref = models.TeamFromDB(row).Ref()
			}
			teams[p.TeamID] = ref
		}
		p.Team = ref

		sportRef, ok := sports[p.SportID]
		if !ok {
			row, err := s.q.GetSportByID(ctx, p.SportID)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("load sport %d: %w", p.SportID, err)
			}
			if err == nil {
				sportRef = &models.SportRef{ID: row.ID, Name: row.Name, Slug: row.Slug}
			}
			sports[p.SportID] = sportRef
		}
		p.Sport = sportRef
	}
	return players, nil
}

func (s *service) create(ctx context.Context, in playerInput) (models.Player, error) {
	player := s.model(in)
	sport, err := s.validate(ctx, player)
	if err != nil {
		return models.Player{}, err
	}
	if in.Answers.empty() {
		in.Answers = answers{JSON: map[string]any{}}
	}
	snapshot, err := decodeAnswers(sport, in.Answers)
	if err != nil {
		return models.Player{}, err
	}
	fieldValues, err := snapshot.Marshal()
	if err != nil {
		return models.Player{}, err
	}

	var id int64
	_, err = slug.Claim(slug.Generate(player.Name), true, func(candidate string) error {
		var insertErr error
		id, insertErr = s.q.CreatePlayer(ctx, dbgen.CreatePlayerParams{
			Name:        player.Name,
			Slug:        candidate,
			Description: player.Description,
			Age:         player.Age,
			ImageUrl:    player.ImageURL,
			Contact:     player.Contact,
			TeamID:      player.TeamID,
			SportID:     player.SportID,
			FieldValues: fieldValues,
		})
		return insertErr
	}, db.IsUniqueViolation)
	if err != nil {
		if errors.Is(err, slug.ErrConflict) {
			return models.Player{}, apiutil.Conflict("A player with this name already exists")
		}
		if db.IsForeignKeyViolation(err) {
			return models.Player{}, apiutil.BadRequest("team or sport no longer exists")
		}
		return models.Player{}, fmt.Errorf("create player: %w", err)
	}
	return s.load(ctx, id)
}

func (s *service) update(ctx context.Context, id int64, patch playerPatch) (models.Player, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return models.Player{}, err
	}

	in := playerInput{
		Name:        current.Name,
		Description: current.Description,
		Age:         current.Age,
		ImageURL:    current.ImageURL,
		Contact:     current.Contact,
		TeamID:      current.TeamID,
		SportID:     current.SportID,
		Answers:     patch.Answers,
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		in.Name = *patch.Name
	}
	if patch.Description != nil {
		in.Description = *patch.Description
	}
	if patch.Age != nil {
		in.Age = *patch.Age
	}
	if patch.ImageURL != nil {
		in.ImageURL = *patch.ImageURL
	}
	if patch.Contact != nil {
		in.Contact = *patch.Contact
	}
	if patch.TeamID != nil {
		in.TeamID = *patch.TeamID
	}
	if patch.SportID != nil {
		in.SportID = *patch.SportID
	}

	player := s.model(in)
	sport, err := s.validate(ctx, player)
	if err != nil {
		return models.Player{}, err
	}

	// Answers are frozen at capture time: without new answers for the same
	// sport the stored snapshot is kept even if the sport's fields changed.
	snapshot := current.Fields
	if !in.Answers.empty() || player.SportID != current.SportID {
		if in.Answers.empty() {
			in.Answers = answers{JSON: map[string]any{}}
		}
		if snapshot, err = decodeAnswers(sport, in.Answers); err != nil {
			return models.Player{}, err
		}
	}
	fieldValues, err := snapshot.Marshal()
	if err != nil {
		return models.Player{}, err
	}

	base := current.Slug
	if player.Name != current.Name {
		base = slug.Generate(player.Name)
	}
	var rows int64
	_, err = slug.Claim(base, player.Name != current.Name, func(candidate string) error {
		var updateErr error
		rows, updateErr = s.q.UpdatePlayer(ctx, dbgen.UpdatePlayerParams{
			Name:        player.Name,
			Slug:        candidate,
			Description: player.Description,
			Age:         player.Age,
			ImageUrl:    player.ImageURL,
			Contact:     player.Contact,
			TeamID:      player.TeamID,
			SportID:     player.SportID,
			FieldValues: fieldValues,
			ID:          id,
		})
		return updateErr
	}, db.IsUniqueViolation)
	if err != nil {
		if errors.Is(err, slug.ErrConflict) {
			return models.Player{}, apiutil.Conflict("Another player with this name already exists")
		}
		if db.IsForeignKeyViolation(err) {
			return models.Player{}, apiutil.BadRequest("team or sport no longer exists")
		}
		return models.Player{}, fmt.Errorf("update player: %w", err)
	}
	if rows == 0 {
		return models.Player{}, errPlayerNotFound
	}
	return s.load(ctx, id)
}

func (s *service) delete(ctx context.Context, id int64) error {
	rows, err := s.q.DeletePlayer(ctx, id)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	if rows == 0 {
		return errPlayerNotFound
	}
	return nil
}

type playerFilter struct {
	ID      *int64
	TeamID  *int64
	SportID *int64
	Slug    string
}

func (f playerFilter) matches(p models.Player) bool {
	if f.ID != nil && p.ID != *f.ID {
		return false
	}
	if f.TeamID != nil && p.TeamID != *f.TeamID {
		return false
	}
	if f.SportID != nil && p.SportID != *f.SportID {
		return false
	}
	if f.Slug != "" && p.Slug != f.Slug {
		return false
	}
	return true
}

func (s *service) find(ctx context.Context, f playerFilter) ([]models.Player, error) {
	var rows []dbgen.Player
	if f.ID != nil || f.Slug != "" {
		var (
			row dbgen.Player
			err error
		)
		if f.ID != nil {
			row, err = s.q.GetPlayerByID(ctx, *f.ID)
		} else {
			row, err = s.q.GetPlayerBySlug(ctx, f.Slug)
		}
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return []models.Player{}, nil
			}
			return nil, err
		}
		rows = []dbgen.Player{row}
	} else {
		var err error
		rows, err = s.q.ListPlayers(ctx, dbgen.ListPlayersParams{
			TeamID:  apiutil.ToNullInt64(f.TeamID),
			SportID: apiutil.ToNullInt64(f.SportID),
		})
		if err != nil {
			return nil, err
		}
	}

	players, err := s.populate(ctx, rows)
	if err != nil {
		return nil, err
	}
	filtered := players[:0]
	for _, p := range players {
		if f.matches(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// teams lists every team with its sport attached for select labels.
func (s *service) teams(ctx context.Context) ([]models.Team, error) {
	rows, err := s.q.ListTeams(ctx, sql.NullInt64{})
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	teams := models.TeamsFromDB(rows)
	sportRows, err := s.q.ListSports(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sports: %w", err)
	}
	refs := make(map[int64]*models.SportRef, len(sportRows))
	for _, row := range sportRows {
		refs[row.ID] = &models.SportRef{ID: row.ID, Name: row.Name, Slug: row.Slug}
	}
	for i := range teams {
		teams[i].Sport = refs[teams[i].SportID]
	}
	return teams, nil
}

// fillFormChoices loads the team and sport selects and the selected sport's
// current field list.
func (s *service) fillFormChoices(ctx context.Context, data *playerstempl.FormData) error {
	teams, err := s.teams(ctx)
	if err != nil {
		return err
	}
	rows, err := s.q.ListSports(ctx)
	if err != nil {
		return fmt.Errorf("list sports: %w", err)
	}
	sports, err := models.SportsFromDB(rows)
	if err != nil {
		return err
	}
	data.Teams = teams
	data.Sports = sports
	for _, sport := range sports {
		if sport.ID == data.SportID {
			data.Config = sport.FormConfig
		}
	}
	return nil
}

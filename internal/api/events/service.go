package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/codr1/Clubhouse/internal/api/apiutil"
	"github.com/codr1/Clubhouse/internal/db"
	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/slug"
)

var (
	errEventNotFound = apiutil.NotFound("Event not found")
	errSportNotFound = apiutil.BadRequest("Sport not found")
)

type eventQueries interface {
	CountEvents(ctx context.Context, arg dbgen.CountEventsParams) (int64, error)
	GetEventByID(ctx context.Context, id int64) (dbgen.Event, error)
	GetEventBySlug(ctx context.Context, slug string) (dbgen.Event, error)
	GetSportByID(ctx context.Context, id int64) (dbgen.Sport, error)
	GetTeamByID(ctx context.Context, id int64) (dbgen.Team, error)
	ListEventTeamIDs(ctx context.Context, eventID int64) ([]int64, error)
	ListEvents(ctx context.Context, arg dbgen.ListEventsParams) ([]dbgen.Event, error)
	ListSports(ctx context.Context) ([]dbgen.Sport, error)
	ListTeams(ctx context.Context, sportID sql.NullInt64) ([]dbgen.Team, error)
}

type eventInput struct {
	Name        string
	Description string
	ImageURL    string
	Location    string
	StartDate   time.Time
	EndDate     time.Time
	Status      string
	SportID     *int64
	TeamIDs     []int64
}

// eventPatch leaves nil fields unchanged. A non-nil SportID of 0 clears the
// sport.
type eventPatch struct {
	Name        *string
	Description *string
	ImageURL    *string
	Location    *string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *string
	SportID     *int64
	TeamIDs     *[]int64
}

type service struct {
	db    *db.DB
	q     eventQueries
	clock clockwork.Clock
}

// resolveStatus returns cancelled when asked for and otherwise places the
// event on the timeline. Any other requested value must still be a known
// status.
func (s *service) resolveStatus(requested string, start, end time.Time) (models.EventStatus, error) {
	requested = strings.TrimSpace(strings.ToLower(requested))
	if requested != "" && !models.EventStatus(requested).Valid() {
		return "", apiutil.BadRequest("status must be one of upcoming, ongoing, completed, cancelled")
	}
	if models.EventStatus(requested) == models.EventCancelled {
		return models.EventCancelled, nil
	}
	return models.DeriveEventStatus(start, end, s.clock.Now()), nil
}

func normalizeTeamIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (s *service) validate(ctx context.Context, event models.Event) error {
	if err := event.Validate(); err != nil {
		return apiutil.BadRequest(err.Error())
	}
	if slug.Generate(event.Name) == "" {
		return apiutil.BadRequest("name must contain letters or numbers")
	}
	if event.SportID != nil {
		if _, err := s.q.GetSportByID(ctx, *event.SportID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errSportNotFound
			}
			return fmt.Errorf("load sport: %w", err)
		}
	}
	for _, id := range event.TeamIDs {
		if _, err := s.q.GetTeamByID(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apiutil.BadRequest(fmt.Sprintf("Team %d not found", id))
			}
			return fmt.Errorf("load team: %w", err)
		}
	}
	return nil
}

func (s *service) model(in eventInput) (models.Event, error) {
	status, err := s.resolveStatus(in.Status, in.StartDate, in.EndDate)
	if err != nil {
		return models.Event{}, err
	}
	sportID := in.SportID
	if sportID != nil && *sportID <= 0 {
		sportID = nil
	}
	return models.Event{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Location:    strings.TrimSpace(in.Location),
		StartDate:   in.StartDate.UTC(),
		EndDate:     in.EndDate.UTC(),
		Status:      status,
		SportID:     sportID,
		TeamIDs:     normalizeTeamIDs(in.TeamIDs),
	}, nil
}

func replaceTeams(ctx context.Context, q *dbgen.Queries, eventID int64, teamIDs []int64) error {
	if err := q.DeleteEventTeams(ctx, eventID); err != nil {
		return fmt.Errorf("clear event teams: %w", err)
	}
	for i, teamID := range teamIDs {
		if err := q.AddEventTeam(ctx, dbgen.AddEventTeamParams{EventID: eventID, TeamID: teamID, Position: int64(i)}); err != nil {
			return fmt.Errorf("add event team %d: %w", teamID, err)
		}
	}
	return nil
}

func (s *service) create(ctx context.Context, in eventInput) (models.Event, error) {
	event, err := s.model(in)
	if err != nil {
		return models.Event{}, err
	}
	if err := s.validate(ctx, event); err != nil {
		return models.Event{}, err
	}

	var id int64
	err = s.db.RunInTx(ctx, func(tx *db.DB) error {
		_, err := slug.Claim(slug.Generate(event.Name), true, func(candidate string) error {
			var insertErr error
			id, insertErr = tx.Queries.CreateEvent(ctx, dbgen.CreateEventParams{
				Name:        event.Name,
				Slug:        candidate,
				Description: event.Description,
				ImageUrl:    event.ImageURL,
				Location:    event.Location,
				StartDate:   event.StartDate,
				EndDate:     event.EndDate,
				Status:      string(event.Status),
				SportID:     event.NullSportID(),
			})
			return insertErr
		}, db.IsUniqueViolation)
		if err != nil {
			return err
		}
		return replaceTeams(ctx, tx.Queries, id, event.TeamIDs)
	})
	if err != nil {
		if errors.Is(err, slug.ErrConflict) {
			return models.Event{}, apiutil.Conflict("An event with this name already exists")
		}
		if db.IsForeignKeyViolation(err) {
			return models.Event{}, apiutil.BadRequest("sport or team no longer exists")
		}
		return models.Event{}, fmt.Errorf("create event: %w", err)
	}
	return s.load(ctx, id)
}

func (s *service) update(ctx context.Context, id int64, patch eventPatch) (models.Event, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return models.Event{}, err
	}

	in := eventInput{
		Name:        current.Name,
		Description: current.Description,
		ImageURL:    current.ImageURL,
		Location:    current.Location,
		StartDate:   current.StartDate,
		EndDate:     current.EndDate,
		SportID:     current.SportID,
		TeamIDs:     current.TeamIDs,
	}
	if current.Status == models.EventCancelled {
		in.Status = string(models.EventCancelled)
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
	if patch.Location != nil {
		in.Location = *patch.Location
	}
	if patch.StartDate != nil {
		in.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		in.EndDate = *patch.EndDate
	}
	if patch.Status != nil {
		in.Status = *patch.Status
	}
	if patch.SportID != nil {
		in.SportID = patch.SportID
	}
	if patch.TeamIDs != nil {
		in.TeamIDs = *patch.TeamIDs
	}

	event, err := s.model(in)
	if err != nil {
		return models.Event{}, err
	}
	if err := s.validate(ctx, event); err != nil {
		return models.Event{}, err
	}

	renamed := event.Name != current.Name
	base := current.Slug
	if renamed {
		base = slug.Generate(event.Name)
	}
	var rows int64
	err = s.db.RunInTx(ctx, func(tx *db.DB) error {
		_, err := slug.Claim(base, renamed, func(candidate string) error {
			var updateErr error
			rows, updateErr = tx.Queries.UpdateEvent(ctx, dbgen.UpdateEventParams{
				Name:        event.Name,
				Slug:        candidate,
				Description: event.Description,
				ImageUrl:    event.ImageURL,
				Location:    event.Location,
				StartDate:   event.StartDate,
				EndDate:     event.EndDate,
				Status:      string(event.Status),
				SportID:     event.NullSportID(),
				ID:          id,
			})
			return updateErr
		}, db.IsUniqueViolation)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errEventNotFound
		}
		return replaceTeams(ctx, tx.Queries, id, event.TeamIDs)
	})
	if err != nil {
		if errors.Is(err, slug.ErrConflict) {
			return models.Event{}, apiutil.Conflict("Another event with this name already exists")
		}
		var handlerErr apiutil.HandlerError
		if errors.As(err, &handlerErr) {
			return models.Event{}, err
		}
		if db.IsForeignKeyViolation(err) {
			return models.Event{}, apiutil.BadRequest("sport or team no longer exists")
		}
		return models.Event{}, fmt.Errorf("update event: %w", err)
	}
	return s.load(ctx, id)
}

func (s *service) delete(ctx context.Context, id int64) error {
	rows, err := s.db.Queries.DeleteEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if rows == 0 {
		return errEventNotFound
	}
	return nil
}

func (s *service) load(ctx context.Context, id int64) (models.Event, error) {
	row, err := s.q.GetEventByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Event{}, errEventNotFound
		}
		return models.Event{}, fmt.Errorf("load event: %w", err)
	}
	list, err := s.populate(ctx, []dbgen.Event{row})
	if err != nil {
		return models.Event{}, err
	}
	return list[0], nil
}

// populate attaches team ids in their saved order plus sport and team
// references. Rows that vanished since the event was saved are skipped.
func (s *service) populate(ctx context.Context, rows []dbgen.Event) ([]models.Event, error) {
	teams := make(map[int64]*models.TeamRef)
	sports := make(map[int64]*models.SportRef)
	out := make([]models.Event, 0, len(rows))
	for _, row := range rows {
		teamIDs, err := s.q.ListEventTeamIDs(ctx, row.ID)
		if err != nil {
			return nil, fmt.Errorf("list teams of event %d: %w", row.ID, err)
		}
		event := models.EventFromDB(row, teamIDs)

		for _, teamID := range teamIDs {
			ref, ok := teams[teamID]
			if !ok {
				teamRow, err := s.q.GetTeamByID(ctx, teamID)
				if err != nil && !errors.Is(err, sql.ErrNoRows) {
					return nil, fmt.Errorf("load team %d: %w", teamID, err)
				}
				if err == nil {
					ref = models.TeamFromDB(teamRow).Ref()
				}
				teams[teamID] = ref
			}
			if ref != nil {
				event.Teams = append(event.Teams, *ref)
			}
		}

		if event.SportID != nil {
			ref, ok := sports[*event.SportID]
			if !ok {
				sportRow, err := s.q.GetSportByID(ctx, *event.SportID)
				if err != nil && !errors.Is(err, sql.ErrNoRows) {
					return nil, fmt.Errorf("load sport %d: %w", *event.SportID, err)
				}
				if err == nil {
					ref = &models.SportRef{ID: sportRow.ID, Name: sportRow.Name, Slug: sportRow.Slug}
				}
				sports[*event.SportID] = ref
			}
			event.Sport = ref
		}
		out = append(out, event)
	}
	return out, nil
}

type eventFilter struct {
	ID      *int64
	Slug    string
	Status  string
	SportID *int64
	TeamID  *int64
	// StartsAfter keeps events starting at or after the time.
	StartsAfter *time.Time
	// Sort names the ordering column; empty lists newest start first.
	Sort eventSort
	// A zero Limit returns every match.
	Limit  int64
	Offset int64
}

type eventSort string

const (
	sortStartDate eventSort = "startDate"
	sortEndDate   eventSort = "endDate"
	sortName      eventSort = "name"
	sortCreatedAt eventSort = "createdAt"
)

// parseEventSort accepts the public sort keys. startDate sorts ascending,
// the others descending.
func parseEventSort(raw string) (eventSort, error) {
	switch sort := eventSort(strings.TrimSpace(raw)); sort {
	case "":
		return sortStartDate, nil
	case sortStartDate, sortEndDate, sortName, sortCreatedAt:
		return sort, nil
	default:
		return "", apiutil.BadRequest("sort must be one of startDate, endDate, name, createdAt")
	}
}

func (f eventFilter) matches(e models.Event) bool {
	if f.ID != nil && e.ID != *f.ID {
		return false
	}
	if f.Slug != "" && e.Slug != f.Slug {
		return false
	}
	return true
}

func (f eventFilter) params() (dbgen.ListEventsParams, dbgen.CountEventsParams) {
	var startsAfter sql.NullTime
	if f.StartsAfter != nil {
		startsAfter = sql.NullTime{Time: f.StartsAfter.UTC(), Valid: true}
	}
	limit := f.Limit
	if limit <= 0 {
		// SQLite treats a negative LIMIT as no limit.
		limit = -1
	}
	status := apiutil.ToNullString(f.Status)
	return dbgen.ListEventsParams{
			Status:      status,
			SportID:     apiutil.ToNullInt64(f.SportID),
			TeamID:      apiutil.ToNullInt64(f.TeamID),
			StartsAfter: startsAfter,
			SortBy:      string(f.Sort),
			Limit:       limit,
			Offset:      f.Offset,
		}, dbgen.CountEventsParams{
			Status:      status,
			SportID:     apiutil.ToNullInt64(f.SportID),
			TeamID:      apiutil.ToNullInt64(f.TeamID),
			StartsAfter: startsAfter,
		}
}

func (s *service) find(ctx context.Context, f eventFilter) ([]models.Event, error) {
	var rows []dbgen.Event
	if f.ID != nil || f.Slug != "" {
		var (
			row dbgen.Event
			err error
		)
		if f.ID != nil {
			row, err = s.q.GetEventByID(ctx, *f.ID)
		} else {
			row, err = s.q.GetEventBySlug(ctx, f.Slug)
		}
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return []models.Event{}, nil
			}
			return nil, err
		}
		rows = []dbgen.Event{row}
	} else {
		listParams, _ := f.params()
		var err error
		if rows, err = s.q.ListEvents(ctx, listParams); err != nil {
			return nil, err
		}
	}

	list, err := s.populate(ctx, rows)
	if err != nil {
		return nil, err
	}
	filtered := list[:0]
	for _, e := range list {
		if f.matches(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (s *service) count(ctx context.Context, f eventFilter) (int64, error) {
	_, countParams := f.params()
	return s.q.CountEvents(ctx, countParams)
}

// page lists one page of events and fills in the total.
func (s *service) page(ctx context.Context, f eventFilter, page apiutil.Page) ([]models.Event, apiutil.Page, error) {
	f.Limit = page.Limit
	f.Offset = page.Offset()
	list, err := s.find(ctx, f)
	if err != nil {
		return nil, page, err
	}
	total, err := s.count(ctx, f)
	if err != nil {
		return nil, page, err
	}
	return list, page.WithTotal(total), nil
}

// formChoices lists the sports and teams offered by the admin form.
func (s *service) formChoices(ctx context.Context) ([]models.Sport, []models.Team, error) {
	sportRows, err := s.q.ListSports(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list sports: %w", err)
	}
	sports, err := models.SportsFromDB(sportRows)
	if err != nil {
		return nil, nil, err
	}
	teamRows, err := s.q.ListTeams(ctx, sql.NullInt64{})
	if err != nil {
		return nil, nil, fmt.Errorf("list teams: %w", err)
	}
	return sports, models.TeamsFromDB(teamRows), nil
}

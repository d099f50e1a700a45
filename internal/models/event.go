// internal/models/event.go
package models

import (
	"database/sql"
	"fmt"
	"time"

	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
)

type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventUpcoming, EventOngoing, EventCompleted, EventCancelled:
		return true
	}
	return false
}

// DeriveEventStatus places an event on the timeline relative to now. Both
// bounds are inclusive for ongoing.
func DeriveEventStatus(start, end, now time.Time) EventStatus {
	switch {
	case start.After(now):
		return EventUpcoming
	case end.Before(now):
		return EventCompleted
	default:
		return EventOngoing
	}
}

type Event struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"`
	ImageURL    string      `json:"imageUrl"`
	Location    string      `json:"location"`
	StartDate   time.Time   `json:"startDate"`
	EndDate     time.Time   `json:"endDate"`
	Status      EventStatus `json:"status"`
	SportID     *int64      `json:"sportId,omitempty"`
	Sport       *SportRef   `json:"sport,omitempty"`
	TeamIDs     []int64     `json:"teamIds"`
	Teams       []TeamRef   `json:"teams,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (e Event) Validate() error {
	if err := validateName("name", e.Name); err != nil {
		return err
	}
	if e.StartDate.IsZero() {
		return fmt.Errorf("startDate is required")
	}
	if e.EndDate.IsZero() {
		return fmt.Errorf("endDate is required")
	}
	if e.EndDate.Before(e.StartDate) {
		return fmt.Errorf("end date cannot be before start date")
	}
	if !e.Status.Valid() {
		return fmt.Errorf("status must be one of upcoming, ongoing, completed, cancelled")
	}
	return nil
}

func (e Event) NullSportID() sql.NullInt64 {
	if e.SportID == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *e.SportID, Valid: true}
}

func EventFromDB(row dbgen.Event, teamIDs []int64) Event {
	var sportID *int64
	if row.SportID.Valid {
		id := row.SportID.Int64
		sportID = &id
	}
	if teamIDs == nil {
		teamIDs = []int64{}
	}
	return Event{
		ID:          row.ID,
		Name:        row.Name,
		Slug:        row.Slug,
		Description: row.Description,
		ImageURL:    row.ImageUrl,
		Location:    row.Location,
		StartDate:   row.StartDate.UTC(),
		EndDate:     row.EndDate.UTC(),
		Status:      EventStatus(row.Status),
		SportID:     sportID,
		TeamIDs:     teamIDs,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

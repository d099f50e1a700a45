// internal/models/player.go
package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/formconfig"
)

const maxPlayerAge = 120

type Player struct {
	ID               int64               `json:"id"`
	Name             string              `json:"name"`
	Slug             string              `json:"slug"`
	Description      string              `json:"description"`
	Age              int64               `json:"age"`
	ImageURL         string              `json:"imageUrl"`
	Contact          string              `json:"contact"`
	TeamID           int64               `json:"teamId"`
	SportID          int64               `json:"sportId"`
	Team             *TeamRef            `json:"team,omitempty"`
	Sport            *SportRef           `json:"sport,omitempty"`
	AdditionalFields map[string]any      `json:"additionalFields"`
	Fields           formconfig.Snapshot `json:"-"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

func (p Player) Validate() error {
	if err := validateName("name", p.Name); err != nil {
		return err
	}
	if p.Age < 0 || p.Age > maxPlayerAge {
		return fmt.Errorf("age must be between 0 and %d", maxPlayerAge)
	}
	if strings.TrimSpace(p.Contact) == "" {
		return fmt.Errorf("contact is required")
	}
	if p.TeamID <= 0 {
		return fmt.Errorf("team is required")
	}
	if p.SportID <= 0 {
		return fmt.Errorf("sport is required")
	}
	return nil
}

func PlayerFromDB(row dbgen.Player) (Player, error) {
	snapshot, err := formconfig.ParseSnapshot([]byte(row.FieldValues))
	if err != nil {
		return Player{}, fmt.Errorf("player %d: %w", row.ID, err)
	}
	return Player{
		ID:               row.ID,
		Name:             row.Name,
		Slug:             row.Slug,
		Description:      row.Description,
		Age:              row.Age,
		ImageURL:         row.ImageUrl,
		Contact:          row.Contact,
		TeamID:           row.TeamID,
		SportID:          row.SportID,
		AdditionalFields: snapshot.AdditionalFields(),
		Fields:           snapshot,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}, nil
}

func PlayersFromDB(rows []dbgen.Player) ([]Player, error) {
	results := make([]Player, 0, len(rows))
	for _, row := range rows {
		player, err := PlayerFromDB(row)
		if err != nil {
			return nil, err
		}
		results = append(results, player)
	}
	return results, nil
}

// NormalizeContact lowercases email addresses and formats phone numbers as
// E.164 using defaultRegion for numbers without a country code. Anything
// else is returned trimmed.
func NormalizeContact(contact, defaultRegion string) string {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return ""
	}
	if strings.Contains(contact, "@") {
		if addr, err := mail.ParseAddress(contact); err == nil {
			return strings.ToLower(addr.Address)
		}
		return contact
	}
	num, err := phonenumbers.Parse(contact, strings.ToUpper(defaultRegion))
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return contact
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Pallinder/go-randomdata"

	"github.com/codr1/Clubhouse/internal/db"
	dbgen "github.com/codr1/Clubhouse/internal/db/generated"
	"github.com/codr1/Clubhouse/internal/formconfig"
	"github.com/codr1/Clubhouse/internal/models"
	"github.com/codr1/Clubhouse/internal/slug"
)

// Range is an inclusive count range.
type Range struct {
	Min, Max int
}

func (r Range) pick(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

type Counts struct {
	Sports         Range
	TeamsPerSport  Range
	PlayersPerTeam Range
	Events         Range
	Blogs          Range
}

func DefaultCounts() Counts {
	return Counts{
		Sports:         Range{1, 10},
		TeamsPerSport:  Range{1, 10},
		PlayersPerTeam: Range{1, 30},
		Events:         Range{0, 50},
		Blogs:          Range{0, 50},
	}
}

// Summary reports how many rows each table received.
type Summary struct {
	Sports, Teams, Players, Events, Blogs int
}

var sportNames = []string{
	"Football", "Basketball", "Cricket", "Rugby", "Hockey",
	"Netball", "Tennis", "Volleyball", "Baseball", "Athletics",
	"Badminton", "Squash", "Lacrosse", "Handball",
}

var (
	positions  = []string{"Goalkeeper", "Defender", "Midfielder", "Forward", "Utility"}
	kitSizes   = []string{"XS", "S", "M", "L", "XL"}
	trainDays  = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Saturday"}
	blogTags   = []string{"news", "results", "fixtures", "juniors", "seniors", "social", "training"}
	teamSuffix = []string{"Firsts", "Reserves", "Colts", "Vets", "Ladies", "Juniors", "Academy"}
)

type seeder struct {
	q      *dbgen.Queries
	rng    *rand.Rand
	counts Counts
	now    time.Time
}

// Seed fills an empty database with sample clubs data. Player answers are
// generated from each sport's fields so they decode cleanly.
func Seed(ctx context.Context, database *db.DB, counts Counts, seed int64, now time.Time) (Summary, error) {
	rng := rand.New(rand.NewSource(seed))
	randomdata.CustomRand(rng)

	var summary Summary
	err := database.RunInTx(ctx, func(tx *db.DB) error {
		s := &seeder{q: tx.Queries, rng: rng, counts: counts, now: now.UTC()}
		var err error
		summary, err = s.run(ctx)
		return err
	})
	return summary, err
}

func (s *seeder) run(ctx context.Context) (Summary, error) {
	var summary Summary

	names := append([]string(nil), sportNames...)
	s.rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	sportCount := min(s.counts.Sports.pick(s.rng), len(names))

	var sportIDs []int64
	var teamIDs []int64
	for _, name := range names[:sportCount] {
		cfg := s.formConfig()
		sportID, err := s.createSport(ctx, name, cfg)
		if err != nil {
			return summary, err
		}
		summary.Sports++
		sportIDs = append(sportIDs, sportID)

		for i := 0; i < s.counts.TeamsPerSport.pick(s.rng); i++ {
			teamID, err := s.createTeam(ctx, name, sportID)
			if err != nil {
				return summary, err
			}
			summary.Teams++
			teamIDs = append(teamIDs, teamID)

			for j := 0; j < s.counts.PlayersPerTeam.pick(s.rng); j++ {
				if err := s.createPlayer(ctx, cfg, teamID, sportID); err != nil {
					return summary, err
				}
				summary.Players++
			}
		}
	}

	for i := 0; i < s.counts.Events.pick(s.rng); i++ {
		if err := s.createEvent(ctx, sportIDs, teamIDs); err != nil {
			return summary, err
		}
		summary.Events++
	}

	for i := 0; i < s.counts.Blogs.pick(s.rng); i++ {
		if err := s.createBlog(ctx); err != nil {
			return summary, err
		}
		summary.Blogs++
	}

	return summary, nil
}

func (s *seeder) formConfig() formconfig.Config {
	candidates := formconfig.Config{
		{ID: "position", Type: formconfig.TypeSelect, Label: "Position", Required: true, Options: positions},
		{ID: "shirt_number", Type: formconfig.TypeNumber, Label: "Shirt Number", Required: true},
		{ID: "kit_size", Type: formconfig.TypeRadio, Label: "Kit Size", Options: kitSizes},
		{ID: "training_days", Type: formconfig.TypeCheckbox, Label: "Training Days", Options: trainDays},
		{ID: "date_joined", Type: formconfig.TypeDate, Label: "Date Joined"},
		{ID: "emergency_contact", Type: formconfig.TypeText, Label: "Emergency Contact", Placeholder: "Name and number"},
		{ID: "medical_notes", Type: formconfig.TypeTextarea, Label: "Medical Notes"},
	}
	s.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	return candidates[:1+s.rng.Intn(4)]
}

// answers builds a submission that satisfies cfg.
func (s *seeder) answers(cfg formconfig.Config) formconfig.Submission {
	sub := make(formconfig.Submission, len(cfg))
	for _, field := range cfg {
		if !field.Required && s.rng.Intn(4) == 0 {
			continue
		}
		switch field.Type {
		case formconfig.TypeText:
			sub[field.ID] = randomdata.FullName(randomdata.RandomGender) + " " + randomdata.PhoneNumber()
		case formconfig.TypeTextarea:
			sub[field.ID] = randomdata.Paragraph()
		case formconfig.TypeNumber:
			sub[field.ID] = float64(randomdata.Number(1, 99))
		case formconfig.TypeSelect, formconfig.TypeRadio:
			sub[field.ID] = field.Options[s.rng.Intn(len(field.Options))]
		case formconfig.TypeCheckbox:
			var picked []string
			for _, option := range field.Options {
				if randomdata.Boolean() {
					picked = append(picked, option)
				}
			}
			if len(picked) == 0 {
				picked = field.Options[:1]
			}
			sub[field.ID] = picked
		case formconfig.TypeDate:
			joined := s.now.AddDate(0, 0, -randomdata.Number(1, 3650))
			sub[field.ID] = joined.Format(formconfig.DateLayout)
		}
	}
	return sub
}

func (s *seeder) createSport(ctx context.Context, name string, cfg formconfig.Config) (int64, error) {
	encoded, err := cfg.Marshal()
	if err != nil {
		return 0, err
	}
	var id int64
	_, err = claimSlug(name, func(candidate string) error {
		var err error
		id, err = s.q.CreateSport(ctx, dbgen.CreateSportParams{
			Name:        name,
			Slug:        candidate,
			Description: fmt.Sprintf("%s at the club, from juniors to veterans.", name),
			FormConfig:  encoded,
		})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("seed sport %s: %w", name, err)
	}
	return id, nil
}

func (s *seeder) createTeam(ctx context.Context, sport string, sportID int64) (int64, error) {
	name := fmt.Sprintf("%s %s %s", randomdata.City(), sport, teamSuffix[s.rng.Intn(len(teamSuffix))])
	var id int64
	_, err := claimSlug(name, func(candidate string) error {
		var err error
		id, err = s.q.CreateTeam(ctx, dbgen.CreateTeamParams{
			Name:        name,
			Slug:        candidate,
			Description: randomdata.Paragraph(),
			Coach:       randomdata.FullName(randomdata.RandomGender),
			SportID:     sportID,
		})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("seed team %s: %w", name, err)
	}
	return id, nil
}

func (s *seeder) createPlayer(ctx context.Context, cfg formconfig.Config, teamID, sportID int64) error {
	snapshot, err := cfg.Decode(s.answers(cfg))
	if err != nil {
		return fmt.Errorf("seed player answers: %w", err)
	}
	if snapshot == nil {
		snapshot = formconfig.Snapshot{}
	}
	values, err := snapshot.Marshal()
	if err != nil {
		return err
	}

	name := randomdata.FullName(randomdata.RandomGender)
	_, err = claimSlug(name, func(candidate string) error {
		_, err := s.q.CreatePlayer(ctx, dbgen.CreatePlayerParams{
			Name:        name,
			Slug:        candidate,
			Description: randomdata.Paragraph(),
			Age:         int64(randomdata.Number(8, 60)),
			Contact:     randomdata.Email(),
			TeamID:      teamID,
			SportID:     sportID,
			FieldValues: values,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("seed player %s: %w", name, err)
	}
	return nil
}

func (s *seeder) createEvent(ctx context.Context, sportIDs, teamIDs []int64) error {
	start := s.now.Add(time.Duration(randomdata.Number(-60*24, 90*24)) * time.Hour).Truncate(time.Hour)
	end := start.Add(time.Duration(randomdata.Number(1, 8)) * time.Hour)
	status := models.DeriveEventStatus(start, end, s.now)
	if status == models.EventUpcoming && s.rng.Intn(10) == 0 {
		status = models.EventCancelled
	}

	var sportID sql.NullInt64
	if len(sportIDs) > 0 && randomdata.Boolean() {
		sportID = sql.NullInt64{Int64: sportIDs[s.rng.Intn(len(sportIDs))], Valid: true}
	}

	name := fmt.Sprintf("%s %s", capitalize(randomdata.Adjective()), eventKinds[s.rng.Intn(len(eventKinds))])
	var id int64
	_, err := claimSlug(name, func(candidate string) error {
		var err error
		id, err = s.q.CreateEvent(ctx, dbgen.CreateEventParams{
			Name:        name,
			Slug:        candidate,
			Description: randomdata.Paragraph(),
			Location:    fmt.Sprintf("%s, %s", randomdata.Street(), randomdata.City()),
			StartDate:   start,
			EndDate:     end,
			Status:      string(status),
			SportID:     sportID,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("seed event %s: %w", name, err)
	}

	if len(teamIDs) == 0 {
		return nil
	}
	picked := s.rng.Perm(len(teamIDs))[:min(len(teamIDs), s.rng.Intn(3))]
	for position, idx := range picked {
		if err := s.q.AddEventTeam(ctx, dbgen.AddEventTeamParams{
			EventID:  id,
			TeamID:   teamIDs[idx],
			Position: int64(position),
		}); err != nil {
			return fmt.Errorf("seed event teams: %w", err)
		}
	}
	return nil
}

var eventKinds = []string{"Cup Final", "Open Day", "Tournament", "Awards Night", "Fun Run", "Trials", "Derby"}

func (s *seeder) createBlog(ctx context.Context) error {
	title := fmt.Sprintf("%s %s %s", capitalize(randomdata.Adjective()), capitalize(randomdata.Noun()), randomdata.City())

	var tags []string
	for i := 0; i < s.rng.Intn(4); i++ {
		tags = append(tags, blogTags[s.rng.Intn(len(blogTags))])
	}
	encodedTags, err := models.EncodeTags(models.NormalizeTags(tags))
	if err != nil {
		return err
	}
	status := models.BlogPublished
	if s.rng.Intn(5) == 0 {
		status = models.BlogDraft
	}
	content := strings.Join([]string{randomdata.Paragraph(), randomdata.Paragraph(), randomdata.Paragraph()}, "\n\n")

	_, err = claimSlug(title, func(candidate string) error {
		_, err := s.q.CreateBlog(ctx, dbgen.CreateBlogParams{
			Title:   title,
			Slug:    candidate,
			Content: content,
			Tags:    encodedTags,
			Status:  string(status),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("seed blog %s: %w", title, err)
	}
	return nil
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

func claimSlug(name string, insert func(candidate string) error) (string, error) {
	return slug.Claim(slug.Generate(name), true, insert, db.IsUniqueViolation)
}

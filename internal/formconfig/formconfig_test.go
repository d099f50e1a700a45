package formconfig

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"A, B, C", []string{"A", "B", "C"}},
		{" Goalkeeper ,Defender,, Forward ,", []string{"Goalkeeper", "Defender", "Forward"}},
		{"   ", nil},
		{"", nil},
		{"Right-handed", []string{"Right-handed"}},
	}
	for _, tt := range tests {
		got := ParseOptions(tt.raw)
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("ParseOptions(%q) = %#v, want %#v", tt.raw, got, tt.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		{ID: "position", Type: TypeSelect, Label: "Position", Required: true, Options: []string{"Guard", "Center"}},
		{ID: "height", Type: TypeText, Label: "Height"},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	missingOptions := Config{{ID: "hand", Type: TypeRadio, Label: "Playing Hand"}}
	if err := missingOptions.Validate(); !errors.Is(err, ErrOptionsRequired) {
		t.Fatalf("expected ErrOptionsRequired, got %v", err)
	}

	missingLabel := Config{{ID: "x", Type: TypeText, Label: "  "}}
	if err := missingLabel.Validate(); !errors.Is(err, ErrLabelRequired) {
		t.Fatalf("expected ErrLabelRequired, got %v", err)
	}

	unknownType := Config{{ID: "x", Type: "email", Label: "Email"}}
	if err := unknownType.Validate(); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}

	duplicate := Config{
		{ID: "x", Type: TypeText, Label: "One"},
		{ID: "x", Type: TypeText, Label: "Two"},
	}
	if err := duplicate.Validate(); err == nil || !strings.Contains(err.Error(), "duplicate id") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}

	sameLabel := Config{
		{ID: "a", Type: TypeText, Label: "Position"},
		{ID: "b", Type: TypeText, Label: " position "},
	}
	if err := sameLabel.Validate(); !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("expected ErrDuplicateLabel, got %v", err)
	}
}

func TestBuilderRejectsDuplicateLabels(t *testing.T) {
	b := NewBuilder(clockwork.NewFakeClock(), Config{
		{ID: "a", Type: TypeText, Label: "Position"},
		{ID: "b", Type: TypeText, Label: "Nickname"},
	})

	if _, err := b.Add(Draft{Type: TypeText, Label: "  POSITION "}, ""); !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("expected duplicate label on add, got %v", err)
	}
	if b.Len() != 2 {
		t.Fatalf("expected rejected field to stay out, got %d fields", b.Len())
	}

	label := "position"
	if err := b.Update("b", Patch{Label: &label}); !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("expected duplicate label on update, got %v", err)
	}
	if field, _ := b.Fields().Field("b"); field.Label != "Nickname" {
		t.Fatalf("expected label unchanged, got %q", field.Label)
	}

	// Re-casing a field's own label is not a conflict.
	label = "POSITION"
	if err := b.Update("a", Patch{Label: &label}); err != nil {
		t.Fatalf("update own label: %v", err)
	}
}

func TestBuilderAddValidatesDraft(t *testing.T) {
	b := NewBuilder(clockwork.NewFakeClock(), nil)

	if _, err := b.Add(Draft{Type: TypeText}, ""); !errors.Is(err, ErrLabelRequired) {
		t.Fatalf("expected label error, got %v", err)
	}
	if _, err := b.Add(Draft{Type: TypeSelect, Label: "Position"}, " , "); !errors.Is(err, ErrOptionsRequired) {
		t.Fatalf("expected options error, got %v", err)
	}

	field, err := b.Add(Draft{Type: TypeCheckbox, Label: " Skills ", Required: true}, "Passing, Shooting ,Defense")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if field.Label != "Skills" {
		t.Fatalf("expected trimmed label, got %q", field.Label)
	}
	if !reflect.DeepEqual(field.Options, []string{"Passing", "Shooting", "Defense"}) {
		t.Fatalf("unexpected options: %#v", field.Options)
	}

	text, err := b.Add(Draft{Type: TypeText, Label: "Nickname"}, "ignored, values")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if text.Options != nil {
		t.Fatalf("expected no options for text field, got %#v", text.Options)
	}
	if err := b.Fields().Validate(); err != nil {
		t.Fatalf("builder produced invalid config: %v", err)
	}
}

func TestBuilderGeneratesUniqueIDsFromClock(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.UnixMilli(1744921682998))
	b := NewBuilder(clock, nil)

	ids := map[string]bool{}
	for i := 0; i < 3; i++ {
		field, err := b.Add(Draft{Type: TypeText, Label: fmt.Sprintf("Field %d", i+1)}, "")
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if ids[field.ID] {
			t.Fatalf("duplicate id %s", field.ID)
		}
		ids[field.ID] = true
	}
	if !ids["1744921682998"] || !ids["1744921682999"] || !ids["1744921683000"] {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestBuilderMoveUpThenDownRestoresOrder(t *testing.T) {
	b := NewBuilder(clockwork.NewFakeClock(), Config{
		{ID: "a", Type: TypeText, Label: "A"},
		{ID: "b", Type: TypeText, Label: "B"},
		{ID: "c", Type: TypeText, Label: "C"},
	})
	original := b.Fields()

	if !b.Move("b", Up) {
		t.Fatalf("expected move up to succeed")
	}
	if got := ids(b.Fields()); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Fatalf("unexpected order after up: %v", got)
	}
	if !b.Move("b", Down) {
		t.Fatalf("expected move down to succeed")
	}
	if !reflect.DeepEqual(b.Fields(), original) {
		t.Fatalf("expected original order, got %v", ids(b.Fields()))
	}
}

func TestBuilderMoveAtEdgesIsNoop(t *testing.T) {
	b := NewBuilder(clockwork.NewFakeClock(), Config{
		{ID: "a", Type: TypeText, Label: "A"},
		{ID: "b", Type: TypeText, Label: "B"},
	})
	if b.Move("a", Up) {
		t.Fatalf("moving first field up should be a no-op")
	}
	if b.Move("b", Down) {
		t.Fatalf("moving last field down should be a no-op")
	}
	if b.Move("missing", Up) {
		t.Fatalf("moving unknown field should fail")
	}
	if got := ids(b.Fields()); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("order changed: %v", got)
	}
}

func TestBuilderRemoveUpdateClear(t *testing.T) {
	b := NewBuilder(clockwork.NewFakeClock(), Config{
		{ID: "a", Type: TypeSelect, Label: "A", Options: []string{"x"}},
		{ID: "b", Type: TypeText, Label: "B"},
	})

	label := "Renamed"
	options := "one, two"
	required := true
	if err := b.Update("a", Patch{Label: &label, Options: &options, Required: &required}); err != nil {
		t.Fatalf("update: %v", err)
	}
	field, _ := b.Fields().Field("a")
	if field.Label != "Renamed" || !field.Required || !reflect.DeepEqual(field.Options, []string{"one", "two"}) {
		t.Fatalf("unexpected updated field: %+v", field)
	}

	empty := " "
	if err := b.Update("a", Patch{Label: &empty}); !errors.Is(err, ErrLabelRequired) {
		t.Fatalf("expected label error, got %v", err)
	}
	if err := b.Update("zzz", Patch{}); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if !b.Remove("b") || b.Remove("b") {
		t.Fatalf("expected single successful removal")
	}
	if b.Len() != 1 {
		t.Fatalf("expected one field, got %d", b.Len())
	}
	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("expected empty builder after clear")
	}
}

func TestDecodeRequiredFieldBlocksSubmission(t *testing.T) {
	cfg := Config{
		{ID: "jerseyNumber", Type: TypeNumber, Label: "Jersey Number", Required: true},
		{ID: "nickname", Type: TypeText, Label: "Nickname"},
	}
	for _, sub := range []Submission{
		{},
		{"jerseyNumber": ""},
		{"jerseyNumber": "   "},
		{"jerseyNumber": nil},
	} {
		_, err := cfg.Decode(sub)
		var fieldErrs FieldErrors
		if !errors.As(err, &fieldErrs) {
			t.Fatalf("expected FieldErrors for %v, got %v", sub, err)
		}
		if len(fieldErrs) != 1 || fieldErrs[0].Message != "Jersey Number is required" {
			t.Fatalf("unexpected errors: %+v", fieldErrs)
		}
		if fieldErrs.ByID()["jerseyNumber"] != "Jersey Number is required" {
			t.Fatalf("expected error keyed by id: %v", fieldErrs.ByID())
		}
	}
}

func TestDecodeRequiredForEveryType(t *testing.T) {
	cfg := Config{
		{ID: "t", Type: TypeText, Label: "Text", Required: true},
		{ID: "ta", Type: TypeTextarea, Label: "Bio", Required: true},
		{ID: "n", Type: TypeNumber, Label: "Number", Required: true},
		{ID: "s", Type: TypeSelect, Label: "Position", Required: true, Options: []string{"A"}},
		{ID: "c", Type: TypeCheckbox, Label: "Skills", Required: true, Options: []string{"A"}},
		{ID: "r", Type: TypeRadio, Label: "Hand", Required: true, Options: []string{"A"}},
		{ID: "d", Type: TypeDate, Label: "Joined", Required: true},
	}
	_, err := cfg.Decode(Submission{"c": []string{}})
	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if len(fieldErrs) != len(cfg) {
		t.Fatalf("expected %d errors, got %d", len(cfg), len(fieldErrs))
	}
	for i, fe := range fieldErrs {
		want := cfg[i].Label + " is required"
		if fe.Message != want {
			t.Fatalf("error %d: got %q, want %q", i, fe.Message, want)
		}
	}
}

func TestDecodeFootballScenario(t *testing.T) {
	cfg := Config{{ID: "jerseyNumber", Type: TypeNumber, Label: "Jersey Number", Required: true}}

	if _, err := cfg.Decode(Submission{}); err == nil {
		t.Fatalf("expected submission without jersey number to be rejected")
	}

	snapshot, err := cfg.Decode(Submission{"jerseyNumber": float64(10)})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{"Jersey Number": float64(10)}
	if got := snapshot.AdditionalFields(); !reflect.DeepEqual(got, want) {
		t.Fatalf("additionalFields = %#v, want %#v", got, want)
	}
	fv, ok := snapshot.Get("jerseyNumber")
	if !ok || fv.Label != "Jersey Number" {
		t.Fatalf("expected stored value keyed by id with label, got %+v", fv)
	}
}

func TestDecodeLabelKeyedSubmissionStoresExactly(t *testing.T) {
	cfg := Config{
		{ID: "1744921682998", Type: TypeNumber, Label: "jerseyNumber", Required: true},
		{ID: "1744921682999", Type: TypeText, Label: "position"},
	}
	sub, err := SubmissionFromJSON(map[string]any{"jerseyNumber": float64(7), "position": "Forward"}, cfg)
	if err != nil {
		t.Fatalf("submission: %v", err)
	}
	snapshot, err := cfg.Decode(sub)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{"jerseyNumber": float64(7), "position": "Forward"}
	if got := snapshot.AdditionalFields(); !reflect.DeepEqual(got, want) {
		t.Fatalf("additionalFields = %#v, want %#v", got, want)
	}
}

func TestSubmissionFromJSONRejectsUnknownKeys(t *testing.T) {
	cfg := Config{{ID: "position", Type: TypeText, Label: "Position"}}
	if _, err := SubmissionFromJSON(map[string]any{"shoeSize": 44}, cfg); err == nil || !strings.Contains(err.Error(), "shoeSize") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestSubmissionFromJSONRejectsFieldGivenTwice(t *testing.T) {
	cfg := Config{{ID: "1744921682998", Type: TypeText, Label: "Position"}}
	raw := map[string]any{"1744921682998": "Forward", "position": "Goalkeeper"}
	_, err := SubmissionFromJSON(raw, cfg)
	if err == nil || !strings.Contains(err.Error(), `"Position" given twice`) {
		t.Fatalf("expected given twice error, got %v", err)
	}
}

func TestDecodeTypedValues(t *testing.T) {
	cfg := Config{
		{ID: "position", Type: TypeSelect, Label: "Position", Options: []string{"Goalkeeper", "Forward"}},
		{ID: "hand", Type: TypeRadio, Label: "Playing Hand", Options: []string{"Right-handed", "Left-handed"}},
		{ID: "skills", Type: TypeCheckbox, Label: "Skills", Options: []string{"Passing", "Shooting", "Defense"}},
		{ID: "joined", Type: TypeDate, Label: "Joined"},
		{ID: "height", Type: TypeNumber, Label: "Height"},
		{ID: "bio", Type: TypeTextarea, Label: "Bio"},
	}
	form := url.Values{
		InputName("position"): {"Forward"},
		InputName("hand"):     {"Left-handed"},
		InputName("skills"):   {"Defense", "Passing"},
		InputName("joined"):   {"2024-03-01"},
		InputName("height"):   {"1.85"},
		InputName("bio"):      {"  "},
		"unrelated":           {"x"},
	}
	snapshot, err := cfg.Decode(SubmissionFromForm(form, cfg))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	got := snapshot.AdditionalFields()
	want := map[string]any{
		"Position":     "Forward",
		"Playing Hand": "Left-handed",
		"Skills":       []string{"Passing", "Defense"},
		"Joined":       "2024-03-01",
		"Height":       1.85,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("additionalFields = %#v, want %#v", got, want)
	}
	if len(snapshot) != 5 {
		t.Fatalf("expected empty optional bio to be omitted, got %d values", len(snapshot))
	}
}

func TestDecodeRejectsInvalidValues(t *testing.T) {
	cfg := Config{
		{ID: "position", Type: TypeSelect, Label: "Position", Options: []string{"Goalkeeper"}},
		{ID: "skills", Type: TypeCheckbox, Label: "Skills", Options: []string{"Passing"}},
		{ID: "joined", Type: TypeDate, Label: "Joined"},
		{ID: "age", Type: TypeNumber, Label: "Age"},
	}
	_, err := cfg.Decode(Submission{
		"position": "Striker",
		"skills":   []any{"Passing", "Juggling"},
		"joined":   "yesterday",
		"age":      "old",
	})
	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	messages := fieldErrs.ByID()
	expectations := map[string]string{
		"position": "Position must be one of: Goalkeeper",
		"skills":   "Skills has an invalid option: Juggling",
		"joined":   "Joined must be a valid date",
		"age":      "Age must be a number",
	}
	for id, want := range expectations {
		if messages[id] != want {
			t.Fatalf("%s: got %q, want %q", id, messages[id], want)
		}
	}
}

func TestSnapshotIsFrozenAgainstConfigEdits(t *testing.T) {
	cfg := Config{{ID: "pos", Type: TypeText, Label: "Position"}}
	snapshot, err := cfg.Decode(Submission{"pos": "Forward"})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	stored, err := snapshot.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	cfg[0].Label = "Preferred Position"

	loaded, err := ParseSnapshot([]byte(stored))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := loaded.AdditionalFields(); !reflect.DeepEqual(got, map[string]any{"Position": "Forward"}) {
		t.Fatalf("snapshot changed with config: %#v", got)
	}
	if got := loaded.FormValues()["pos"]; !reflect.DeepEqual(got, []string{"Forward"}) {
		t.Fatalf("unexpected form values: %#v", got)
	}
}

func TestParseConfigHandlesEmptyInput(t *testing.T) {
	for _, raw := range []string{"", "null", "  "} {
		cfg, err := ParseConfig([]byte(raw))
		if err != nil || len(cfg) != 0 {
			t.Fatalf("ParseConfig(%q) = %v, %v", raw, cfg, err)
		}
	}
	encoded, err := Config(nil).Marshal()
	if err != nil || encoded != "[]" {
		t.Fatalf("expected [] for nil config, got %q (%v)", encoded, err)
	}
}

func ids(cfg Config) []string {
	out := make([]string, len(cfg))
	for i, f := range cfg {
		out[i] = f.ID
	}
	return out
}

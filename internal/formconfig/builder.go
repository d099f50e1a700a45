package formconfig

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonboulle/clockwork"
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

var ErrFieldNotFound = errors.New("field not found")

// Draft is the in-progress descriptor the builder form collects before a
// field is added.
type Draft struct {
	Type        FieldType
	Label       string
	Placeholder string
	Required    bool
}

// Patch carries partial updates for an existing field. Nil members are left
// unchanged.
type Patch struct {
	Label       *string
	Placeholder *string
	Required    *bool
	Options     *string
}

// Builder edits a sport's field list. Ids come from the clock in unix
// milliseconds and are bumped until unique within the list.
type Builder struct {
	clock  clockwork.Clock
	fields Config
}

func NewBuilder(clock clockwork.Clock, initial Config) *Builder {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	fields := make(Config, len(initial))
	copy(fields, initial)
	return &Builder{clock: clock, fields: fields}
}

// Fields returns a copy of the current list.
func (b *Builder) Fields() Config {
	out := make(Config, len(b.fields))
	copy(out, b.fields)
	return out
}

func (b *Builder) Len() int {
	return len(b.fields)
}

// Add validates draft and appends it. Options are parsed from optionsInput
// only for option-bearing types.
func (b *Builder) Add(draft Draft, optionsInput string) (FieldDescriptor, error) {
	if draft.Type == "" {
		draft.Type = TypeText
	}
	if !draft.Type.Valid() {
		return FieldDescriptor{}, fmt.Errorf("%w: %q", ErrUnknownType, draft.Type)
	}
	label := strings.TrimSpace(draft.Label)
	if label == "" {
		return FieldDescriptor{}, ErrLabelRequired
	}
	if b.labelTaken(label, "") {
		return FieldDescriptor{}, fmt.Errorf("%w: %q", ErrDuplicateLabel, label)
	}

	field := FieldDescriptor{
		ID:          b.nextID(),
		Type:        draft.Type,
		Label:       label,
		Placeholder: strings.TrimSpace(draft.Placeholder),
		Required:    draft.Required,
	}
	if draft.Type.HasOptions() {
		field.Options = ParseOptions(optionsInput)
		if len(field.Options) == 0 {
			return FieldDescriptor{}, fmt.Errorf("%w for %s fields", ErrOptionsRequired, draft.Type)
		}
	}

	b.fields = append(b.fields, field)
	return field, nil
}

// Remove deletes the field with id and reports whether it existed.
func (b *Builder) Remove(id string) bool {
	idx := b.indexOf(id)
	if idx == -1 {
		return false
	}
	b.fields = append(b.fields[:idx], b.fields[idx+1:]...)
	return true
}

// Move swaps the field with its neighbour. Moving past either end is a no-op
// and reports false.
func (b *Builder) Move(id string, dir Direction) bool {
	idx := b.indexOf(id)
	if idx == -1 {
		return false
	}
	target := idx - 1
	if dir == Down {
		target = idx + 1
	}
	if target < 0 || target >= len(b.fields) {
		return false
	}
	b.fields[idx], b.fields[target] = b.fields[target], b.fields[idx]
	return true
}

func (b *Builder) Update(id string, patch Patch) error {
	idx := b.indexOf(id)
	if idx == -1 {
		return ErrFieldNotFound
	}
	field := b.fields[idx]
	if patch.Label != nil {
		label := strings.TrimSpace(*patch.Label)
		if label == "" {
			return ErrLabelRequired
		}
		if b.labelTaken(label, id) {
			return fmt.Errorf("%w: %q", ErrDuplicateLabel, label)
		}
		field.Label = label
	}
	if patch.Placeholder != nil {
		field.Placeholder = strings.TrimSpace(*patch.Placeholder)
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.Options != nil && field.Type.HasOptions() {
		options := ParseOptions(*patch.Options)
		if len(options) == 0 {
			return fmt.Errorf("%w for %s fields", ErrOptionsRequired, field.Type)
		}
		field.Options = options
	}
	b.fields[idx] = field
	return nil
}

func (b *Builder) Clear() {
	b.fields = Config{}
}

func (b *Builder) indexOf(id string) int {
	for i, field := range b.fields {
		if field.ID == id {
			return i
		}
	}
	return -1
}

// labelTaken reports whether a field other than exceptID already uses label.
func (b *Builder) labelTaken(label, exceptID string) bool {
	key := labelKey(label)
	for _, field := range b.fields {
		if field.ID != exceptID && labelKey(field.Label) == key {
			return true
		}
	}
	return false
}

func (b *Builder) nextID() string {
	candidate := b.clock.Now().UnixMilli()
	for {
		id := strconv.FormatInt(candidate, 10)
		if b.indexOf(id) == -1 {
			return id
		}
		candidate++
	}
}

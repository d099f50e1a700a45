// Package formconfig models the per-sport custom fields collected when a
// player of that sport is registered.
package formconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type FieldType string

const (
	TypeText     FieldType = "text"
	TypeTextarea FieldType = "textarea"
	TypeNumber   FieldType = "number"
	TypeSelect   FieldType = "select"
	TypeCheckbox FieldType = "checkbox"
	TypeRadio    FieldType = "radio"
	TypeDate     FieldType = "date"
)

// FieldTypes lists every supported type in the order the form builder offers them.
var FieldTypes = []FieldType{TypeText, TypeTextarea, TypeNumber, TypeSelect, TypeCheckbox, TypeRadio, TypeDate}

var (
	ErrLabelRequired   = errors.New("label is required")
	ErrIDRequired      = errors.New("id is required")
	ErrUnknownType     = errors.New("unknown field type")
	ErrOptionsRequired = errors.New("options are required")
	ErrDuplicateLabel  = errors.New("another field already uses this label")
)

func (t FieldType) Valid() bool {
	for _, known := range FieldTypes {
		if t == known {
			return true
		}
	}
	return false
}

// HasOptions reports whether values of this type are picked from Options.
func (t FieldType) HasOptions() bool {
	return t == TypeSelect || t == TypeCheckbox || t == TypeRadio
}

// DisplayName is the label shown in the form builder's type picker.
func (t FieldType) DisplayName() string {
	switch t {
	case TypeText:
		return "Text Input"
	case TypeTextarea:
		return "Text Area"
	case TypeNumber:
		return "Number Input"
	case TypeSelect:
		return "Select Dropdown"
	case TypeCheckbox:
		return "Checkbox Group"
	case TypeRadio:
		return "Radio Group"
	case TypeDate:
		return "Date Picker"
	default:
		return string(t)
	}
}

type FieldDescriptor struct {
	ID          string    `json:"id"`
	Type        FieldType `json:"type"`
	Label       string    `json:"label"`
	Placeholder string    `json:"placeholder,omitempty"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"`
}

func (d FieldDescriptor) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return ErrIDRequired
	}
	if strings.TrimSpace(d.Label) == "" {
		return ErrLabelRequired
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, d.Type)
	}
	if d.Type.HasOptions() && len(d.Options) == 0 {
		return fmt.Errorf("%w for %s fields", ErrOptionsRequired, d.Type)
	}
	return nil
}

// HasOption reports whether option is one of the descriptor's options.
func (d FieldDescriptor) HasOption(option string) bool {
	for _, o := range d.Options {
		if o == option {
			return true
		}
	}
	return false
}

// Config is a sport's ordered list of custom fields.
type Config []FieldDescriptor

// Validate checks each descriptor and that ids and labels are unique within
// the list. Labels key the stored answers, so they compare like FieldByLabel.
func (c Config) Validate() error {
	seen := make(map[string]struct{}, len(c))
	labels := make(map[string]struct{}, len(c))
	for i, field := range c {
		if err := field.Validate(); err != nil {
			return fmt.Errorf("field %d: %w", i+1, err)
		}
		if _, dup := seen[field.ID]; dup {
			return fmt.Errorf("field %d: duplicate id %q", i+1, field.ID)
		}
		seen[field.ID] = struct{}{}
		key := labelKey(field.Label)
		if _, dup := labels[key]; dup {
			return fmt.Errorf("field %d: %w: %q", i+1, ErrDuplicateLabel, field.Label)
		}
		labels[key] = struct{}{}
	}
	return nil
}

func labelKey(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

func (c Config) Field(id string) (FieldDescriptor, bool) {
	for _, field := range c {
		if field.ID == id {
			return field, true
		}
	}
	return FieldDescriptor{}, false
}

// FieldByLabel looks a descriptor up by its label, ignoring case and
// surrounding whitespace.
func (c Config) FieldByLabel(label string) (FieldDescriptor, bool) {
	key := labelKey(label)
	for _, field := range c {
		if labelKey(field.Label) == key {
			return field, true
		}
	}
	return FieldDescriptor{}, false
}

// Normalize trims labels, placeholders and options and drops options from
// types that do not use them.
func (c Config) Normalize() Config {
	out := make(Config, len(c))
	for i, field := range c {
		field.ID = strings.TrimSpace(field.ID)
		field.Label = strings.TrimSpace(field.Label)
		field.Placeholder = strings.TrimSpace(field.Placeholder)
		if field.Type.HasOptions() {
			field.Options = cleanOptions(field.Options)
		} else {
			field.Options = nil
		}
		out[i] = field
	}
	return out
}

// ParseConfig decodes a stored form configuration. Empty input yields an empty
// Config.
func ParseConfig(data []byte) (Config, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return Config{}, nil
	}
	var cfg Config
	if err := json.Unmarshal([]byte(trimmed), &cfg); err != nil {
		return nil, fmt.Errorf("decode form config: %w", err)
	}
	return cfg, nil
}

// Marshal encodes the configuration for storage. A nil Config encodes as [].
func (c Config) Marshal() (string, error) {
	if c == nil {
		c = Config{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode form config: %w", err)
	}
	return string(data), nil
}

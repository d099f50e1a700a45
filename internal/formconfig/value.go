package formconfig

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of date values.
const DateLayout = "2006-01-02"

type Kind string

const (
	KindText      Kind = "text"
	KindNumber    Kind = "number"
	KindOptionSet Kind = "options"
	KindDate      Kind = "date"
)

// Value is one typed answer to a custom field. Exactly one of the payloads is
// meaningful, selected by Kind.
type Value struct {
	kind    Kind
	text    string
	number  float64
	options []string
	date    time.Time
}

func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

func Number(n float64) Value {
	return Value{kind: KindNumber, number: n}
}

func OptionSet(options ...string) Value {
	out := make([]string, len(options))
	copy(out, options)
	return Value{kind: KindOptionSet, options: out}
}

func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{kind: KindDate, date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) Text() (string, bool) { return v.text, v.kind == KindText }

func (v Value) Number() (float64, bool) { return v.number, v.kind == KindNumber }

func (v Value) Options() ([]string, bool) {
	out := make([]string, len(v.options))
	copy(out, v.options)
	return out, v.kind == KindOptionSet
}

func (v Value) Date() (time.Time, bool) { return v.date, v.kind == KindDate }

// Plain converts the value to the loosely typed form exposed as a player's
// additionalFields: string, float64, []string or a YYYY-MM-DD string.
func (v Value) Plain() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return v.number
	case KindOptionSet:
		out := make([]string, len(v.options))
		copy(out, v.options)
		return out
	case KindDate:
		return v.date.Format(DateLayout)
	default:
		return nil
	}
}

// Strings renders the value the way HTML form controls carry it.
func (v Value) Strings() []string {
	switch v.kind {
	case KindText:
		return []string{v.text}
	case KindNumber:
		return []string{strconv.FormatFloat(v.number, 'f', -1, 64)}
	case KindOptionSet:
		out := make([]string, len(v.options))
		copy(out, v.options)
		return out
	case KindDate:
		return []string{v.date.Format(DateLayout)}
	default:
		return nil
	}
}

// String is the human-readable rendering used on public pages.
func (v Value) String() string {
	return strings.Join(v.Strings(), ", ")
}

type valueJSON struct {
	Kind    Kind     `json:"kind"`
	Text    *string  `json:"text,omitempty"`
	Number  *float64 `json:"number,omitempty"`
	Options []string `json:"options,omitempty"`
	Date    string   `json:"date,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	out := valueJSON{Kind: v.kind}
	switch v.kind {
	case KindText:
		text := v.text
		out.Text = &text
	case KindNumber:
		n := v.number
		out.Number = &n
	case KindOptionSet:
		out.Options = v.options
		if out.Options == nil {
			out.Options = []string{}
		}
	case KindDate:
		out.Date = v.date.Format(DateLayout)
	default:
		return nil, fmt.Errorf("marshal value: unknown kind %q", v.kind)
	}
	return json.Marshal(out)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var in valueJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Kind {
	case KindText:
		if in.Text == nil {
			return fmt.Errorf("unmarshal value: text kind without text")
		}
		*v = Text(*in.Text)
	case KindNumber:
		if in.Number == nil {
			return fmt.Errorf("unmarshal value: number kind without number")
		}
		*v = Number(*in.Number)
	case KindOptionSet:
		*v = OptionSet(in.Options...)
	case KindDate:
		parsed, err := time.Parse(DateLayout, in.Date)
		if err != nil {
			return fmt.Errorf("unmarshal value: %w", err)
		}
		*v = Date(parsed)
	default:
		return fmt.Errorf("unmarshal value: unknown kind %q", in.Kind)
	}
	return nil
}

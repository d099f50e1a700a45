package formconfig

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FormFieldPrefix namespaces custom field controls inside the player form.
const FormFieldPrefix = "field."

// InputName is the HTML control name bound to a descriptor.
func InputName(id string) string {
	return FormFieldPrefix + id
}

// Submission holds raw submitted values keyed by descriptor id. Values are
// strings, []string, float64, bool or json.Number as produced by form or JSON
// decoding.
type Submission map[string]any

// SubmissionFromForm collects the controls bound to cfg's descriptors.
// Checkbox groups keep every checked value; other types keep the first.
func SubmissionFromForm(values url.Values, cfg Config) Submission {
	sub := make(Submission, len(cfg))
	for _, field := range cfg {
		raw, ok := values[InputName(field.ID)]
		if !ok {
			continue
		}
		if field.Type == TypeCheckbox {
			sub[field.ID] = raw
			continue
		}
		if len(raw) > 0 {
			sub[field.ID] = raw[0]
		}
	}
	return sub
}

// SubmissionFromJSON maps an additionalFields object onto descriptor ids.
// Keys may be descriptor ids or labels; anything else is rejected, as is a
// field named both ways.
func SubmissionFromJSON(raw map[string]any, cfg Config) (Submission, error) {
	sub := make(Submission, len(raw))
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		field, ok := cfg.Field(key)
		if !ok {
			field, ok = cfg.FieldByLabel(key)
		}
		if !ok {
			return nil, fmt.Errorf("unknown field %q", key)
		}
		if _, dup := sub[field.ID]; dup {
			return nil, fmt.Errorf("field %q given twice", field.Label)
		}
		sub[field.ID] = raw[key]
	}
	return sub, nil
}

// FieldError is a validation failure for one descriptor.
type FieldError struct {
	FieldID string `json:"fieldId"`
	Label   string `json:"label"`
	Message string `json:"message"`
}

// FieldErrors lists failures in descriptor order.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	messages := make([]string, len(e))
	for i, fe := range e {
		messages[i] = fe.Message
	}
	return strings.Join(messages, "; ")
}

// ByID indexes messages by descriptor id for rendering next to controls.
func (e FieldErrors) ByID() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		out[fe.FieldID] = fe.Message
	}
	return out
}

// Decode validates sub against the configuration and returns the typed
// answers in descriptor order. Empty optional fields are omitted. On failure
// the error is FieldErrors.
func (c Config) Decode(sub Submission) (Snapshot, error) {
	var (
		snapshot Snapshot
		errs     FieldErrors
	)
	for _, field := range c {
		raw, present := sub[field.ID]
		value, empty, err := decodeValue(field, raw, present)
		if err != nil {
			errs = append(errs, FieldError{FieldID: field.ID, Label: field.Label, Message: err.Error()})
			continue
		}
		if empty {
			if field.Required {
				errs = append(errs, FieldError{
					FieldID: field.ID,
					Label:   field.Label,
					Message: fmt.Sprintf("%s is required", field.Label),
				})
			}
			continue
		}
		snapshot = append(snapshot, FieldValue{
			FieldID: field.ID,
			Label:   field.Label,
			Type:    field.Type,
			Value:   value,
		})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return snapshot, nil
}

func decodeValue(field FieldDescriptor, raw any, present bool) (Value, bool, error) {
	if !present || raw == nil {
		return Value{}, true, nil
	}

	switch field.Type {
	case TypeText, TypeTextarea:
		s, ok := scalarString(raw)
		if !ok {
			return Value{}, false, fmt.Errorf("%s must be text", field.Label)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return Value{}, true, nil
		}
		return Text(s), false, nil

	case TypeNumber:
		n, empty, err := numberValue(raw)
		if err != nil {
			return Value{}, false, fmt.Errorf("%s must be a number", field.Label)
		}
		if empty {
			return Value{}, true, nil
		}
		return Number(n), false, nil

	case TypeSelect, TypeRadio:
		s, ok := scalarString(raw)
		if !ok {
			return Value{}, false, fmt.Errorf("%s must be a single option", field.Label)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return Value{}, true, nil
		}
		if !field.HasOption(s) {
			return Value{}, false, fmt.Errorf("%s must be one of: %s", field.Label, FormatOptions(field.Options))
		}
		return Text(s), false, nil

	case TypeCheckbox:
		picked, err := stringList(raw)
		if err != nil {
			return Value{}, false, fmt.Errorf("%s must be a list of options", field.Label)
		}
		chosen := make(map[string]bool, len(picked))
		for _, p := range picked {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if !field.HasOption(p) {
				return Value{}, false, fmt.Errorf("%s has an invalid option: %s", field.Label, p)
			}
			chosen[p] = true
		}
		if len(chosen) == 0 {
			return Value{}, true, nil
		}
		ordered := make([]string, 0, len(chosen))
		for _, option := range field.Options {
			if chosen[option] {
				ordered = append(ordered, option)
			}
		}
		return OptionSet(ordered...), false, nil

	case TypeDate:
		if t, ok := raw.(time.Time); ok {
			return Date(t), false, nil
		}
		s, ok := scalarString(raw)
		if !ok {
			return Value{}, false, fmt.Errorf("%s must be a valid date", field.Label)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return Value{}, true, nil
		}
		t, err := parseDate(s)
		if err != nil {
			return Value{}, false, fmt.Errorf("%s must be a valid date", field.Label)
		}
		return Date(t), false, nil
	}

	return Value{}, false, fmt.Errorf("%s has unsupported type %q", field.Label, field.Type)
}

func scalarString(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case []string:
		if len(v) == 0 {
			return "", true
		}
		return v[0], true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

func numberValue(raw any) (float64, bool, error) {
	var (
		n   float64
		err error
	)
	switch v := raw.(type) {
	case float64:
		n = v
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		n, err = v.Float64()
	default:
		s, ok := scalarString(raw)
		if !ok {
			return 0, false, fmt.Errorf("not a number")
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, true, nil
		}
		n, err = strconv.ParseFloat(s, 64)
	}
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false, fmt.Errorf("not a finite number")
	}
	return n, false, nil
}

func stringList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("non-string option")
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported option list")
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

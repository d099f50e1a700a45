package formconfig

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldValue is one stored answer. The label is captured at submission time so
// later edits to the sport's fields do not rewrite existing players.
type FieldValue struct {
	FieldID string    `json:"fieldId"`
	Label   string    `json:"label"`
	Type    FieldType `json:"type"`
	Value   Value     `json:"value"`
}

// Snapshot is the frozen set of answers stored on a player.
type Snapshot []FieldValue

// AdditionalFields keys the answers by label, the shape players expose over
// the API.
func (s Snapshot) AdditionalFields() map[string]any {
	out := make(map[string]any, len(s))
	for _, fv := range s {
		out[fv.Label] = fv.Value.Plain()
	}
	return out
}

// FormValues keys the answers by descriptor id for re-populating a form.
func (s Snapshot) FormValues() map[string][]string {
	out := make(map[string][]string, len(s))
	for _, fv := range s {
		out[fv.FieldID] = fv.Value.Strings()
	}
	return out
}

func (s Snapshot) Get(fieldID string) (FieldValue, bool) {
	for _, fv := range s {
		if fv.FieldID == fieldID {
			return fv, true
		}
	}
	return FieldValue{}, false
}

// ParseSnapshot decodes stored answers. Empty input yields an empty Snapshot.
func ParseSnapshot(data []byte) (Snapshot, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return Snapshot{}, nil
	}
	var s Snapshot
	if err := json.Unmarshal([]byte(trimmed), &s); err != nil {
		return nil, fmt.Errorf("decode field values: %w", err)
	}
	return s, nil
}

func (s Snapshot) Marshal() (string, error) {
	if s == nil {
		s = Snapshot{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode field values: %w", err)
	}
	return string(data), nil
}

package apiutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is a positive row id that decodes from either a JSON number or a
// numeric string, since form-driven clients send both.
type ID int64

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*id = 0
		return nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return fmt.Errorf("invalid id %q", raw)
	}
	*id = ID(value)
	return nil
}

func (id ID) Int64() int64 { return int64(id) }

// Ptr returns nil for the zero id.
func (id ID) Ptr() *int64 {
	if id <= 0 {
		return nil
	}
	v := int64(id)
	return &v
}

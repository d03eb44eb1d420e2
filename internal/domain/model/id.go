package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a backend identifier. The backend sends ids as JSON strings or
// numbers depending on the entity; both decode to the same text. IDs
// always encode as strings.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number, got %s", data)
	}
	*id = ID(n.String())
	return nil
}

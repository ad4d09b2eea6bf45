package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSON maps to a JSONB column for schemaless payloads, such as the
// method-specific payout details on a withdrawal.
type JSON map[string]interface{}

// Value implements driver.Valuer so the map can be written as JSONB.
func (j JSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// Scan implements sql.Scanner for reading the column back.
func (j *JSON) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, &j)
}

// MarshalJSON returns the JSON encoding, with nil rendered as null.
func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return json.Marshal(j)
}

// UnmarshalJSON sets the map from a JSON encoding.
func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("nil pointer")
	}
	return json.Unmarshal(data, &j)
}

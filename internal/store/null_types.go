package store

import (
	"database/sql"
	"encoding/json"
)

// NullString is a wrapper around sql.NullString for Swagger compatibility
type NullString struct {
	Value string `json:"value"` // The actual string value
	Valid bool   `json:"valid"` // Indicates if the value is non-null
}

// MarshalJSON implements the json.Marshaler interface
func (ns NullString) MarshalJSON() ([]byte, error) {
	if !ns.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(ns.Value)
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (ns *NullString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		ns.Valid = false
		ns.Value = ""
		return nil
	}
	ns.Valid = true
	return json.Unmarshal(data, &ns.Value)
}

// Convert from sql.NullString
func NewNullString(ns sql.NullString) NullString {
	return NullString{
		Value: ns.String,
		Valid: ns.Valid,
	}
}

// NullInt64 is a wrapper around sql.NullInt64 for Swagger compatibility
type NullInt64 struct {
	Value int64 `json:"value"` // The actual integer value
	Valid bool  `json:"valid"` // Indicates if the value is non-null
}

// MarshalJSON implements the json.Marshaler interface
func (ni NullInt64) MarshalJSON() ([]byte, error) {
	if !ni.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(ni.Value)
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (ni *NullInt64) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		ni.Valid = false
		ni.Value = 0
		return nil
	}
	ni.Valid = true
	return json.Unmarshal(data, &ni.Value)
}

// Convert from sql.NullInt64
func NewNullInt64(ni sql.NullInt64) NullInt64 {
	return NullInt64{
		Value: ni.Int64,
		Valid: ni.Valid,
	}
}

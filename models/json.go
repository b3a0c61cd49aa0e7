package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a JSON array column ([]string round-trips through the DB).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal([]string(l))
	return string(b), err
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, (*[]string)(l))
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(l))
	}
	return fmt.Errorf("cannot scan %T into StringList", value)
}

// ParticipantSnapshot holds the previously approved room values of a
// participant, stashed when the user resubmits an edit.
type ParticipantSnapshot struct {
	RoomType      *string `json:"roomType"`
	RoomOccupancy *int    `json:"roomOccupancy"`
	IsApproved    bool    `json:"isApproved"`
}

// Snapshot is a nullable JSON column wrapping ParticipantSnapshot.
type Snapshot struct {
	Data *ParticipantSnapshot
}

func (s Snapshot) Value() (driver.Value, error) {
	if s.Data == nil {
		return nil, nil
	}
	b, err := json.Marshal(s.Data)
	return string(b), err
}

func (s *Snapshot) Scan(value interface{}) error {
	if value == nil {
		s.Data = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Snapshot", value)
	}
	if len(raw) == 0 || string(raw) == "null" {
		s.Data = nil
		return nil
	}
	s.Data = &ParticipantSnapshot{}
	return json.Unmarshal(raw, s.Data)
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	if s.Data == nil {
		return []byte("null"), nil
	}
	return json.Marshal(s.Data)
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		s.Data = nil
		return nil
	}
	s.Data = &ParticipantSnapshot{}
	return json.Unmarshal(data, s.Data)
}

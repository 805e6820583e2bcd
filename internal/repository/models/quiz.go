package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// JSONRaw stores a raw JSON document in a jsonb column.
type JSONRaw []byte

// Value implements the driver.Valuer interface
func (j JSONRaw) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "[]", nil
	}
	return string(j), nil
}

// Scan implements the sql.Scanner interface
func (j *JSONRaw) Scan(value interface{}) error {
	if value == nil {
		*j = JSONRaw("[]")
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append(JSONRaw(nil), v...)
	case string:
		*j = JSONRaw(v)
	default:
		return errors.New("JSONRaw Scan: unsupported type " + fmt.Sprintf("%T", value))
	}
	return nil
}

// JSONMap stores an opaque key-value bag in a jsonb column.
type JSONMap map[string]any

// Value implements the driver.Valuer interface
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	jsonData, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("JSONMap Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(bytesToParse, m)
}

// Quiz is the row shape of the quizzes collection. One document per quiz;
// questions and metadata live in jsonb columns.
type Quiz struct {
	ID               string         `db:"id"`
	BookID           string         `db:"book_id"`
	Questions        JSONRaw        `db:"questions"`
	CreatedAt        time.Time      `db:"created_at"`
	AIModel          string         `db:"ai_model"`
	GenerationPrompt sql.NullString `db:"generation_prompt"`
	Metadata         JSONMap        `db:"metadata"`
}

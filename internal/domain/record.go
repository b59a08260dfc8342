package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// SavedStackRecord is a stack selection saved by a signed-in user.
type SavedStackRecord struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"userId" db:"user_id"`
	Stacks    StringList `json:"stacks" db:"stacks"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

// SameStacks reports whether both records hold the same ordered stacks.
func (r *SavedStackRecord) SameStacks(other *SavedStackRecord) bool {
	return slices.Equal(r.Stacks, other.Stacks)
}

// StringList is stored as a JSON array in a text column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	return json.Unmarshal(data, (*[]string)(l))
}

// SaveStackRequest is the request body for saving a stack.
type SaveStackRequest struct {
	Stacks []string `json:"stacks"`
}

// SaveStackResponse is returned after a stack is saved.
type SaveStackResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ListStacksResponse wraps the saved stacks of a user.
type ListStacksResponse struct {
	Stacks []*SavedStackRecord `json:"stacks"`
}

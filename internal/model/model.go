// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the data structures shared by the directory client,
// the state controller and the user interfaces.
package model // import "github.com/toeirei/userdesk/internal/model"

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is the opaque identifier the directory service assigns to a user.
// The service may send it as a JSON string or a JSON number; both decode
// into the same textual form.
type ID string

// UnmarshalJSON accepts both quoted and numeric identifiers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// User is a read-only copy of a directory record.
type User struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// String returns the "name <email>" representation.
func (u User) String() string {
	return fmt.Sprintf("%s <%s>", u.Name, u.Email)
}

// Draft is the unsaved form data for a user that does not exist yet.
type Draft struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Trimmed returns a copy with surrounding whitespace removed from all fields.
func (d Draft) Trimmed() Draft {
	return Draft{Name: strings.TrimSpace(d.Name), Email: strings.TrimSpace(d.Email)}
}

// Complete reports whether every required field is non-blank.
func (d Draft) Complete() bool {
	t := d.Trimmed()
	return t.Name != "" && t.Email != ""
}

// IsZero reports whether the draft holds no input at all.
func (d Draft) IsZero() bool {
	return d.Name == "" && d.Email == ""
}

package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Participation is a single submitted action under a sky. Rows are never
// deleted; the admin purge only clears Comment.
type Participation struct {
	Participation_ID int64     `json:"id" db:"participation_id" goqu:"skipinsert"`
	Sky_ID           string    `json:"skyId" db:"sky_id"`
	Action_Key       string    `json:"actionKey" db:"action_key"`
	Name             *string   `json:"name,omitempty" db:"name"`
	Email            *string   `json:"-" db:"email"`
	Comment          *string   `json:"comment,omitempty" db:"comment"`
	Created_At       time.Time `json:"createdAt" db:"created_at" goqu:"skipinsert"`
}

// SupportCreate is the request body for POST /support
type SupportCreate struct {
	Sky_ID  string `json:"skyId"`
	Name    string `json:"name"`
	Email   string `json:"email" binding:"omitempty,email"`
	Comment string `json:"comment"`
	Action  string `json:"action"`
}

// UnmarshalJSON trims the single-line fields while decoding, so that binding
// rules such as email see the value that will be stored.
func (s *SupportCreate) UnmarshalJSON(data []byte) error {
	type plain SupportCreate
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	*s = SupportCreate(decoded)
	s.Sky_ID = strings.TrimSpace(s.Sky_ID)
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Action = strings.TrimSpace(s.Action)
	return nil
}

// CommentItem is a participation shaped for the comment timeline
type CommentItem struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Label      string    `json:"label"`
	Comment    string    `json:"comment"`
	Created_At time.Time `json:"created_at"`
}

package notification

import "time"

type Notification struct {
	ID        int64     `json:"id"`
	ProfileID string    `json:"profile_id"`
	Text      string    `json:"text"`
	TypeID    int       `json:"type_id"`
	SenderID  *string   `json:"sender_id,omitempty"`
	PlanID    *int64    `json:"plan_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

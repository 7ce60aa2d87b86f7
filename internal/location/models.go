package location

import "time"

// ParticipantLocation is the latest reported position of one participant
// within a plan, one row per (plan, profile).
type ParticipantLocation struct {
	PlanID     int64     `json:"plan_id"`
	ProfileID  string    `json:"profile_id"`
	Name       string    `json:"name,omitempty"`
	Username   string    `json:"username,omitempty"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Battery    int       `json:"battery"`
	RecordedAt time.Time `json:"recorded_at"`
}

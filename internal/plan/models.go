package plan

import "time"

// Participant statuses within a plan.
const (
	StatusPending  = 0
	StatusAccepted = 1
	StatusDeclined = 2
)

type Plan struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	PlaceID     *string    `json:"place_id,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	HostID      string     `json:"host_id"`
	TypeID      int        `json:"plan_type_id"`
	StateID     int        `json:"plan_state_id"`
	Type        *PlanType  `json:"type,omitempty"`
	State       *PlanState `json:"state,omitempty"`
}

type PlanType struct {
	ID   int    `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// PlanState is one phase of a type's lifecycle. Codes within a type form a
// total order; only single-step forward moves are legal.
type PlanState struct {
	ID     int    `json:"id"`
	TypeID int    `json:"plan_type_id"`
	Code   int    `json:"code"`
	Slug   string `json:"slug"`
	Name   string `json:"name"`
}

type Participant struct {
	ProfileID        string  `json:"profile_id"`
	Name             string  `json:"name"`
	Username         string  `json:"username"`
	AvatarURL        *string `json:"avatar_url,omitempty"`
	Status           int     `json:"status"`
	Accepted         bool    `json:"accepted"`
	Host             bool    `json:"host"`
	DeparturePlaceID *string `json:"departure_place_id,omitempty"`
}

type Detail struct {
	Plan
	Participants []Participant `json:"participants"`
	MyStatus     *int          `json:"my_status"`
}

type Page struct {
	Plans      []Detail   `json:"plans"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

type CreateInput struct {
	TypeID      int        `json:"plan_type_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	PlaceID     *string    `json:"place_id"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	HostID      string     `json:"host_id"`
	InviteeIDs  []string   `json:"invitee_ids"`
}

type Vote struct {
	PlanID    int64     `json:"plan_id"`
	ProfileID string    `json:"profile_id"`
	PlaceID   string    `json:"place_id"`
	VotedAt   time.Time `json:"voted_at"`
}

// VoterStatus pairs a participant's display fields with their current vote,
// nil when they have not voted yet.
type VoterStatus struct {
	ProfileID string  `json:"profile_id"`
	Name      string  `json:"name"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	PlaceID   *string `json:"place_id"`
}

type VotingStatus struct {
	Votes        []Vote         `json:"votes"`
	Tally        map[string]int `json:"tally"`
	Participants []VoterStatus  `json:"participants"`
	LeaderPlace  *string        `json:"leader_place_id"`
	LeaderVotes  int            `json:"leader_votes"`
}

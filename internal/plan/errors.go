package plan

import "errors"

var (
	ErrPlanNotFound        = errors.New("plan not found")
	ErrParticipantNotFound = errors.New("participant not found for this plan")
	ErrNotHost             = errors.New("only the host can perform this action")
	ErrUnknownState        = errors.New("state does not exist for this plan type")
	ErrInvalidTransition   = errors.New("invalid state transition")
	ErrNoVotes             = errors.New("no votes cast for this plan")
)

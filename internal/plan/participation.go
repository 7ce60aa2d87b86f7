package plan

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
)

// Start advances the plan one step and stamps the start time if unset.
// Host-only. When the step is not valid (already advanced, terminal state)
// the call is an idempotent no-op returning the current plan.
func (s *Service) Start(ctx context.Context, planID int64, callerID string) (Plan, error) {
	p, err := s.minimal(ctx, planID)
	if err != nil {
		return Plan{}, err
	}
	if p.HostID != callerID {
		return Plan{}, ErrNotHost
	}

	current, err := s.stateByID(ctx, p.StateID)
	if err != nil {
		return Plan{}, err
	}
	nextCode := current.Code + 1
	if !ValidTransition(p.TypeID, current.Code, nextCode) {
		return s.expand(ctx, p)
	}
	next, err := s.stateByCode(ctx, p.TypeID, nextCode)
	if err != nil {
		return Plan{}, err
	}

	// Conditional on the observed state so concurrent starts commit at most
	// one transition; the loser sees the plan as already advanced.
	updated, err := scanPlan(s.db.QueryRow(ctx, `
		UPDATE plans SET plan_state_id=$3, starts_at=COALESCE(starts_at, now())
		WHERE id=$1 AND plan_state_id=$2
		RETURNING `+planColumns+`
	`, planID, p.StateID, next.ID))
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			return s.Get(ctx, planID)
		}
		return Plan{}, err
	}
	return s.expand(ctx, updated)
}

// ChangeState moves the plan to an explicitly requested state. Host-only.
// Unlike Start, a rejected transition is an error here.
func (s *Service) ChangeState(ctx context.Context, planID int64, callerID string, target StateRef) (Plan, error) {
	p, err := s.minimal(ctx, planID)
	if err != nil {
		return Plan{}, err
	}
	if p.HostID != callerID {
		return Plan{}, ErrNotHost
	}

	current, err := s.stateByID(ctx, p.StateID)
	if err != nil {
		return Plan{}, err
	}
	targetState, err := s.resolveState(ctx, p.TypeID, target)
	if err != nil {
		return Plan{}, err
	}
	if !ValidTransition(p.TypeID, current.Code, targetState.Code) {
		return Plan{}, ErrInvalidTransition
	}

	updated, err := scanPlan(s.db.QueryRow(ctx, `
		UPDATE plans SET plan_state_id=$3
		WHERE id=$1 AND plan_state_id=$2
		RETURNING `+planColumns+`
	`, planID, p.StateID, targetState.ID))
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			// A concurrent transition won the race; the requested step no
			// longer applies.
			return Plan{}, ErrInvalidTransition
		}
		return Plan{}, err
	}
	return s.expand(ctx, updated)
}

// AcceptInvite marks the caller's participation accepted, optionally
// attaching a departure location, then clears the plan's notification for
// the profile on a best-effort basis.
func (s *Service) AcceptInvite(ctx context.Context, planID int64, profileID string, departurePlaceID *string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE plan_participants
		SET status=$3, departure_place_id=COALESCE($4, departure_place_id)
		WHERE plan_id=$1 AND profile_id=$2
	`, planID, profileID, StatusAccepted, departurePlaceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrParticipantNotFound
	}
	s.clearPlanNotification(ctx, planID, profileID)
	return nil
}

// DeclineInvite marks the caller's participation declined.
func (s *Service) DeclineInvite(ctx context.Context, planID int64, profileID string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE plan_participants SET status=$3
		WHERE plan_id=$1 AND profile_id=$2
	`, planID, profileID, StatusDeclined)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrParticipantNotFound
	}
	s.clearPlanNotification(ctx, planID, profileID)
	return nil
}

// clearPlanNotification must never fail an otherwise-successful invitation
// response; errors are logged and dropped.
func (s *Service) clearPlanNotification(ctx context.Context, planID int64, profileID string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.MarkPlanRead(ctx, planID, profileID); err != nil {
		log.Printf("clear plan notification plan=%d profile=%s: %v", planID, profileID, err)
	}
}

// ParticipationStatus returns the raw status code, or nil when the profile
// holds no participant row for the plan.
func (s *Service) ParticipationStatus(ctx context.Context, planID int64, profileID string) (*int, error) {
	var status int
	err := s.db.QueryRow(ctx, `
		SELECT status FROM plan_participants WHERE plan_id=$1 AND profile_id=$2
	`, planID, profileID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &status, nil
}

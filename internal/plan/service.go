package plan

import (
	"context"
	"errors"
	"fmt"

	"github.com/TomasGoldb/juntifyBack/internal/db"

	"github.com/jackc/pgx/v5"
)

// Notifier is the notification side-channel consumed on invitation
// responses. Failures are logged and swallowed, never surfaced.
type Notifier interface {
	MarkPlanRead(ctx context.Context, planID int64, profileID string) error
}

type Service struct {
	db       db.Querier
	notifier Notifier
}

func NewService(db db.Querier, notifier Notifier) *Service {
	return &Service{db: db, notifier: notifier}
}

const planColumns = `id, name, description, place_id, starts_at, ends_at, created_at, host_id, plan_type_id, plan_state_id`

func scanPlan(row pgx.Row) (Plan, error) {
	var p Plan
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.PlaceID, &p.StartsAt, &p.EndsAt,
		&p.CreatedAt, &p.HostID, &p.TypeID, &p.StateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Plan{}, ErrPlanNotFound
		}
		return Plan{}, err
	}
	return p, nil
}

// expand joins the catalog rows onto the plan.
func (s *Service) expand(ctx context.Context, p Plan) (Plan, error) {
	planType, err := s.planType(ctx, p.TypeID)
	if err != nil {
		return Plan{}, err
	}
	state, err := s.stateByID(ctx, p.StateID)
	if err != nil {
		return Plan{}, err
	}
	p.Type = &planType
	p.State = &state
	return p, nil
}

// Create inserts the plan in its type's draft state and one participant row
// per unique invitee plus the host. The host's row is born accepted.
func (s *Service) Create(ctx context.Context, input CreateInput) (Plan, error) {
	typeID := input.TypeID
	if typeID == 0 {
		typeID = TypeCustom
		if input.PlaceID != nil {
			typeID = TypePredefined
		}
	}

	draft, err := s.stateByCode(ctx, typeID, 0)
	if err != nil {
		return Plan{}, err
	}

	p := Plan{
		Name:        input.Name,
		Description: input.Description,
		PlaceID:     input.PlaceID,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		HostID:      input.HostID,
		TypeID:      typeID,
		StateID:     draft.ID,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO plans (name, description, place_id, starts_at, ends_at, host_id, plan_type_id, plan_state_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at
	`, p.Name, p.Description, p.PlaceID, p.StartsAt, p.EndsAt, p.HostID, p.TypeID, p.StateID)
	if err := row.Scan(&p.ID, &p.CreatedAt); err != nil {
		return Plan{}, err
	}

	for _, profileID := range inviteeSet(input.HostID, input.InviteeIDs) {
		status := StatusPending
		if profileID == input.HostID {
			status = StatusAccepted
		}
		_, err := s.db.Exec(ctx, `
			INSERT INTO plan_participants (plan_id, profile_id, status)
			VALUES ($1,$2,$3)
			ON CONFLICT (plan_id, profile_id) DO NOTHING
		`, p.ID, profileID, status)
		if err != nil {
			return Plan{}, err
		}
	}
	return p, nil
}

// inviteeSet dedupes invitees and guarantees the host comes first.
func inviteeSet(hostID string, inviteeIDs []string) []string {
	out := []string{hostID}
	seen := map[string]struct{}{hostID: {}}
	for _, id := range inviteeIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *Service) Get(ctx context.Context, id int64) (Plan, error) {
	p, err := scanPlan(s.db.QueryRow(ctx, `
		SELECT `+planColumns+` FROM plans WHERE id=$1
	`, id))
	if err != nil {
		return Plan{}, err
	}
	return s.expand(ctx, p)
}

// minimal loads the plan without catalog expansion, for mutation paths.
func (s *Service) minimal(ctx context.Context, id int64) (Plan, error) {
	return scanPlan(s.db.QueryRow(ctx, `
		SELECT `+planColumns+` FROM plans WHERE id=$1
	`, id))
}

func (s *Service) participants(ctx context.Context, planID int64, hostID string) ([]Participant, error) {
	rows, err := s.db.Query(ctx, `
		SELECT pp.profile_id, pr.display_name, pr.username, pr.avatar_url, pp.status, pp.departure_place_id
		FROM plan_participants pp
		JOIN profiles pr ON pr.id = pp.profile_id
		WHERE pp.plan_id=$1
		ORDER BY pp.invited_at
	`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Participant
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.ProfileID, &p.Name, &p.Username, &p.AvatarURL, &p.Status, &p.DeparturePlaceID); err != nil {
			return nil, err
		}
		p.Accepted = p.Status == StatusAccepted
		p.Host = p.ProfileID == hostID
		out = append(out, p)
	}
	return out, rows.Err()
}

// Detail returns the expanded plan with its participant list and the
// requesting user's own participation status. The host is treated as
// accepted even without a participant row.
func (s *Service) Detail(ctx context.Context, id int64, requesterID string) (Detail, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	parts, err := s.participants(ctx, id, p.HostID)
	if err != nil {
		return Detail{}, err
	}

	var myStatus *int
	for i := range parts {
		if parts[i].ProfileID == requesterID {
			status := parts[i].Status
			myStatus = &status
			break
		}
	}
	if myStatus == nil && requesterID == p.HostID {
		accepted := StatusAccepted
		myStatus = &accepted
	}

	return Detail{Plan: p, Participants: parts, MyStatus: myStatus}, nil
}

// ListUserPlans pages over plans the user hosts or participates in as an
// accepted member, newest first.
func (s *Service) ListUserPlans(ctx context.Context, userID string, limit, offset int) (Page, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	const membership = `p.host_id=$1 OR EXISTS (
			SELECT 1 FROM plan_participants pp
			WHERE pp.plan_id=p.id AND pp.profile_id=$1 AND pp.status=1
		)`

	var total int
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM plans p WHERE `+membership, userID).Scan(&total)
	if err != nil {
		return Page{}, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.name, p.description, p.place_id, p.starts_at, p.ends_at, p.created_at, p.host_id, p.plan_type_id, p.plan_state_id
		FROM plans p WHERE `+membership+`
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PlaceID, &p.StartsAt, &p.EndsAt,
			&p.CreatedAt, &p.HostID, &p.TypeID, &p.StateID); err != nil {
			return Page{}, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return Page{}, err
	}

	details := make([]Detail, 0, len(plans))
	for _, p := range plans {
		expanded, err := s.expand(ctx, p)
		if err != nil {
			return Page{}, err
		}
		parts, err := s.participants(ctx, p.ID, p.HostID)
		if err != nil {
			return Page{}, err
		}
		details = append(details, Detail{Plan: expanded, Participants: parts})
	}

	return Page{
		Plans: details,
		Pagination: Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+limit < total,
		},
	}, nil
}

// PendingInvites returns the plans where the user still holds a pending
// invitation.
func (s *Service) PendingInvites(ctx context.Context, userID string) ([]Plan, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.name, p.description, p.place_id, p.starts_at, p.ends_at, p.created_at, p.host_id, p.plan_type_id, p.plan_state_id
		FROM plans p
		JOIN plan_participants pp ON pp.plan_id = p.id
		WHERE pp.profile_id=$1 AND pp.status=0
		ORDER BY p.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PlaceID, &p.StartsAt, &p.EndsAt,
			&p.CreatedAt, &p.HostID, &p.TypeID, &p.StateID); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// Delete removes the plan's participants and votes before the plan row
// itself, so no dangling sub-entities survive a partial failure.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM plan_participants WHERE plan_id=$1`, id); err != nil {
		return fmt.Errorf("delete plan participants: %w", err)
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM place_votes WHERE plan_id=$1`, id); err != nil {
		return fmt.Errorf("delete plan votes: %w", err)
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM plans WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

package plan

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// CastVote stores the profile's current choice for the plan. One row per
// (plan, profile) is kept; repeated votes overwrite the previous place.
func (s *Service) CastVote(ctx context.Context, planID int64, profileID, placeID string) (Vote, error) {
	v := Vote{PlanID: planID, ProfileID: profileID, PlaceID: placeID}
	row := s.db.QueryRow(ctx, `
		INSERT INTO place_votes (plan_id, profile_id, place_id, voted_at)
		VALUES ($1,$2,$3, now())
		ON CONFLICT (plan_id, profile_id) DO UPDATE SET place_id=EXCLUDED.place_id, voted_at=EXCLUDED.voted_at
		RETURNING voted_at
	`, planID, profileID, placeID)
	if err := row.Scan(&v.VotedAt); err != nil {
		return Vote{}, err
	}
	return v, nil
}

func (s *Service) votes(ctx context.Context, planID int64) ([]Vote, error) {
	rows, err := s.db.Query(ctx, `
		SELECT plan_id, profile_id, place_id, voted_at
		FROM place_votes WHERE plan_id=$1
		ORDER BY voted_at
	`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vote
	for rows.Next() {
		var v Vote
		if err := rows.Scan(&v.PlanID, &v.ProfileID, &v.PlaceID, &v.VotedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// leader picks the place with the most votes. Ties go to the place whose
// first vote arrived earliest, so the result is stable across reads.
func leader(votes []Vote) (string, int) {
	tally := map[string]int{}
	var order []string
	for _, v := range votes {
		if _, seen := tally[v.PlaceID]; !seen {
			order = append(order, v.PlaceID)
		}
		tally[v.PlaceID]++
	}
	best, max := "", 0
	for _, placeID := range order {
		if tally[placeID] > max {
			best, max = placeID, tally[placeID]
		}
	}
	return best, max
}

// VotingStatus reports the raw votes, the per-place tally, every
// participant with their current choice, and the leading place.
func (s *Service) VotingStatus(ctx context.Context, planID int64) (VotingStatus, error) {
	p, err := s.minimal(ctx, planID)
	if err != nil {
		return VotingStatus{}, err
	}
	votes, err := s.votes(ctx, planID)
	if err != nil {
		return VotingStatus{}, err
	}

	tally := map[string]int{}
	byProfile := map[string]string{}
	for _, v := range votes {
		tally[v.PlaceID]++
		byProfile[v.ProfileID] = v.PlaceID
	}

	parts, err := s.participants(ctx, planID, p.HostID)
	if err != nil {
		return VotingStatus{}, err
	}
	voters := make([]VoterStatus, 0, len(parts))
	for _, part := range parts {
		vs := VoterStatus{
			ProfileID: part.ProfileID,
			Name:      part.Name,
			Username:  part.Username,
			AvatarURL: part.AvatarURL,
		}
		if placeID, ok := byProfile[part.ProfileID]; ok {
			vs.PlaceID = &placeID
		}
		voters = append(voters, vs)
	}

	status := VotingStatus{
		Votes:        votes,
		Tally:        tally,
		Participants: voters,
	}
	if place, count := leader(votes); count > 0 {
		status.LeaderPlace = &place
		status.LeaderVotes = count
	}
	return status, nil
}

// FinalizeVoting writes the winning place onto the plan and, when the
// validator allows it, advances the state one step in the same update.
// Host-only; finalizing with zero votes is an error.
func (s *Service) FinalizeVoting(ctx context.Context, planID int64, callerID string) (Plan, error) {
	p, err := s.minimal(ctx, planID)
	if err != nil {
		return Plan{}, err
	}
	if p.HostID != callerID {
		return Plan{}, ErrNotHost
	}

	var winner string
	err = s.db.QueryRow(ctx, `
		SELECT place_id FROM place_votes WHERE plan_id=$1
		GROUP BY place_id
		ORDER BY COUNT(*) DESC, MIN(voted_at) ASC
		LIMIT 1
	`, planID).Scan(&winner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Plan{}, ErrNoVotes
		}
		return Plan{}, err
	}

	current, err := s.stateByID(ctx, p.StateID)
	if err != nil {
		return Plan{}, err
	}

	if ValidTransition(p.TypeID, current.Code, current.Code+1) {
		next, err := s.stateByCode(ctx, p.TypeID, current.Code+1)
		if err != nil {
			return Plan{}, err
		}
		updated, err := scanPlan(s.db.QueryRow(ctx, `
			UPDATE plans SET place_id=$3, plan_state_id=$4
			WHERE id=$1 AND plan_state_id=$2
			RETURNING `+planColumns+`
		`, planID, p.StateID, winner, next.ID))
		if err == nil {
			return s.expand(ctx, updated)
		}
		if !errors.Is(err, ErrPlanNotFound) {
			return Plan{}, err
		}
		// Lost the transition race; still record the winner below.
	}

	updated, err := scanPlan(s.db.QueryRow(ctx, `
		UPDATE plans SET place_id=$2 WHERE id=$1
		RETURNING `+planColumns+`
	`, planID, winner))
	if err != nil {
		return Plan{}, err
	}
	return s.expand(ctx, updated)
}

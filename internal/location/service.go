package location

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/TomasGoldb/juntifyBack/internal/db"
	"github.com/TomasGoldb/juntifyBack/internal/stream"
)

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(db db.Querier, hub *stream.Hub) *Service {
	return &Service{db: db, hub: hub}
}

// Update stores the participant's latest position and fans it out to the
// plan's watchers. Battery defaults to full when the client omits it.
func (s *Service) Update(ctx context.Context, input ParticipantLocation) (ParticipantLocation, error) {
	if input.Battery <= 0 {
		input.Battery = 100
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO participant_locations (plan_id, profile_id, lat, lng, battery, recorded_at)
		VALUES ($1,$2,$3,$4,$5, now())
		ON CONFLICT (plan_id, profile_id) DO UPDATE
		SET lat=EXCLUDED.lat, lng=EXCLUDED.lng, battery=EXCLUDED.battery, recorded_at=EXCLUDED.recorded_at
		RETURNING recorded_at
	`, input.PlanID, input.ProfileID, input.Lat, input.Lng, input.Battery)
	if err := row.Scan(&input.RecordedAt); err != nil {
		return ParticipantLocation{}, err
	}

	if s.hub != nil {
		payload, _ := json.Marshal(input)
		s.hub.Broadcast(strconv.FormatInt(input.PlanID, 10), payload)
	}
	return input, nil
}

// Locations returns the current position of every reporting participant,
// most recent first, with profile display fields joined in.
func (s *Service) Locations(ctx context.Context, planID int64) ([]ParticipantLocation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT l.plan_id, l.profile_id, pr.display_name, pr.username, pr.avatar_url, l.lat, l.lng, l.battery, l.recorded_at
		FROM participant_locations l
		JOIN profiles pr ON pr.id = l.profile_id
		WHERE l.plan_id=$1
		ORDER BY l.recorded_at DESC
	`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ParticipantLocation
	for rows.Next() {
		var loc ParticipantLocation
		if err := rows.Scan(&loc.PlanID, &loc.ProfileID, &loc.Name, &loc.Username, &loc.AvatarURL,
			&loc.Lat, &loc.Lng, &loc.Battery, &loc.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

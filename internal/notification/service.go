package notification

import (
	"context"
	"errors"

	"github.com/TomasGoldb/juntifyBack/internal/db"

	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("notification not found")

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Add(ctx context.Context, input Notification) (Notification, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO notifications (profile_id, text, type_id, sender_id, plan_id)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, read, created_at
	`, input.ProfileID, input.Text, input.TypeID, input.SenderID, input.PlanID)
	if err := row.Scan(&input.ID, &input.Read, &input.CreatedAt); err != nil {
		return Notification{}, err
	}
	return input, nil
}

// List returns the profile's notifications, unread first within newest
// first. When unreadOnly is set, read ones are filtered out.
func (s *Service) List(ctx context.Context, profileID string, unreadOnly bool) ([]Notification, error) {
	query := `
		SELECT id, profile_id, text, type_id, sender_id, plan_id, read, created_at
		FROM notifications WHERE profile_id=$1
		ORDER BY id DESC`
	if unreadOnly {
		query = `
		SELECT id, profile_id, text, type_id, sender_id, plan_id, read, created_at
		FROM notifications WHERE profile_id=$1 AND read=false
		ORDER BY id DESC`
	}
	rows, err := s.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.ProfileID, &n.Text, &n.TypeID, &n.SenderID, &n.PlanID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Service) Get(ctx context.Context, id int64) (Notification, error) {
	var n Notification
	row := s.db.QueryRow(ctx, `
		SELECT id, profile_id, text, type_id, sender_id, plan_id, read, created_at
		FROM notifications WHERE id=$1
	`, id)
	if err := row.Scan(&n.ID, &n.ProfileID, &n.Text, &n.TypeID, &n.SenderID, &n.PlanID, &n.Read, &n.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Notification{}, ErrNotFound
		}
		return Notification{}, err
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, id int64, profileID string) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM notifications WHERE id=$1 AND profile_id=$2
	`, id, profileID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) MarkRead(ctx context.Context, id int64, profileID string, read bool) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE notifications SET read=$3 WHERE id=$1 AND profile_id=$2
	`, id, profileID, read)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPlanRead clears every notification linking the profile to the plan.
// Invitation responses call this through the plan package's Notifier
// interface; missing rows are not an error.
func (s *Service) MarkPlanRead(ctx context.Context, planID int64, profileID string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE notifications SET read=true WHERE plan_id=$1 AND profile_id=$2
	`, planID, profileID)
	return err
}

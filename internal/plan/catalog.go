package plan

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
)

// StateRef is a decoded state reference: exactly one of Code or Slug is set.
// Clients may send the target as a number, a numeric string, or a slug; the
// boundary decodes it once so the service never type-sniffs.
type StateRef struct {
	Code *int
	Slug string
}

// ParseStateRef decodes a state reference from a parsed JSON value.
func ParseStateRef(raw any) (StateRef, error) {
	switch v := raw.(type) {
	case float64:
		code := int(v)
		return StateRef{Code: &code}, nil
	case string:
		if v == "" {
			return StateRef{}, ErrUnknownState
		}
		if code, err := strconv.Atoi(v); err == nil {
			return StateRef{Code: &code}, nil
		}
		return StateRef{Slug: v}, nil
	default:
		return StateRef{}, ErrUnknownState
	}
}

func (s *Service) planType(ctx context.Context, id int) (PlanType, error) {
	var t PlanType
	row := s.db.QueryRow(ctx, `
		SELECT id, slug, name FROM plan_types WHERE id=$1
	`, id)
	if err := row.Scan(&t.ID, &t.Slug, &t.Name); err != nil {
		return PlanType{}, err
	}
	return t, nil
}

func (s *Service) stateByID(ctx context.Context, id int) (PlanState, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, plan_type_id, code, slug, name FROM plan_states WHERE id=$1
	`, id)
	return scanState(row)
}

func (s *Service) stateByCode(ctx context.Context, planTypeID, code int) (PlanState, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, plan_type_id, code, slug, name FROM plan_states WHERE plan_type_id=$1 AND code=$2
	`, planTypeID, code)
	return scanState(row)
}

func (s *Service) stateBySlug(ctx context.Context, planTypeID int, slug string) (PlanState, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, plan_type_id, code, slug, name FROM plan_states WHERE plan_type_id=$1 AND slug=$2
	`, planTypeID, slug)
	return scanState(row)
}

// resolveState maps a decoded reference onto a concrete state of the plan's
// type. References outside the type's catalog fail with ErrUnknownState.
func (s *Service) resolveState(ctx context.Context, planTypeID int, ref StateRef) (PlanState, error) {
	if ref.Code != nil {
		return s.stateByCode(ctx, planTypeID, *ref.Code)
	}
	if ref.Slug != "" {
		return s.stateBySlug(ctx, planTypeID, ref.Slug)
	}
	return PlanState{}, ErrUnknownState
}

func scanState(row pgx.Row) (PlanState, error) {
	var st PlanState
	if err := row.Scan(&st.ID, &st.TypeID, &st.Code, &st.Slug, &st.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PlanState{}, ErrUnknownState
		}
		return PlanState{}, err
	}
	return st, nil
}

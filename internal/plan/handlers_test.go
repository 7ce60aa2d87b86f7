package plan

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func newTestApp(mock pgxmock.PgxPoolIface, userID string) *fiber.App {
	app := fiber.New()
	stubAuth := func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	}
	RegisterRoutes(app.Group("/plans"), NewService(mock, nil), stubAuth)
	return app
}

func TestCreatePlanEndpoint(t *testing.T) {
	mock := newMock(t)
	app := newTestApp(mock, "host-1")

	mock.ExpectQuery(`FROM plan_states WHERE plan_type_id=`).
		WithArgs(TypeCustom, 0).
		WillReturnRows(stateRows(customDraft))
	mock.ExpectQuery(`INSERT INTO plans`).
		WithArgs("Asado", "", (*string)(nil), (*time.Time)(nil), (*time.Time)(nil), "host-1", TypeCustom, customDraft.ID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))
	mock.ExpectExec(`INSERT INTO plan_participants`).
		WithArgs(int64(7), "host-1", StatusAccepted).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO plan_participants`).
		WithArgs(int64(7), "friend-a", StatusPending).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	req := httptest.NewRequest("POST", "/plans/", strings.NewReader(`{"name":"Asado","invitee_ids":["friend-a"]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created Plan
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != 7 || created.HostID != "host-1" {
		t.Fatalf("unexpected plan: %+v", created)
	}
}

func TestCreatePlanEndpointRejectsEmptyName(t *testing.T) {
	mock := newMock(t)
	app := newTestApp(mock, "host-1")

	req := httptest.NewRequest("POST", "/plans/", strings.NewReader(`{"invitee_ids":["friend-a"]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetPlanEndpointNotFound(t *testing.T) {
	mock := newMock(t)
	app := newTestApp(mock, "host-1")

	mock.ExpectQuery(`FROM plans WHERE id=`).WithArgs(int64(404)).WillReturnError(pgx.ErrNoRows)

	resp, err := app.Test(httptest.NewRequest("GET", "/plans/404", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetPlanEndpointBadID(t *testing.T) {
	mock := newMock(t)
	app := newTestApp(mock, "host-1")

	resp, err := app.Test(httptest.NewRequest("GET", "/plans/abc", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestListUserPlansEndpointKeepsUserSegment(t *testing.T) {
	mock := newMock(t)
	app := newTestApp(mock, "host-1")

	// the literal "user" path segment must route to the listing, not /:id
	mock.ExpectQuery(`SELECT COUNT`).WithArgs("host-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM plans p WHERE`).WithArgs("host-1", 5, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "place_id", "starts_at", "ends_at", "created_at", "host_id", "plan_type_id", "plan_state_id"}))

	resp, err := app.Test(httptest.NewRequest("GET", "/plans/user/host-1?limit=5", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Pagination.Limit != 5 || page.Pagination.HasMore {
		t.Fatalf("unexpected pagination: %+v", page.Pagination)
	}
}

func TestInvitationsEndpointEmptyArray(t *testing.T) {
	mock := newMock(t)
	app := newTestApp(mock, "host-1")

	mock.ExpectQuery(`JOIN plan_participants pp`).WithArgs("friend-a").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "place_id", "starts_at", "ends_at", "created_at", "host_id", "plan_type_id", "plan_state_id"}))

	resp, err := app.Test(httptest.NewRequest("GET", "/plans/user/friend-a/invitations", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("expected empty JSON array, got %s", body)
	}
}

func TestAcceptEndpoint(t *testing.T) {
	mock := newMock(t)
	app := newTestApp(mock, "friend-a")

	mock.ExpectExec(`UPDATE plan_participants`).
		WithArgs(int64(7), "friend-a", StatusAccepted, (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	resp, err := app.Test(httptest.NewRequest("POST", "/plans/7/accept", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAcceptEndpointNotInvited(t *testing.T) {
	mock := newMock(t)
	app := newTestApp(mock, "stranger")

	mock.ExpectExec(`UPDATE plan_participants`).
		WithArgs(int64(7), "stranger", StatusAccepted, (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	resp, err := app.Test(httptest.NewRequest("POST", "/plans/7/accept", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestParticipationEndpointNullStatus(t *testing.T) {
	mock := newMock(t)
	app := newTestApp(mock, "host-1")

	mock.ExpectQuery(`SELECT status FROM plan_participants`).
		WithArgs(int64(7), "stranger").
		WillReturnError(pgx.ErrNoRows)

	resp, err := app.Test(httptest.NewRequest("GET", "/plans/7/participation/stranger", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"status":null`) {
		t.Fatalf("expected null status, got %s", body)
	}
}

func TestStartEndpointForbiddenForGuest(t *testing.T) {
	mock := newMock(t)
	app := newTestApp(mock, "friend-a")

	p := Plan{ID: 7, HostID: "host-1", CreatedAt: time.Now(), TypeID: TypeCustom, StateID: customDraft.ID}
	mock.ExpectQuery(`FROM plans WHERE id=`).WithArgs(int64(7)).WillReturnRows(planRows(p))

	resp, err := app.Test(httptest.NewRequest("POST", "/plans/7/start", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestChangeStateEndpointAcceptsNumberAndSlug(t *testing.T) {
	tests := []struct {
		name string
		body string
		args []any
		rows *pgxmock.Rows
	}{
		{
			name: "numeric code",
			body: `{"state":2}`,
			args: []any{TypeCustom, 2},
			rows: stateRows(customVoting),
		},
		{
			name: "slug",
			body: `{"state":"voting"}`,
			args: []any{TypeCustom, "voting"},
			rows: stateRows(customVoting),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			app := newTestApp(mock, "host-1")

			p := Plan{ID: 7, HostID: "host-1", CreatedAt: time.Now(), TypeID: TypeCustom, StateID: customStarted.ID}
			mock.ExpectQuery(`FROM plans WHERE id=`).WithArgs(int64(7)).WillReturnRows(planRows(p))
			mock.ExpectQuery(`FROM plan_states WHERE id=`).WithArgs(customStarted.ID).WillReturnRows(stateRows(customStarted))
			mock.ExpectQuery(`FROM plan_states WHERE plan_type_id=`).WithArgs(tt.args...).WillReturnRows(tt.rows)

			updated := p
			updated.StateID = customVoting.ID
			mock.ExpectQuery(`UPDATE plans SET plan_state_id=`).
				WithArgs(int64(7), customStarted.ID, customVoting.ID).
				WillReturnRows(planRows(updated))
			expectExpand(mock, typeCustom, customVoting)

			req := httptest.NewRequest("POST", "/plans/7/state", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if resp.StatusCode != fiber.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
		})
	}
}

func TestChangeStateEndpointRejectsBadReference(t *testing.T) {
	mock := newMock(t)
	app := newTestApp(mock, "host-1")

	req := httptest.NewRequest("POST", "/plans/7/state", strings.NewReader(`{"state":true}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestChangeStateEndpointConflictOnSkip(t *testing.T) {
	mock := newMock(t)
	app := newTestApp(mock, "host-1")

	p := Plan{ID: 7, HostID: "host-1", CreatedAt: time.Now(), TypeID: TypeCustom, StateID: customDraft.ID}
	mock.ExpectQuery(`FROM plans WHERE id=`).WithArgs(int64(7)).WillReturnRows(planRows(p))
	mock.ExpectQuery(`FROM plan_states WHERE id=`).WithArgs(customDraft.ID).WillReturnRows(stateRows(customDraft))
	mock.ExpectQuery(`FROM plan_states WHERE plan_type_id=`).WithArgs(TypeCustom, 3).WillReturnRows(stateRows(customDone))

	req := httptest.NewRequest("POST", "/plans/7/state", strings.NewReader(`{"state":3}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestCastVoteEndpoint(t *testing.T) {
	mock := newMock(t)
	app := newTestApp(mock, "friend-a")

	mock.ExpectQuery(`INSERT INTO place_votes`).
		WithArgs(int64(7), "friend-a", "place-x").
		WillReturnRows(pgxmock.NewRows([]string{"voted_at"}).AddRow(time.Now()))

	req := httptest.NewRequest("POST", "/plans/7/votes", strings.NewReader(`{"place_id":"place-x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
}

func TestCastVoteEndpointRequiresPlace(t *testing.T) {
	mock := newMock(t)
	app := newTestApp(mock, "friend-a")

	req := httptest.NewRequest("POST", "/plans/7/votes", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestFinalizeEndpointNoVotesConflict(t *testing.T) {
	mock := newMock(t)
	app := newTestApp(mock, "host-1")

	p := Plan{ID: 7, HostID: "host-1", CreatedAt: time.Now(), TypeID: TypeCustom, StateID: customVoting.ID}
	mock.ExpectQuery(`FROM plans WHERE id=`).WithArgs(int64(7)).WillReturnRows(planRows(p))
	mock.ExpectQuery(`SELECT place_id FROM place_votes`).WithArgs(int64(7)).WillReturnError(pgx.ErrNoRows)

	resp, err := app.Test(httptest.NewRequest("POST", "/plans/7/votes/finalize", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestDeleteEndpoint(t *testing.T) {
	mock := newMock(t)
	app := newTestApp(mock, "host-1")

	mock.ExpectExec(`DELETE FROM plan_participants`).WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM place_votes`).WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM plans`).WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	resp, err := app.Test(httptest.NewRequest("DELETE", "/plans/7", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}

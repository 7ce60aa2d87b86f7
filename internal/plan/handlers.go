package plan

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var input CreateInput
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if input.HostID == "" {
			input.HostID = callerID(c)
		}
		if input.Name == "" || input.HostID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and host_id required")
		}
		created, err := svc.Create(c.Context(), input)
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/user/:userID", func(c *fiber.Ctx) error {
		page, err := svc.ListUserPlans(c.Context(), c.Params("userID"), c.QueryInt("limit", 10), c.QueryInt("offset", 0))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(page)
	})

	r.Get("/user/:userID/invitations", func(c *fiber.Ctx) error {
		invites, err := svc.PendingInvites(c.Context(), c.Params("userID"))
		if err != nil {
			return httpError(err)
		}
		if invites == nil {
			invites = []Plan{}
		}
		return c.JSON(invites)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		id, err := planID(c)
		if err != nil {
			return err
		}
		p, err := svc.Get(c.Context(), id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(p)
	})

	r.Get("/:id/detail", authMiddleware, func(c *fiber.Ctx) error {
		id, err := planID(c)
		if err != nil {
			return err
		}
		detail, err := svc.Detail(c.Context(), id, callerID(c))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(detail)
	})

	r.Get("/:id/participation/:profileID", func(c *fiber.Ctx) error {
		id, err := planID(c)
		if err != nil {
			return err
		}
		status, err := svc.ParticipationStatus(c.Context(), id, c.Params("profileID"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"status": status})
	})

	r.Post("/:id/accept", authMiddleware, func(c *fiber.Ctx) error {
		id, err := planID(c)
		if err != nil {
			return err
		}
		var body struct {
			DeparturePlaceID *string `json:"departure_place_id"`
		}
		_ = c.BodyParser(&body)
		if err := svc.AcceptInvite(c.Context(), id, callerID(c), body.DeparturePlaceID); err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"success": true})
	})

	r.Post("/:id/decline", authMiddleware, func(c *fiber.Ctx) error {
		id, err := planID(c)
		if err != nil {
			return err
		}
		if err := svc.DeclineInvite(c.Context(), id, callerID(c)); err != nil {
			return httpError(err)
		}
		return c.JSON(fiber.Map{"success": true})
	})

	r.Post("/:id/start", authMiddleware, func(c *fiber.Ctx) error {
		id, err := planID(c)
		if err != nil {
			return err
		}
		p, err := svc.Start(c.Context(), id, callerID(c))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(p)
	})

	r.Post("/:id/state", authMiddleware, func(c *fiber.Ctx) error {
		id, err := planID(c)
		if err != nil {
			return err
		}
		var body struct {
			State any `json:"state"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		ref, err := ParseStateRef(body.State)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "state must be a code or slug")
		}
		p, err := svc.ChangeState(c.Context(), id, callerID(c), ref)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(p)
	})

	r.Post("/:id/votes", authMiddleware, func(c *fiber.Ctx) error {
		id, err := planID(c)
		if err != nil {
			return err
		}
		var body struct {
			PlaceID string `json:"place_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.PlaceID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "place_id required")
		}
		vote, err := svc.CastVote(c.Context(), id, callerID(c), body.PlaceID)
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(vote)
	})

	r.Get("/:id/votes", func(c *fiber.Ctx) error {
		id, err := planID(c)
		if err != nil {
			return err
		}
		status, err := svc.VotingStatus(c.Context(), id)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(status)
	})

	r.Post("/:id/votes/finalize", authMiddleware, func(c *fiber.Ctx) error {
		id, err := planID(c)
		if err != nil {
			return err
		}
		p, err := svc.FinalizeVoting(c.Context(), id, callerID(c))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(p)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		id, err := planID(c)
		if err != nil {
			return err
		}
		if err := svc.Delete(c.Context(), id); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func planID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid plan id")
	}
	return id, nil
}

func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func httpError(err error) *fiber.Error {
	switch {
	case errors.Is(err, ErrPlanNotFound), errors.Is(err, ErrParticipantNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotHost):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, ErrUnknownState):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrNoVotes):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

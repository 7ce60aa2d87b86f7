package location

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/:planID", authMiddleware, func(c *fiber.Ctx) error {
		planID, err := strconv.ParseInt(c.Params("planID"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid plan id")
		}
		var input ParticipantLocation
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		input.PlanID = planID
		if input.ProfileID == "" {
			input.ProfileID, _ = c.Locals("user_id").(string)
		}
		if input.ProfileID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "profile_id required")
		}
		saved, err := svc.Update(c.Context(), input)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(saved)
	})

	r.Get("/:planID", authMiddleware, func(c *fiber.Ctx) error {
		planID, err := strconv.ParseInt(c.Params("planID"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid plan id")
		}
		locations, err := svc.Locations(c.Context(), planID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if locations == nil {
			locations = []ParticipantLocation{}
		}
		return c.JSON(locations)
	})
}

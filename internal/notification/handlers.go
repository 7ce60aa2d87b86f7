package notification

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var input Notification
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if input.ProfileID == "" || input.Text == "" || input.TypeID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "profile_id, text and type_id required")
		}
		created, err := svc.Add(c.Context(), input)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/profile/:profileID", authMiddleware, func(c *fiber.Ctx) error {
		list, err := svc.List(c.Context(), c.Params("profileID"), c.QueryBool("unread", false))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if list == nil {
			list = []Notification{}
		}
		return c.JSON(list)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		id, err := notificationID(c)
		if err != nil {
			return err
		}
		n, err := svc.Get(c.Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(n)
	})

	r.Post("/:id/read", authMiddleware, func(c *fiber.Ctx) error {
		id, err := notificationID(c)
		if err != nil {
			return err
		}
		var body struct {
			ProfileID string `json:"profile_id"`
			Read      *bool  `json:"read"`
		}
		if err := c.BodyParser(&body); err != nil || body.ProfileID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "profile_id required")
		}
		read := true
		if body.Read != nil {
			read = *body.Read
		}
		if err := svc.MarkRead(c.Context(), id, body.ProfileID, read); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"success": true})
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		id, err := notificationID(c)
		if err != nil {
			return err
		}
		profileID := c.Query("profile_id")
		if profileID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "profile_id required")
		}
		if err := svc.Delete(c.Context(), id, profileID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func notificationID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid notification id")
	}
	return id, nil
}

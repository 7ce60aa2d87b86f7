package place

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var input Place
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if input.ID == "" || input.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "id and name required")
		}
		saved, err := svc.Upsert(c.Context(), input)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(saved)
	})

	r.Post("/favorites", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			ProfileID string `json:"profile_id"`
			PlaceID   string `json:"place_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.ProfileID == "" || body.PlaceID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "profile_id and place_id required")
		}
		fav, err := svc.AddFavorite(c.Context(), body.ProfileID, body.PlaceID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fav)
	})

	r.Delete("/favorites/:profileID/:placeID", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.RemoveFavorite(c.Context(), c.Params("profileID"), c.Params("placeID")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/favorites/:profileID", authMiddleware, func(c *fiber.Ctx) error {
		favorites, err := svc.ListFavorites(c.Context(), c.Params("profileID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if favorites == nil {
			favorites = []Favorite{}
		}
		return c.JSON(favorites)
	})
}

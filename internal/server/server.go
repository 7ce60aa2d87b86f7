package server

import (
	"github.com/TomasGoldb/juntifyBack/internal/auth"
	"github.com/TomasGoldb/juntifyBack/internal/config"
	"github.com/TomasGoldb/juntifyBack/internal/location"
	"github.com/TomasGoldb/juntifyBack/internal/notification"
	"github.com/TomasGoldb/juntifyBack/internal/place"
	"github.com/TomasGoldb/juntifyBack/internal/plan"
	"github.com/TomasGoldb/juntifyBack/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	notifications := notification.NewService(s.DB)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	plan.RegisterRoutes(s.App.Group("/plans"), plan.NewService(s.DB, notifications), jwtMiddleware)
	notification.RegisterRoutes(s.App.Group("/notifications"), notifications, jwtMiddleware)
	place.RegisterRoutes(s.App.Group("/places"), place.NewService(s.DB), jwtMiddleware)
	location.RegisterRoutes(s.App.Group("/locations"), location.NewService(s.DB, s.Stream), jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}

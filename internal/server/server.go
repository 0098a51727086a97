package server

import (
	"time"

	"backend-racepath/internal/config"
	"backend-racepath/internal/editor"
	"backend-racepath/internal/progress"
	"backend-racepath/internal/route"
	"backend-racepath/internal/routing"
	"backend-racepath/internal/stream"

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
	Editor *editor.Manager
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

	routeSvc := route.NewService(s.DB, s.Redis, time.Duration(s.Cfg.RouteCacheTTLSeconds)*time.Second)

	var snapClient editor.SnapClient
	if s.Cfg.RoutingBaseURL != "" {
		snapClient = routing.NewClient(s.Cfg.RoutingBaseURL, time.Duration(s.Cfg.RoutingTimeoutMS)*time.Millisecond)
	}
	s.Editor = editor.NewManager(routeSvc, editor.Options{
		SnapClient:       snapClient,
		Debounce:         time.Duration(s.Cfg.SnapDebounceMS) * time.Millisecond,
		SnapTimeout:      time.Duration(s.Cfg.RoutingTimeoutMS) * time.Millisecond,
		MaxControlPoints: s.Cfg.SnapMaxControlPoints,
		Publish:          s.Stream.Broadcast,
	})

	route.RegisterRoutes(s.App.Group("/routes"), routeSvc)
	progress.RegisterRoutes(s.App.Group("/progress"), progress.NewService(s.DB, routeSvc))
	editor.RegisterRoutes(s.App.Group("/editor"), s.Editor)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}

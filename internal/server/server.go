// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"schoolhub/internal/cache"
	"schoolhub/internal/config"
	"schoolhub/internal/database"
	"schoolhub/internal/middleware"
	"schoolhub/internal/repository"
	"schoolhub/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository

	userService    *service.UserService
	postService    *service.PostService
	commentService *service.CommentService
	likeService    *service.LikeService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	prom := middleware.InitMetrics("schoolhub-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		likeRepo:       likeRepo,
	}
	server.userService = service.NewUserService(userRepo)
	server.postService = service.NewPostService(postRepo, userRepo)
	server.commentService = service.NewCommentService(commentRepo, postRepo, userRepo)
	server.likeService = service.NewLikeService(likeRepo, postRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// OpenTelemetry spans (before the context middleware so traceID lands in locals)
	app.Use(middleware.TracingMiddleware())

	// Context middleware to propagate request ID and trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
// Each route maps one named procedure onto its handler.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "SchoolHub Backend Metrics Dashboard",
	}))

	// User routes
	users := api.Group("/users")
	users.Post("/", s.CreateUser)
	users.Get("/", s.GetUsers)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	users.Get("/:id/posts", s.GetPostsByAuthor)
	users.Get("/:id", s.GetUserByID)
	users.Put("/:id", s.UpdateUser)
	users.Delete("/:id", s.DeleteUser)

	// Post routes
	posts := api.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	posts.Get("/", s.GetPosts)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 20, time.Minute, "create_comment"), s.CreateComment)
	posts.Get("/:id/comments", s.GetCommentsByPost)
	posts.Post("/:id/likes", middleware.RateLimit(
		s.redis, 60, time.Minute, "create_like"), s.CreateLike)
	posts.Delete("/:id/likes/:userId", s.RemoveLike)
	posts.Get("/:id", s.GetPostByID)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	// Comment routes
	comments := api.Group("/comments")
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)
}

// LivenessCheck handles GET /health/live
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadinessCheck handles GET /health/ready. It reports not-ready when the
// database is unreachable; a missing Redis only degrades caching.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(c.Context()) != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
		})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

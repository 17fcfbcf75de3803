package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"lms/config"
	courseControllers "lms/controllers/course"
	uploadControllers "lms/controllers/upload"
	"lms/database"
	"lms/logger"
	"lms/middleware"
	"lms/routers/courseRoutes"
	"lms/routers/notificationRoutes"
	"lms/routers/uploadRoutes"
	"lms/services"
	"lms/storage"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	config.LoadConfig()
	if err := logger.Init(config.AppConfig.AppEnv); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Log.Sync()

	database.ConnectDb()
	db := database.Database.Db

	store, err := storage.New(config.AppConfig)
	if err != nil {
		logger.Log.Fatal("storage init failed", "driver", config.AppConfig.StorageDriver, "error", err)
	}
	uploadControllers.Store = store

	emitter := &services.Emitter{Policy: config.AppConfig.Notification}
	if config.AppConfig.SendgridAPIKey != "" {
		emitter.Mailer = utils.NewSendgridMailer(config.AppConfig.SendgridAPIKey, "LMS", config.AppConfig.EmailSender)
	} else {
		emitter.Mailer = utils.ConsoleMailer{}
	}
	if config.AppConfig.IdentityAPIURL != "" {
		emitter.Resolver = utils.NewIdentityClient(config.AppConfig.IdentityAPIURL, config.AppConfig.IdentityAPIKey)
	}
	courseControllers.Emitter = emitter

	scheduler, err := utils.InitializeOutboxScheduler(db, emitter, config.AppConfig.OutboxCron)
	if err != nil {
		logger.Log.Fatal("outbox scheduler init failed", "schedule", config.AppConfig.OutboxCron, "error", err)
	}

	app := fiber.New(fiber.Config{BodyLimit: 600 << 20})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	if config.AppConfig.StorageDriver == "local" {
		app.Static("/uploads", config.AppConfig.UploadDir)
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})

	protected := []fiber.Handler{middleware.JWTMiddleware}
	if config.AppConfig.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: config.AppConfig.RedisAddr, Password: config.AppConfig.RedisPassword})
		limiter, err := middleware.NewFixedWindowLimiter(client, "lms:ratelimit", config.AppConfig.RateLimitPerMinute, time.Minute)
		if err != nil {
			logger.Log.Fatal("rate limiter init failed", "error", err)
		}
		protected = append(protected, middleware.RateLimit(limiter))
	}
	api := app.Group("/api", protected...)

	courseRoutes.SetupCourseRoutes(api)
	courseRoutes.SetupTeacherRoutes(api)
	notificationRoutes.SetupNotificationRoutes(api)
	uploadRoutes.SetupUploadRoutes(api)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Log.Info("Server is running", "port", config.AppConfig.Port)
		return app.Listen(":" + config.AppConfig.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutting down")
		<-scheduler.Stop().Done()
		return app.ShutdownWithTimeout(10 * time.Second)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.Fatal("server stopped", "error", err)
	}
}

// File: policyangel/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"policyangel/config"
	"policyangel/cron"
	"policyangel/database"
	opportunityRepo "policyangel/database/repository/opportunity"
	"policyangel/events"
	"policyangel/handlers"
	"policyangel/middleware"
	"policyangel/models"
	"policyangel/routes"
	"policyangel/services/dispatch"
	"policyangel/services/notification"
	"policyangel/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitStoreClient()
	utils.InitDeviceClient()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories and stores.
	oppRepo := opportunityRepo.NewMongoOpportunityRepo()
	store := notification.NewRedisStore(utils.GetStoreClient())
	registry := dispatch.NewRedisDeviceRegistry(utils.GetDeviceClient())

	// services.
	dispatcher, err := dispatch.NewPushDispatcher(registry, utils.GetStoreClient(), logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize push dispatcher: %v", err)
	}

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 10*time.Second)
	engine, err := notification.New(loadCtx, store, dispatcher, logger)
	cancelLoad()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification engine: %v", err)
	}

	scheduler, err := notification.NewSmartScheduler(engine, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize scheduler: %v", err)
	}

	seeder := notification.NewSeeder(engine, logger)

	// Optional event feed for downstream services.
	if config.AppConfig.RabbitMQURL != "" {
		publisher, err := events.New(config.AppConfig.RabbitMQURL, config.AppConfig.RabbitMQExchange, logger)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to connect event publisher: %v", err)
		}
		defer publisher.Close()

		engine.Subscribe(func(n models.Notification) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := publisher.Publish(ctx, "notification."+string(n.Type), n); err != nil {
				logger.Sugar().Warnf("main: failed to publish notification event: %v", err)
			}
		})
	}

	// Background worker: daily evaluation, tips, digest flushes.
	cron.InitNotificationWorker(engine, scheduler, oppRepo, dispatcher)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetStoreClient(), utils.GetDeviceClient()},
		database.MongoClient,
	)

	// Assemble the route handlers.
	routeHandlers := &routes.Handlers{
		Notification: handlers.NewNotificationHandler(engine),
		Opportunity:  handlers.NewOpportunityHandler(oppRepo, scheduler),
		Device:       handlers.NewDeviceHandler(registry),
		Demo:         handlers.NewDemoHandler(seeder),
		Registry:     registry,
	}
	routes.RegisterRoutes(router, routeHandlers)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

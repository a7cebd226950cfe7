package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"meeting-room-backend/config"
	"meeting-room-backend/controllers"
	"meeting-room-backend/events"
	"meeting-room-backend/models"
	"meeting-room-backend/routes"
	"meeting-room-backend/services"
	"meeting-room-backend/utils"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil {
		log.Info(".env not found, continuing with environment variables")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	db, err := config.ConnectDatabase("meeting_users", &models.User{})
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	if err := config.SeedAdminUser(db); err != nil {
		log.Fatalf("could not seed admin user: %v", err)
	}

	// Redis backs the login rate limit and the reservation event feed. The
	// service stays usable without it.
	var rdb *redis.Client
	redisAddr := utils.EnvOrDefault("REDIS_ADDR", "127.0.0.1:6379")
	rdb = redis.NewClient(&redis.Options{Addr: redisAddr})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("redis unreachable, login throttling and event feed disabled")
		rdb = nil
	}
	pingCancel()

	tokenTTL := 24 * time.Hour
	userService := services.NewUserService(db, jwtSecret, tokenTTL, log)
	authController := controllers.NewAuthController(userService)

	router := routes.SetupUserRouter(authController, rdb, jwtSecret, log)

	subCtx, subCancel := context.WithCancel(context.Background())
	defer subCancel()
	if rdb != nil {
		subscriber := events.NewSubscriber(rdb, os.Getenv("EVENT_CHANNEL"), log)
		go subscriber.Run(subCtx)
	}

	addr := ":" + utils.EnvOrDefault("PORT", "8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infof("user service listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	subCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Info("user service stopped")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"meeting-room-backend/config"
	"meeting-room-backend/controllers"
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

	db, err := config.ConnectDatabase("meeting_rooms", &models.Room{}, &models.BlackoutPeriod{})
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}

	roomService := services.NewRoomService(db, log)
	roomController := controllers.NewRoomController(roomService)

	router := routes.SetupRoomRouter(roomController, jwtSecret, log)

	addr := ":" + utils.EnvOrDefault("PORT", "8081")
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infof("room service listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Info("room service stopped")
}

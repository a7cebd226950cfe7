package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"meeting-room-backend/clients"
	"meeting-room-backend/config"
	"meeting-room-backend/controllers"
	"meeting-room-backend/events"
	"meeting-room-backend/models"
	"meeting-room-backend/repository"
	"meeting-room-backend/routes"
	"meeting-room-backend/services"
	"meeting-room-backend/tasks"
	"meeting-room-backend/utils"
	"meeting-room-backend/worker"
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

	db, err := config.ConnectDatabase("meeting_reservations", &models.Reservation{})
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}

	redisAddr := utils.EnvOrDefault("REDIS_ADDR", "127.0.0.1:6379")
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("redis unreachable at %s: %v", redisAddr, err)
	}
	pingCancel()

	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	workerServer := worker.NewServer(redisOpt, log)
	go workerServer.Start()

	clientTimeout := 5 * time.Second
	roomClient := clients.NewRoomClient(utils.EnvOrDefault("ROOM_SERVICE_URL", "http://127.0.0.1:8081"), clientTimeout, log)
	userClient := clients.NewUserClient(utils.EnvOrDefault("USER_SERVICE_URL", "http://127.0.0.1:8080"), clientTimeout, log)

	store := repository.NewGormReservationStore(db)
	publisher := events.NewRedisPublisher(rdb, os.Getenv("EVENT_CHANNEL"), log)
	notifier := tasks.NewEnqueuer(asynqClient, log)
	policy := config.PolicyFromEnv()

	reservationService := services.NewReservationService(store, roomClient, userClient, publisher, notifier, policy, log)
	reservationController := controllers.NewReservationController(reservationService)

	router := routes.SetupReservationRouter(reservationController, jwtSecret, log)

	addr := ":" + utils.EnvOrDefault("PORT", "8082")
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infof("reservation service listening on %s", addr)
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
	workerServer.Shutdown()
	log.Info("reservation service stopped")
}

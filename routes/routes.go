package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"meeting-room-backend/controllers"
	"meeting-room-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func newEngine(log *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

// SetupUserRouter wires the user service: registration, login and profile
// lookup. Login is rate limited when a Redis client is available.
func SetupUserRouter(ac *controllers.AuthController, rdb *redis.Client, jwtSecret string, log *logrus.Logger) *gin.Engine {
	r := newEngine(log)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", ac.Register)
			if rdb != nil {
				auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute, log), ac.Login)
			} else {
				auth.POST("/login", ac.Login)
			}
		}

		users := api.Group("/users", middleware.Auth(jwtSecret, log))
		{
			users.GET("/me", ac.Me)
			users.GET("/:id", middleware.RequireAdmin(), ac.GetUser)
		}
	}
	return r
}

// SetupRoomRouter wires the room service: inventory reads for everyone
// authenticated, mutations and blackout management for admins.
func SetupRoomRouter(rc *controllers.RoomController, jwtSecret string, log *logrus.Logger) *gin.Engine {
	r := newEngine(log)

	api := r.Group("/api", middleware.Auth(jwtSecret, log))
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", rc.ListRooms)
			rooms.GET("/:id", rc.GetRoom)
			rooms.GET("/:id/blackouts", rc.ListBlackouts)

			admin := rooms.Group("", middleware.RequireAdmin())
			{
				admin.POST("", rc.CreateRoom)
				admin.PUT("/:id", rc.UpdateRoom)
				admin.DELETE("/:id", rc.DeleteRoom)
				admin.POST("/:id/blackouts", rc.CreateBlackout)
				admin.DELETE("/:id/blackouts/:blackout_id", rc.DeleteBlackout)
			}
		}
	}
	return r
}

// SetupReservationRouter wires the reservation service around the admission
// pipeline.
func SetupReservationRouter(rc *controllers.ReservationController, jwtSecret string, log *logrus.Logger) *gin.Engine {
	r := newEngine(log)

	api := r.Group("/api", middleware.Auth(jwtSecret, log))
	{
		reservations := api.Group("/reservations")
		{
			reservations.GET("/availability", rc.CheckAvailability)
			reservations.GET("", rc.List)
			reservations.POST("", rc.Create)
			reservations.GET("/:id", rc.Get)
			reservations.PUT("/:id", rc.Update)
			reservations.DELETE("/:id", rc.Cancel)
		}
	}
	return r
}

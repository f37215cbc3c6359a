package routes

import (
	"net/http"

	"ridepool/internal/config"
	"ridepool/internal/handlers"
	"ridepool/internal/middleware"
	"ridepool/pkg/logger"
	"ridepool/pkg/websocket"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Rides     *handlers.RideHandler
	History   *handlers.HistoryHandler
	Users     *handlers.UserHandler
	Messages  *handlers.MessageHandler
	WebSocket *websocket.Handler
}

// NewRouter builds the engine with the global middleware chain, the /api/v1
// group and the websocket endpoint.
func NewRouter(cfg *config.Config, h *Handlers, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	if cfg.Storage.Provider == "" || cfg.Storage.Provider == "local" {
		router.Static("/uploads", cfg.Storage.Local.BasePath)
	}

	auth := middleware.AuthRequired(cfg.Security.JWTSecret)
	router.GET(cfg.WebSocket.Path, auth, h.WebSocket.HandleWebSocket)

	v1 := router.Group("/api/v1")
	SetupAuthRoutes(v1, h.Auth)

	protected := v1.Group("")
	protected.Use(auth)
	SetupRideRoutes(protected, h.Rides)
	SetupHistoryRoutes(protected, h.History)
	SetupUserRoutes(protected, h.Users)
	SetupMessageRoutes(protected, h.Messages)

	return router
}

func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}
}

func SetupRideRoutes(r *gin.RouterGroup, rideHandler *handlers.RideHandler) {
	rides := r.Group("/rides")
	{
		rides.GET("", rideHandler.SearchRides)
		rides.POST("", rideHandler.OfferRide)
		rides.GET("/mine", rideHandler.MyRides)
		rides.GET("/:id", rideHandler.GetRide)
		rides.PUT("/:id", rideHandler.UpdateRide)

		rides.POST("/:id/requests", rideHandler.SubmitRequest)
		rides.GET("/:id/requests", rideHandler.ListRequests)
		rides.GET("/:id/requests/mine", rideHandler.MyRequest)
	}

	r.PUT("/ride-requests/:id", rideHandler.DecideRequest)
}

func SetupHistoryRoutes(r *gin.RouterGroup, historyHandler *handlers.HistoryHandler) {
	history := r.Group("/ride-history")
	{
		history.GET("", historyHandler.List)
		history.POST("", historyHandler.Create)
		history.PUT("/:id", historyHandler.Update)
	}
}

func SetupUserRoutes(r *gin.RouterGroup, userHandler *handlers.UserHandler) {
	me := r.Group("/users/me")
	{
		me.GET("", userHandler.GetProfile)
		me.PUT("", userHandler.UpdateProfile)
		me.POST("/photo", userHandler.UploadPhoto)
	}

	cars := r.Group("/cars")
	{
		cars.GET("", userHandler.ListCars)
		cars.POST("", userHandler.CreateCar)
		cars.PUT("/:id", userHandler.UpdateCar)
		cars.DELETE("/:id", userHandler.DeleteCar)
	}

	r.GET("/schedules", userHandler.ListSchedules)
	r.POST("/schedules", userHandler.CreateSchedule)
	r.GET("/locations", userHandler.ListLocations)
	r.POST("/locations", userHandler.SaveLocation)
}

func SetupMessageRoutes(r *gin.RouterGroup, messageHandler *handlers.MessageHandler) {
	conversations := r.Group("/conversations")
	{
		conversations.GET("", messageHandler.ListConversations)
		conversations.POST("", messageHandler.CreateConversation)
		conversations.GET("/:id/messages", messageHandler.ListMessages)
		conversations.POST("/:id/messages", messageHandler.SendMessage)
	}
}

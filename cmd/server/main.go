package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/callify/signaling/config"
	"github.com/callify/signaling/internal/handlers"
	"github.com/callify/signaling/internal/middleware"
	"github.com/callify/signaling/internal/relay"
	"github.com/callify/signaling/internal/store"
)

func main() {
	cfg := config.Load()

	production := cfg.Environment == "production"
	if production {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	// Pick the user store backend. Accounts are a separate concern
	// from relay state, which is always process-memory only.
	var users store.Store
	if cfg.Redis.Addr != "" {
		redisStore, err := store.NewRedis(cfg.Redis)
		if err != nil {
			logrus.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		users = redisStore
		logrus.Info("Using Redis user store")
	} else {
		users = store.NewMemory()
		logrus.Info("Using in-memory user store")
	}

	// Start the relay dispatch loop
	hub := relay.NewHub(cfg.Relay)
	go hub.Run()

	router := gin.Default()
	router.Use(handlers.OriginFilter(cfg.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/signup", handlers.SignUp(users, cfg.JWTSecret, production))
		authGroup.POST("/login", handlers.Login(users, cfg.JWTSecret, production))
		authGroup.POST("/logout", handlers.Logout(production))
	}

	userGroup := router.Group("/api/users", middleware.JWTAuth(cfg.JWTSecret))
	{
		userGroup.GET("", handlers.ListUsers(users))
		userGroup.GET("/search", handlers.SearchUser(users))
	}
	router.GET("/api/user/:id", middleware.JWTAuth(cfg.JWTSecret), handlers.GetUser(users))

	// WebSocket signaling endpoint
	router.GET("/ws", handlers.HandleRelay(hub))

	logrus.Infof("Starting signaling server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}

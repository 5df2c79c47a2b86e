package api

import (
	"net/http"
	"time"

	"alcyxob/donation-share/internal/logger"
	"alcyxob/donation-share/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Services groups what the HTTP layer depends on.
type Services struct {
	Auth      service.AuthService
	Donations service.DonationService
	Uploads   service.UploadService
}

// NewRouter builds a gin engine with recovery, request logging and CORS.
func NewRouter(allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logger.RequestLogger(logrus.StandardLogger()))

	corsCfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = allowedOrigins
	}
	router.Use(cors.New(corsCfg))
	return router
}

// SetupRoutes wires handlers onto router.
func SetupRoutes(router *gin.Engine, jwtSecret string, svcs Services) {
	authHandler := NewAuthHandler(svcs.Auth)
	donationHandler := NewDonationHandler(svcs.Donations)
	uploadHandler := NewUploadHandler(svcs.Uploads)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// Read paths are public
	router.GET("/donations", donationHandler.ListDonations)
	router.GET("/donations/:id", donationHandler.GetDonation)

	protected := router.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)
		protected.POST("/donations", donationHandler.CreateDonation)
		protected.POST("/uploads", uploadHandler.RequestUploadURL)
		protected.DELETE("/uploads", uploadHandler.DeleteUpload)
	}
}

package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpHandler "github.com/FatihZee/tele-bot/interfaces/http"
	"github.com/FatihZee/tele-bot/interfaces/middleware"
)

func InitiateRouter(
	authHandler httpHandler.IAuthHandler,
	videoHandler httpHandler.IVideoHandler,
	secretKey string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return origin == "http://localhost:4200" || origin == "http://localhost:3000"
		},
		MaxAge: 12 * time.Hour,
	}))

	// Liveness probe for the container platform
	router.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "tele-bot is running")
	})

	router.POST("/login", authHandler.Login)

	api := router.Group("api")
	api.Use(middleware.Auth(secretKey))

	api.GET("/videos", videoHandler.List)
	api.GET("/stats", videoHandler.Stats)

	return router
}

package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"proctor-quiz-service/internal/app"
)

// Options configures the HTTP surface.
type Options struct {
	// HideAnswers withholds the correct option index from /api/questions.
	HideAnswers bool
	// AllowedOrigins restricts CORS and websocket origins; empty allows all.
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// NewRouter wires the quiz API, the results feed and the ambient middleware.
func NewRouter(service *app.QuizService, opts Options) *gin.Engine {
	setupValidator()

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(opts.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = opts.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", headerRequestID}
	corsConfig.ExposeHeaders = []string{headerRequestID}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(RequestID())
	router.Use(AccessLog(opts.Logger))

	handler := NewHandler(service, opts.HideAnswers, opts.Logger)
	wsHandler := NewWSHandler(service, opts.AllowedOrigins, opts.Logger)

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := router.Group("/api")
	{
		api.GET("/questions", handler.Questions)
		api.POST("/submit", handler.Submit)
		api.GET("/results", handler.Results)
	}
	router.GET("/ws/results", wsHandler.ServeWS)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	})
	return router
}

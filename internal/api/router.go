package api

import (
	"github.com/ChaseRain/lpgen/internal/infra/logger"
	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	AllowOrigins   []string
	MaxUploadBytes int64
}

func NewRouter(handler *Handler, opts RouterOptions, log *logger.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(log))
	r.Use(corsMiddleware(opts.AllowOrigins))
	r.Use(limitBody(opts.MaxUploadBytes))

	r.GET("/", handler.Root)
	r.GET("/health", handler.Health)

	r.POST("/analyze-image", handler.AnalyzeImage)
	r.POST("/generate-content", handler.GenerateContent)
	r.POST("/generate-from-image", handler.GenerateFromImage)

	return r
}

package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter builds the gin engine: CORS, panic recovery, request log,
// the health probe, and the single multiplexed assistant endpoint.
func NewRouter(handler *Handler, baseLogger *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(Recovery(baseLogger), CORS(), RequestLog(baseLogger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "artha-onboard",
		})
	})

	router.POST("/api/assistant", handler.Assistant)
	// Preflights are answered by the CORS middleware; the route only
	// needs to exist so gin doesn't 404 them first.
	router.OPTIONS("/api/assistant", func(c *gin.Context) {})

	return router
}

package api

import (
	"github.com/gin-gonic/gin"

	"github.com/octank-fsi/dialog-agent/internal/conversation"
	"github.com/octank-fsi/dialog-agent/internal/dialog/engine"
)

// NewRouter wires the HTTP surface.
func NewRouter(e *engine.Engine, store conversation.Store) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogging())

	router.GET("/health", HealthHandler())
	router.POST("/dialog", DialogHandler(e))
	router.POST("/conversations/reset", ResetConversationHandler(store))

	return router
}

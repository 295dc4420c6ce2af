// Package api exposes the dialog engine over HTTP: one endpoint per dialog
// turn, mirroring the invocation contract of the upstream dialog engine, plus
// a conversation-reset endpoint for starting a fresh chat thread.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/octank-fsi/dialog-agent/internal/conversation"
	errx "github.com/octank-fsi/dialog-agent/internal/core/error"
	"github.com/octank-fsi/dialog-agent/internal/dialog/engine"
	"github.com/octank-fsi/dialog-agent/internal/dialog/model"
	logx "github.com/octank-fsi/dialog-agent/pkg/logger"
)

// DialogHandler handles one dialog turn: bind the request, dispatch through
// the engine, return the wire-shaped response.
func DialogHandler(e *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.DialogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed dialog request"})
			return
		}

		resp, err := e.Dispatch(c.Request.Context(), &req)
		if err != nil {
			status, message := statusOf(err)
			logx.Error().Err(err).Str("intent", req.SessionState.Intent.Name).Msg("dialog turn failed")
			c.JSON(status, gin.H{"error": message})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

type resetRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// ResetConversationHandler bumps the user's chat index so the next turn
// starts an empty conversation thread.
func ResetConversationHandler(store conversation.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}

		index, err := store.StartNewChat(c.Request.Context(), req.UserID)
		if err != nil {
			status, message := statusOf(err)
			c.JSON(status, gin.H{"error": message})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": req.UserID, "chat_index": index})
	}
}

func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func statusOf(err error) (int, string) {
	var appErr *errx.AppError
	if errors.As(err, &appErr) {
		return appErr.Status, appErr.Message
	}
	return http.StatusInternalServerError, errx.SystemErrorMessage
}

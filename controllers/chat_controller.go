package controllers

import (
	"net/http"

	"mindgrove/services"
	"mindgrove/structs"

	"github.com/gin-gonic/gin"
)

// Chat forwards a message to the AI companion. The companion degrades
// to a fixed supportive reply internally, so failures here are limited
// to bad input and rate limiting.
func Chat(ctx *gin.Context) {
	userID := ctx.GetString("userID")

	var request structs.ChatRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	allowed, err := limiter.AllowChat(userID, limits)
	if err != nil {
		log.WithError(err).Error("rate limit check failed")
	}
	if !allowed {
		ctx.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many messages, slow down"})
		return
	}

	reply, err := companion.SendMessage(ctx.Request.Context(), request.Message, request.Context)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Chat failed", "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, reply)
}

// ResetChat starts a fresh companion conversation.
func ResetChat(ctx *gin.Context) {
	companion.Reset()
	ctx.JSON(http.StatusOK, gin.H{"message": "Conversation reset"})
}

// GetWellnessTip returns one tip from the fixed rotation.
func GetWellnessTip(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"tip": services.WellnessTip()})
}

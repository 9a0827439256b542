package controllers

import (
	"context"
	"net/http"
	"time"

	"mindgrove/models"
	"mindgrove/services"
	"mindgrove/structs"
	"mindgrove/utils"

	"github.com/gin-gonic/gin"
)

// activeSessionUser returns the in-memory profile when the caller is
// the user the session manager currently holds, nil otherwise.
func activeSessionUser(ctx *gin.Context) *models.Profile {
	user := sessions.CurrentUser()
	if user != nil && user.ID == ctx.GetString("userID") {
		return user
	}
	return nil
}

// GetProfile returns the caller's profile. A missing row is not an
// error: the response degrades to a profile synthesized from the token
// identity, same as the session manager's fallback.
func GetProfile(ctx *gin.Context) {
	if user := activeSessionUser(ctx); user != nil {
		ctx.JSON(http.StatusOK, user)
		return
	}

	userID := ctx.GetString("userID")
	if profile := sessions.LoadUserProfile(ctx.Request.Context(), userID); profile != nil {
		ctx.JSON(http.StatusOK, profile)
		return
	}

	name := ctx.GetString("userName")
	email := ctx.GetString("userEmail")
	if name == "" {
		name = utils.ExtractNameFromEmail(email)
	}
	ctx.JSON(http.StatusOK, models.NewProfile(userID, name, email))
}

// UpdateProfile applies a partial profile update. The write is
// optimistic: the caller always gets the merged profile back, even when
// the store write fails or times out.
func UpdateProfile(ctx *gin.Context) {
	var request structs.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	update := services.ProfileUpdate{
		Name:  request.Name,
		Bio:   request.Bio,
		Goals: request.Goals,
	}

	if activeSessionUser(ctx) != nil {
		if err := sessions.UpdateProfile(ctx.Request.Context(), update); err != nil {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		ctx.JSON(http.StatusOK, sessions.CurrentUser())
		return
	}

	// Caller is not the active session user; write straight to the
	// store under the same deadline and contract.
	userID := ctx.GetString("userID")
	writeCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()
	if err := profiles.UpdateProfile(writeCtx, userID, update); err != nil {
		log.WithError(err).Error("profile update not persisted")
	}

	if profile := sessions.LoadUserProfile(ctx.Request.Context(), userID); profile != nil {
		ctx.JSON(http.StatusOK, profile)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Profile update accepted"})
}

package controllers

import (
	"net/http"

	"mindgrove/structs"
	"mindgrove/utils"

	"github.com/gin-gonic/gin"
)

// SignUp registers a new account and creates the initial profile.
func SignUp(ctx *gin.Context) {
	var request structs.SignUpRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	name := request.Name
	if name == "" {
		name = utils.ExtractNameFromEmail(request.Email)
	}

	user, err := sessions.Register(ctx.Request.Context(), name, request.Email, request.Password)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign up", "message": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Sign-up successful", "user": user})
}

// Login authenticates and returns the provider's access token.
func Login(ctx *gin.Context) {
	var request structs.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": "Check email and password format"})
		return
	}

	session, err := sessions.Login(ctx.Request.Context(), request.Email, request.Password)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to sign in", "message": "Invalid email or password"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":     "Sign-in successful",
		"accessToken": session.AccessToken,
		"user":        session.User,
	})
}

// Logout signs the active session out.
func Logout(ctx *gin.Context) {
	if err := sessions.Logout(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign out", "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Sign-out successful"})
}

// VerifyToken checks a token against the identity provider and returns
// the identity it belongs to.
func VerifyToken(ctx *gin.Context) {
	var request structs.VerifyTokenRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	user, err := validator.UserFromToken(ctx.Request.Context(), request.Token)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "Invalid or expired token"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"valid": true, "user": user})
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trust-assembly/headline-engine/server/auth"
	"github.com/trust-assembly/headline-engine/server/middlewares"
	Logger "github.com/trust-assembly/headline-engine/utils/log"
)

type tokenRequest struct {
	Token string `json:"token"`
}

type userView struct {
	Id          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// LoginHandler exchanges a verified identity token for the linked user. An
// identity without an account is a 401, not an implicit registration.
func (h *Handlers) LoginHandler(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	payload, err := middlewares.VerifyToken(c.Request.Context(), req.Token)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	user, err := h.Store.GetUserByIdentity("google", payload.Subject)
	if err != nil {
		Logger.Log.Errorf("login lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    userView{Id: user.Id, Email: user.Email, DisplayName: user.DisplayName},
	})
}

// RegisterHandler creates an account for a verified identity. Registering an
// already-linked identity returns the existing account.
func (h *Handlers) RegisterHandler(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	payload, err := middlewares.VerifyToken(c.Request.Context(), req.Token)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	user, err := h.Store.RegisterUser(payload.Name, payload.Email, "google", payload.Subject)
	if err != nil {
		Logger.Log.Errorf("register error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    userView{Id: user.Id, Email: user.Email, DisplayName: user.DisplayName},
	})
}

// MeHandler returns the authenticated user resolved by the identity
// middleware.
func (h *Handlers) MeHandler(c *gin.Context) {
	userID := c.Request.Header.Get("sub")
	user, err := h.Store.GetUserByID(userID)
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": userView{Id: user.Id, Email: user.Email, DisplayName: user.DisplayName},
	})
}

// respondAuthError maps the token error taxonomy onto statuses: malformed
// tokens are the caller's fault, failed verification is an auth failure.
func respondAuthError(c *gin.Context, err error) {
	switch err.(type) {
	case *auth.DecodeError:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token: " + err.Error()})
	case *auth.VerificationError:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Signature invalid: " + err.Error()})
	default:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
	}
}

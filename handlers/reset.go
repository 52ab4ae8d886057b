package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/expensetrackr/expense-api/models"
	"github.com/expensetrackr/expense-api/services"
)

type ResetHandler struct {
	Service *services.ResetService
}

// resetRequestMessage is returned whether or not the email has an account,
// so the endpoint cannot be used to enumerate registered addresses.
const resetRequestMessage = "If the email exists, a reset key has been sent"

func (h *ResetHandler) RequestReset(c *gin.Context) {
	var req models.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.Request(req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process reset request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": resetRequestMessage})
}

func (h *ResetHandler) VerifyReset(c *gin.Context) {
	var req models.PasswordResetVerify
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Service.Verify(req.Email, req.ResetKey, req.NewPassword)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully"})
	case errors.Is(err, services.ErrInvalidKey):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset key"})
	case errors.Is(err, services.ErrKeyExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reset key has expired. Please request a new one."})
	case errors.Is(err, services.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters long"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
	}
}

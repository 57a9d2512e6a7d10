package handlers

import (
	"net/http"

	"richsnake_backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListReferred returns the users the caller referred, the total score
// earned from them and the caller's own share code.
func (h *Handler) ListReferred(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()

	code, err := h.Referrals.GetOrCreateCode(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get referral code"})
		return
	}

	referred, total, err := h.Referrals.ListReferred(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list referred users"})
		return
	}
	if referred == nil {
		referred = []repository.ReferredEntry{}
	}

	c.JSON(http.StatusOK, gin.H{
		"referred_users":        referred,
		"total_referral_score":  total,
		"referral_code_of_user": code,
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             user.ID,
		"tg_id":          user.TgID,
		"username":       user.Username,
		"first_name":     user.FirstName,
		"score":          user.Score,
		"balance":        user.Balance,
		"record":         user.Record,
		"wallet_address": user.WalletAddress,
		"avatar":         user.AvatarURL,
		"date_joined":    user.CreatedAt,
	})
}

type WalletRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
}

// UpdateWallet sets the user's payout wallet address.
func (h *Handler) UpdateWallet(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req WalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet_address is required"})
		return
	}

	if err := h.Users.UpdateWallet(c.Request.Context(), userID, req.WalletAddress); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update wallet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "wallet address updated"})
}

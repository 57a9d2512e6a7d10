package handlers

import (
	"errors"
	"net/http"

	"richsnake_backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type WithdrawRequestBody struct {
	Amount        int64  `json:"amount"`
	WalletAddress string `json:"wallet_address"`
}

// CreateWithdrawal files a cash-out request. The balance debit happens
// inside the same transaction as the insert, so a request that fails
// validation or funds check changes nothing.
func (h *Handler) CreateWithdrawal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req WithdrawRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount format"})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "withdrawal amount must be positive"})
		return
	}

	ctx := c.Request.Context()

	// Fall back to the wallet stored on the profile.
	wallet := req.WalletAddress
	if wallet == "" {
		user, err := h.Users.GetByID(ctx, userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		wallet = user.WalletAddress
	}
	if wallet == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet address is required"})
		return
	}

	w := &domain.WithdrawRequest{
		UserID:        userID,
		Amount:        req.Amount,
		WalletAddress: wallet,
		Status:        domain.WithdrawalStatusPending,
	}
	if err := h.Withdrawals.CreateWithDebit(ctx, w); err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create withdrawal request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":          "withdrawal request created",
		"withdraw_request": w,
	})
}

// ListWithdrawals returns the caller's withdrawal requests.
func (h *Handler) ListWithdrawals(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	requests, err := h.Withdrawals.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list withdrawals"})
		return
	}
	if requests == nil {
		requests = []domain.WithdrawRequest{}
	}

	c.JSON(http.StatusOK, gin.H{"withdraw_requests": requests})
}

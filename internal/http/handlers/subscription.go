package handlers

import (
	"errors"
	"net/http"
	"time"

	"richsnake_backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// subscriptionCostBalance is the in-app balance price of a subscription,
// distinct from the Stars price charged through the invoice flow.
const subscriptionCostBalance = 1

// GetSubscription returns the caller's current subscription status.
func (h *Handler) GetSubscription(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sub, err := h.Subscriptions.GetActive(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"id":          0,
				"expire_time": time.Now(),
				"is_active":   false,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          sub.ID,
		"expire_time": sub.ExpireTime,
		"is_active":   sub.IsActive(time.Now()),
	})
}

// BuySubscription purchases a subscription with in-app balance. The
// debit and the subscription replacement commit together; on any failure
// the balance is untouched.
func (h *Handler) BuySubscription(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	expire := time.Now().Add(time.Duration(h.Cfg.SubscriptionDays) * 24 * time.Hour)
	err := h.Subscriptions.PurchaseWithBalance(c.Request.Context(), userID, subscriptionCostBalance, expire)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to purchase subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "subscription purchased successfully"})
}

// BuySubscriptionInvoice starts the in-platform payment flow and returns
// the invoice link; the webhook finishes the purchase.
func (h *Handler) BuySubscriptionInvoice(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	link, err := h.InvoiceService.CreateSubscriptionInvoice(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUpstreamUnavailable) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create invoice"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice_link": link})
}

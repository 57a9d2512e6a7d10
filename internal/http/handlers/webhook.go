package handlers

import (
	"net/http"

	"richsnake_backend/internal/http/middleware"
	"richsnake_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentWebhook consumes payment provider callbacks. Business failures
// (duplicates, unknown or malformed orders) still answer HTTP 200 with a
// "fail" body so the provider does not retry a permanently unprocessable
// event; only an unrecognized payload shape gets a client error. The
// outcome counter and server logs carry the business truth.
func (h *Handler) PaymentWebhook(c *gin.Context) {
	var update service.WebhookUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		middleware.WebhookOutcomes.WithLabelValues(string(service.OutcomeNoUpdate)).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"status": "no payment update found"})
		return
	}

	outcome := h.PaymentService.HandleWebhook(c.Request.Context(), update)
	middleware.WebhookOutcomes.WithLabelValues(string(outcome)).Inc()

	switch outcome {
	case service.OutcomeApproved, service.OutcomePaid:
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	case service.OutcomeRejected:
		c.JSON(http.StatusOK, gin.H{"status": "fail"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"status": "no payment update found"})
	}
}

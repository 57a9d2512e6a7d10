package handlers

import (
	"net/http"

	"richsnake_backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// ListPrizes returns the prize catalogue.
func (h *Handler) ListPrizes(c *gin.Context) {
	prizes, err := h.Prizes.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list prizes"})
		return
	}
	if prizes == nil {
		prizes = []domain.Prize{}
	}

	c.JSON(http.StatusOK, gin.H{"prize_list": prizes})
}

package handlers

import (
	"errors"
	"net/http"

	"richsnake_backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type ScoreRequest struct {
	Score int64 `json:"score"`
}

// AddScore adds a game result to the user's score and tracks their best
// single run in record.
func (h *Handler) AddScore(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Score < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid score value"})
		return
	}

	newScore, err := h.Users.AddScore(c.Request.Context(), userID, req.Score)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update score"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "score updated", "new_score": newScore})
}

// SetScore overwrites the user's score outright.
func (h *Handler) SetScore(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Score <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid score value"})
		return
	}

	if err := h.Users.SetScore(c.Request.Context(), userID, req.Score); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update score"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "score updated", "new_score": req.Score})
}

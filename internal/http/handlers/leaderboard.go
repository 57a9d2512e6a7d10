package handlers

import (
	"net/http"

	"richsnake_backend/internal/repository"

	"github.com/gin-gonic/gin"
)

const leaderboardSize = 100

// Leaderboard returns the top users by score together with the caller's
// rank and profile.
func (h *Handler) Leaderboard(c *gin.Context) {
	h.rankedListing(c, false)
}

// Prizers returns the top users by spendable balance, same shape as the
// score leaderboard.
func (h *Handler) Prizers(c *gin.Context) {
	h.rankedListing(c, true)
}

func (h *Handler) rankedListing(c *gin.Context, byBalance bool) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()

	var (
		top  []repository.LeaderboardEntry
		rank int
		err  error
	)
	if byBalance {
		top, err = h.Users.GetTopByBalance(ctx, leaderboardSize)
	} else {
		top, err = h.Users.GetTopByScore(ctx, leaderboardSize)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}
	if top == nil {
		top = []repository.LeaderboardEntry{}
	}

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if byBalance {
		rank, err = h.Users.GetRankByBalance(ctx, userID)
	} else {
		rank, err = h.Users.GetRankByScore(ctx, userID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute rank"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderBoard": top,
		"user_rank":   rank,
		"user":        user,
	})
}

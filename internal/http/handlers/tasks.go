package handlers

import (
	"errors"
	"net/http"

	"richsnake_backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// ListTasks returns the task catalogue split into completed and
// incomplete for the caller.
func (h *Handler) ListTasks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	completed, incomplete, err := h.Tasks.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}

	if completed == nil {
		completed = []domain.Task{}
	}
	if incomplete == nil {
		incomplete = []domain.Task{}
	}

	c.JSON(http.StatusOK, gin.H{
		"completed_tasks":  completed,
		"incomplete_tasks": incomplete,
	})
}

type CompleteTaskRequest struct {
	TaskID int64 `json:"task_id" binding:"required"`
}

// CompleteTask marks a task done and transfers its one-time reward.
func (h *Handler) CompleteTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CompleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task_id is required"})
		return
	}

	task, err := h.Tasks.Complete(c.Request.Context(), userID, req.TaskID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		case errors.Is(err, domain.ErrAlreadyCompleted):
			c.JSON(http.StatusBadRequest, gin.H{"error": "task already completed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete task"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "task completed",
		"task_id":     task.ID,
		"reward":      task.Reward,
		"reward_kind": task.RewardKind,
	})
}

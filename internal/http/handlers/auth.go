package handlers

import (
	"errors"
	"net/http"
	"strings"

	"richsnake_backend/internal/domain"
	"richsnake_backend/internal/logger"
	"richsnake_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	InitData string `json:"init_data"`
}

// Auth verifies the signed Telegram launch payload, creates or refreshes
// the account and issues a bearer token. First-time users get a referral
// code and a trial subscription; a start_param referral code credits the
// referrer once.
func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if len(req.InitData) > 4096 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "init_data too long"})
		return
	}

	values, err := service.ValidateInitData(req.InitData, h.Cfg.BotToken)
	if err != nil {
		if errors.Is(err, domain.ErrAuthExpired) {
			c.JSON(http.StatusForbidden, gin.H{"error": "session expired"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid telegram data"})
		return
	}

	tgUser, err := service.ParseWebAppUser(values)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user json"})
		return
	}

	ctx := c.Request.Context()

	user := &domain.User{
		TgID:      tgUser.ID,
		Username:  tgUser.Username,
		FirstName: tgUser.FirstName,
	}
	created, err := h.Users.CreateOrUpdate(ctx, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	// Best-effort avatar fetch. Upstream hiccups must not block login.
	if h.Telegram != nil {
		if url, err := h.Telegram.UserPhotoURL(user.TgID); err != nil {
			logger.Warn("failed to fetch user photo", "tg_id", user.TgID, "error", err)
		} else if url != "" {
			if err := h.Users.SetAvatar(ctx, user.ID, url); err == nil {
				user.AvatarURL = url
			}
		}
	}

	if created {
		if _, err := h.Referrals.GetOrCreateCode(ctx, user.ID); err != nil {
			logger.Error("failed to create referral code", "user_id", user.ID, "error", err)
		}
		if err := h.Subscriptions.CreateTrial(ctx, user.ID, h.Cfg.TrialDays); err != nil {
			logger.Error("failed to create trial subscription", "user_id", user.ID, "error", err)
		}
	}

	if code := strings.TrimPrefix(values.Get("start_param"), "ref_"); code != "" {
		referrerID, err := h.Referrals.GetReferrerByCode(ctx, code)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid referral code"})
			return
		}
		// Credit only on the referred user's first appearance; repeat
		// launches through the same link are no-ops.
		if created && referrerID != user.ID {
			if err := h.Referrals.CreateReferredUser(ctx, referrerID, user.ID, h.Cfg.ReferralReward); err != nil {
				logger.Error("failed to record referral", "referrer_id", referrerID, "referred_id", user.ID, "error", err)
			}
		}
	}

	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"is_new_user": created,
		"user": gin.H{
			"id":         user.ID,
			"tg_id":      user.TgID,
			"username":   user.Username,
			"first_name": user.FirstName,
			"score":      user.Score,
			"balance":    user.Balance,
			"avatar":     user.AvatarURL,
		},
	})
}

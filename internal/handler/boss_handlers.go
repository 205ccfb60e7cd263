package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifequest-server/internal/model"
	"lifequest-server/internal/service"
)

// completeBossFight закрывает текущий месячный проект и открывает следующий.
func (h *ProgressHandler) completeBossFight(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req BossCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	h.logger.Info("Completing boss fight",
		zap.Stringer("userID", userID), zap.Bool("defeated", req.Defeated))

	result, err := h.service.CompleteBossFight(c.Request.Context(), userID, service.BossCompletionInput{
		Defeated:   req.Defeated,
		Learnings:  req.Learnings,
		NewProject: req.NewProject,
		Vision:     req.Vision,
		AntiVision: req.AntiVision,
	})
	if err != nil {
		if !errors.Is(err, service.ErrProjectRequired) {
			h.logger.Error("Error completing boss fight", zap.Stringer("userID", userID), zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}

	outcome := "failed"
	if req.Defeated {
		outcome = "defeated"
	}
	bossCompletionsTotal.WithLabelValues(outcome).Inc()
	if result.LeveledUp {
		levelUpsTotal.Inc()
	}

	c.JSON(http.StatusOK, result)
}

// updateBossProgress выставляет процент прогресса активного босса.
func (h *ProgressHandler) updateBossProgress(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req BossProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.service.UpdateBossProgress(c.Request.Context(), userID, *req.Progress); err != nil {
		if !errors.Is(err, model.ErrNotFound) && !errors.Is(err, service.ErrInvalidProgress) {
			h.logger.Error("Error updating boss progress", zap.Stringer("userID", userID), zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

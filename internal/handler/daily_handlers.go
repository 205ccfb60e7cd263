package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifequest-server/internal/model"
	"lifequest-server/internal/service"
)

// toggleLever переключает отметку выполнения рычага в сегодняшнем логе.
func (h *ProgressHandler) toggleLever(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	idStr := c.Param("id")
	leverID, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Warn("Invalid lever ID format", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid lever ID format"})
		return
	}

	result, err := h.service.ToggleLever(c.Request.Context(), userID, leverID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) && !errors.Is(err, service.ErrLeverInactive) {
			h.logger.Error("Error toggling lever",
				zap.Stringer("userID", userID), zap.Stringer("leverID", leverID), zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}

	state := "uncompleted"
	if result.Completed {
		state = "completed"
	}
	leverTogglesTotal.WithLabelValues(state).Inc()
	if result.LeveledUp {
		levelUpsTotal.Inc()
	}

	c.JSON(http.StatusOK, result)
}

// submitDirectionCheck фиксирует направление дня.
func (h *ProgressHandler) submitDirectionCheck(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req DirectionCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.service.SubmitDirectionCheck(c.Request.Context(), userID, model.Direction(req.Direction), req.Comment)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidDirection) && !errors.Is(err, service.ErrCommentRequired) {
			h.logger.Error("Error submitting direction check", zap.Stringer("userID", userID), zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}

	directionChecksTotal.WithLabelValues(req.Direction).Inc()
	if result.LeveledUp {
		levelUpsTotal.Inc()
	}

	c.JSON(http.StatusOK, result)
}

// listLogs возвращает дневные логи за запрошенное окно (по умолчанию неделя).
func (h *ProgressHandler) listLogs(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	days := 7
	if daysStr := c.Query("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, APIError{Message: "Invalid 'days' parameter"})
			return
		}
		if parsed > 90 {
			parsed = 90
		}
		days = parsed
	}

	logs, err := h.service.WeeklyLogs(c.Request.Context(), userID, days)
	if err != nil {
		h.logger.Error("Error listing daily logs", zap.Stringer("userID", userID), zap.Error(err))
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

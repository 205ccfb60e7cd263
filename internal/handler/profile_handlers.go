package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lifequest-server/internal/model"
	"lifequest-server/internal/service"
)

// getDashboard возвращает агрегат главного экрана.
func (h *ProgressHandler) getDashboard(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	dashboard, err := h.service.Dashboard(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Error building dashboard", zap.Stringer("userID", userID), zap.Error(err))
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// getProgress возвращает снимок прогрессии пользователя.
func (h *ProgressHandler) getProgress(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	summary, err := h.service.GetProgress(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Error getting progress", zap.Stringer("userID", userID), zap.Error(err))
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// listAchievements возвращает достижения пользователя.
func (h *ProgressHandler) listAchievements(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	achievements, err := h.service.ListAchievements(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Error listing achievements", zap.Stringer("userID", userID), zap.Error(err))
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}

// finalizeOnboarding создает лист персонажа, стартовые рычаги и первый босс-файт.
func (h *ProgressHandler) finalizeOnboarding(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	h.logger.Info("Finalizing onboarding", zap.Stringer("userID", userID))

	err := h.service.FinalizeOnboarding(c.Request.Context(), userID, service.OnboardingInput{
		AntiVision:   req.AntiVision,
		Vision:       req.Vision,
		YearGoal:     req.YearGoal,
		MonthProject: req.MonthProject,
		Constraints:  req.Constraints,
		LeverTexts:   req.Levers,
	})
	if err != nil {
		if !errors.Is(err, service.ErrProjectRequired) {
			h.logger.Error("Error finalizing onboarding", zap.Stringer("userID", userID), zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// updateCharacterSheet применяет частичное обновление листа персонажа.
func (h *ProgressHandler) updateCharacterSheet(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req UpdateSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	err := h.service.UpdateCharacterSheet(c.Request.Context(), userID, model.CharacterSheetUpdate{
		AntiVision:   req.AntiVision,
		Vision:       req.Vision,
		YearGoal:     req.YearGoal,
		MonthProject: req.MonthProject,
		Constraints:  req.Constraints,
	})
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			h.logger.Error("Error updating character sheet", zap.Stringer("userID", userID), zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// editQuestList приводит список рычагов к переданному.
func (h *ProgressHandler) editQuestList(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req EditQuestListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	items := make([]service.QuestItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.QuestItem{
			ID:        item.ID,
			LeverText: item.LeverText,
			XPValue:   item.XPValue,
			Position:  i,
		}
	}

	levers, err := h.service.EditQuestList(c.Request.Context(), userID, items)
	if err != nil {
		if !errors.Is(err, service.ErrEmptyQuestList) {
			h.logger.Error("Error editing quest list", zap.Stringer("userID", userID), zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"levers": levers})
}

// completeReflection сохраняет еженедельную рефлексию.
func (h *ProgressHandler) completeReflection(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	var req ReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.service.CompleteWeeklyReflection(c.Request.Context(), userID, service.ReflectionInput{
		MostAlive:       req.MostAlive,
		MostDead:        req.MostDead,
		PatternNoticed:  req.PatternNoticed,
		AntiVisionCheck: req.AntiVisionCheck,
		LeversAdjusted:  req.LeversAdjusted,
		ProjectProgress: req.ProjectProgress,
	})
	if err != nil {
		if !errors.Is(err, service.ErrInvalidProgress) {
			h.logger.Error("Error completing reflection", zap.Stringer("userID", userID), zap.Error(err))
		}
		h.handleServiceError(c, err)
		return
	}

	reflectionsTotal.Inc()
	if result.LeveledUp {
		levelUpsTotal.Inc()
	}

	c.JSON(http.StatusCreated, result)
}

// listReflections возвращает рефлексии за запрошенное окно недель.
func (h *ProgressHandler) listReflections(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	weeks := 12
	if weeksStr := c.Query("weeks"); weeksStr != "" {
		parsed, err := strconv.Atoi(weeksStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, APIError{Message: "Invalid 'weeks' parameter"})
			return
		}
		if parsed > 52 {
			parsed = 52
		}
		weeks = parsed
	}

	reflections, err := h.service.ListReflections(c.Request.Context(), userID, weeks)
	if err != nil {
		h.logger.Error("Error listing reflections", zap.Stringer("userID", userID), zap.Error(err))
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reflections": reflections})
}

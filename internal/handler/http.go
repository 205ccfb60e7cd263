package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifequest-server/internal/auth"
	"lifequest-server/internal/model"
	"lifequest-server/internal/service"
)

// ProgressHandler обрабатывает HTTP запросы прогрессии.
type ProgressHandler struct {
	service  service.ProgressService
	logger   *zap.Logger
	verifier *auth.JWTVerifier
}

// NewProgressHandler создает новый ProgressHandler.
func NewProgressHandler(s service.ProgressService, logger *zap.Logger, jwtSecret string) *ProgressHandler {
	verifier, err := auth.NewJWTVerifier(jwtSecret, logger)
	if err != nil {
		logger.Fatal("Failed to create JWT Verifier", zap.Error(err))
	}

	return &ProgressHandler{
		service:  s,
		logger:   logger.Named("ProgressHandler"),
		verifier: verifier,
	}
}

// RegisterRoutes регистрирует маршруты прогрессии.
func (h *ProgressHandler) RegisterRoutes(router *gin.Engine) {
	authMiddleware := AuthMiddleware(h.verifier.VerifyToken, h.logger)

	api := router.Group("/api/v1", authMiddleware)
	{
		api.GET("/dashboard", h.getDashboard)
		api.GET("/progress", h.getProgress)
		api.GET("/achievements", h.listAchievements)

		api.POST("/onboarding", h.finalizeOnboarding)
		api.PATCH("/sheet", h.updateCharacterSheet)

		api.GET("/logs", h.listLogs)
		api.POST("/levers/:id/toggle", h.toggleLever)
		api.PUT("/levers", h.editQuestList)
		api.POST("/direction-check", h.submitDirectionCheck)

		api.GET("/reflections", h.listReflections)
		api.POST("/reflections", h.completeReflection)

		api.POST("/boss/complete", h.completeBossFight)
		api.PATCH("/boss/progress", h.updateBossProgress)
	}
}

// handleServiceError транслирует ошибки сервиса в HTTP статусы.
func (h *ProgressHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, APIError{Message: "Resource not found"})
	case errors.Is(err, service.ErrInvalidDirection),
		errors.Is(err, service.ErrCommentRequired),
		errors.Is(err, service.ErrEmptyQuestList),
		errors.Is(err, service.ErrInvalidProgress),
		errors.Is(err, service.ErrProjectRequired):
		c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	case errors.Is(err, service.ErrLeverInactive):
		c.JSON(http.StatusConflict, APIError{Message: err.Error()})
	default:
		h.logger.Error("Unhandled service error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIError{Message: "Internal server error"})
	}
}

// requireUserID достает userID из контекста или отвечает 401.
func (h *ProgressHandler) requireUserID(c *gin.Context) (uuid.UUID, bool) {
	id, found := getUserIDFromContext(c)
	if !found {
		c.JSON(http.StatusUnauthorized, APIError{Message: "Unauthorized"})
		return uuid.Nil, false
	}
	return id, true
}

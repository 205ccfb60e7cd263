package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifequest-server/internal/model"
)

// userIDContextKey — ключ gin-контекста, под которым лежит uuid пользователя.
const userIDContextKey = "userID"

// TokenVerifier проверяет строку токена и возвращает claims.
type TokenVerifier func(ctx context.Context, tokenString string) (*model.Claims, error)

// AuthMiddleware извлекает Bearer-токен, верифицирует его и кладет
// userID в контекст запроса.
func AuthMiddleware(verify TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.With(zap.String("path", c.Request.URL.Path))

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{Message: "Unauthorized: Missing token"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Malformed Authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{Message: "Unauthorized: Malformed token header"})
			return
		}

		claims, err := verify(c.Request.Context(), parts[1])
		if err != nil {
			status := http.StatusUnauthorized
			msg := "Unauthorized: Invalid token"
			if errors.Is(err, model.ErrTokenExpired) {
				msg = "Unauthorized: Token expired"
			} else if !errors.Is(err, model.ErrTokenMalformed) && !errors.Is(err, model.ErrTokenInvalid) {
				log.Error("Unexpected token verification error", zap.Error(err))
				status = http.StatusInternalServerError
				msg = "Internal server error during token verification"
			}
			c.AbortWithStatusJSON(status, APIError{Message: msg})
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			log.Warn("Token carries non-uuid user id", zap.String("userID", claims.UserID))
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{Message: "Unauthorized: Invalid token"})
			return
		}

		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

// getUserIDFromContext извлекает userID, положенный AuthMiddleware.
func getUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	val, ok := c.Get(userIDContextKey)
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := val.(uuid.UUID)
	return userID, ok
}

package model

import "github.com/golang-jwt/jwt/v5"

// Claims — полезная нагрузка JWT, выданного провайдером аутентификации.
// Сервису из нее нужен только идентификатор пользователя.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

package model

import "errors"

var (
	// ErrNotFound — запись отсутствует. Для большинства операций это не ошибка:
	// вызывающий код трактует отсутствие как "использовать значения по умолчанию".
	ErrNotFound = errors.New("resource not found")

	// Ошибки проверки токена (используются middleware).
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenInvalid   = errors.New("token is invalid")
)

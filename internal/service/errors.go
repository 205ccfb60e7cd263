package service

import "errors"

// Ошибки валидации бизнес-слоя. Handler транслирует их в 400/404/409.
var (
	ErrInvalidDirection = errors.New("direction must be 'vision' or 'hate'")
	ErrCommentRequired  = errors.New("comment is required")
	ErrLeverInactive    = errors.New("lever is deactivated")
	ErrEmptyQuestList   = errors.New("quest list cannot be empty")
	ErrInvalidProgress  = errors.New("progress must be between 0 and 100")
	ErrProjectRequired  = errors.New("project text is required")
)

package handler

import "github.com/google/uuid"

// APIError представляет стандартизированный ответ об ошибке.
type APIError struct {
	Message string `json:"message"`
}

// OnboardingRequest — тело запроса завершения онбординга.
type OnboardingRequest struct {
	AntiVision   string   `json:"antiVision" binding:"required"`
	Vision       string   `json:"vision" binding:"required"`
	YearGoal     string   `json:"yearGoal"`
	MonthProject string   `json:"monthProject" binding:"required"`
	Constraints  string   `json:"constraints"`
	Levers       []string `json:"levers" binding:"required,min=1"`
}

// UpdateSheetRequest — частичное обновление листа персонажа.
// Отсутствующие поля не трогаются.
type UpdateSheetRequest struct {
	AntiVision   *string `json:"antiVision"`
	Vision       *string `json:"vision"`
	YearGoal     *string `json:"yearGoal"`
	MonthProject *string `json:"monthProject"`
	Constraints  *string `json:"constraints"`
}

// DirectionCheckRequest — тело ежедневной проверки направления.
type DirectionCheckRequest struct {
	Direction string `json:"direction" binding:"required"`
	Comment   string `json:"comment" binding:"required"`
}

// QuestItemRequest — элемент редактируемого списка рычагов.
type QuestItemRequest struct {
	ID        *uuid.UUID `json:"id"`
	LeverText string     `json:"leverText" binding:"required"`
	XPValue   int        `json:"xpValue"`
}

// EditQuestListRequest — полный желаемый список рычагов.
type EditQuestListRequest struct {
	Items []QuestItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ReflectionRequest — тело еженедельной рефлексии.
type ReflectionRequest struct {
	MostAlive       string `json:"mostAlive" binding:"required"`
	MostDead        string `json:"mostDead" binding:"required"`
	PatternNoticed  string `json:"patternNoticed"`
	AntiVisionCheck bool   `json:"antiVisionCheck"`
	LeversAdjusted  bool   `json:"leversAdjusted"`
	ProjectProgress *int   `json:"projectProgress"`
}

// BossCompletionRequest — закрытие месячного проекта.
type BossCompletionRequest struct {
	Defeated   bool    `json:"defeated"`
	Learnings  string  `json:"learnings"`
	NewProject string  `json:"newProject" binding:"required"`
	Vision     *string `json:"vision"`
	AntiVision *string `json:"antiVision"`
}

// BossProgressRequest — обновление процента прогресса активного босса.
type BossProgressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

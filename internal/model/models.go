package model

import (
	"time"

	"github.com/google/uuid"
)

// Direction — направление дня, выбранное пользователем в ежедневной проверке.
type Direction string

const (
	DirectionVision Direction = "vision"
	DirectionHate   Direction = "hate"
)

// IsValid проверяет, что направление имеет одно из допустимых значений.
func (d Direction) IsValid() bool {
	switch d {
	case DirectionVision, DirectionHate:
		return true
	default:
		return false
	}
}

// BossStatus — статус месячного босс-файта.
type BossStatus string

const (
	BossStatusActive   BossStatus = "active"
	BossStatusDefeated BossStatus = "defeated"
	BossStatusFailed   BossStatus = "failed"
)

// User хранит накопленный прогресс пользователя. Уровень всегда выводится из
// total_xp через таблицу порогов и персистится рядом для быстрых чтений.
type User struct {
	ID            uuid.UUID `json:"id"`
	TotalXP       int       `json:"totalXp"`
	CurrentLevel  int       `json:"currentLevel"`
	CurrentStreak int       `json:"currentStreak"`
	LongestStreak int       `json:"longestStreak"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CharacterSheet — лист персонажа, один на пользователя.
type CharacterSheet struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	AntiVision   string    `json:"antiVision"`
	Vision       string    `json:"vision"`
	YearGoal     string    `json:"yearGoal"`
	MonthProject string    `json:"monthProject"`
	Constraints  string    `json:"constraints"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CharacterSheetUpdate описывает частичное обновление листа персонажа.
// nil-поля не затрагиваются.
type CharacterSheetUpdate struct {
	AntiVision   *string
	Vision       *string
	YearGoal     *string
	MonthProject *string
	Constraints  *string
}

// DailyLever — ежедневный "квест" с фиксированной наградой XP.
// Деактивация — мягкое удаление: запись остается ради истории в старых логах.
type DailyLever struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	LeverText string    `json:"leverText"`
	XPValue   int       `json:"xpValue"`
	Position  int       `json:"position"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// DailyLog — дневной лог, уникальный по (user_id, log_date).
// XPGained — накопительный счетчик за день, а не пересчет.
type DailyLog struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"userId"`
	LogDate         time.Time  `json:"logDate"`
	Direction       *Direction `json:"direction,omitempty"`
	Comment         string     `json:"comment"`
	LeversCompleted []string   `json:"leversCompleted"`
	XPGained        int        `json:"xpGained"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// HasCompleted сообщает, отмечен ли рычаг выполненным в этом логе.
func (l *DailyLog) HasCompleted(leverID uuid.UUID) bool {
	id := leverID.String()
	for _, c := range l.LeversCompleted {
		if c == id {
			return true
		}
	}
	return false
}

// BossFight — главный проект месяца. Активным может быть только один.
type BossFight struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"userId"`
	MonthStart   time.Time  `json:"monthStart"`
	ProjectText  string     `json:"projectText"`
	Status       BossStatus `json:"status"`
	Progress     int        `json:"progress"`
	LootAcquired []string   `json:"lootAcquired"`
	Learnings    string     `json:"learnings"`
	XPGained     int        `json:"xpGained"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// WeeklyReflection — еженедельная рефлексия, append-only.
type WeeklyReflection struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"userId"`
	WeekStart       time.Time `json:"weekStart"`
	MostAlive       string    `json:"mostAlive"`
	MostDead        string    `json:"mostDead"`
	PatternNoticed  string    `json:"patternNoticed"`
	AntiVisionCheck bool      `json:"antiVisionCheck"`
	LeversAdjusted  bool      `json:"leversAdjusted"`
	ProjectProgress int       `json:"projectProgress"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Achievement — разблокированное достижение пользователя.
type Achievement struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"userId"`
	AchievementType string    `json:"achievementType"`
	UnlockedAt      time.Time `json:"unlockedAt"`
}

// Dashboard агрегирует данные, нужные клиенту на главном экране.
type Dashboard struct {
	User       *User           `json:"user"`
	Sheet      *CharacterSheet `json:"sheet,omitempty"`
	Levers     []DailyLever    `json:"levers"`
	ActiveBoss *BossFight      `json:"activeBoss,omitempty"`
	TodayLog   *DailyLog       `json:"todayLog,omitempty"`
}

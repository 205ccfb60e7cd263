package service

// Фиксированные награды за действия. Значения намеренно не конфигурируются:
// баланс прогрессии подобран под таблицу порогов уровней.
const (
	// XPRewardDirectionCheck начисляется за выбор направления "vision".
	// Выбор "hate" не дает ничего и не сбрасывает стрик.
	XPRewardDirectionCheck = 50
	// XPRewardWeeklyReflection начисляется за заполненную еженедельную рефлексию.
	XPRewardWeeklyReflection = 200
	// XPRewardBossDefeated — награда за закрытый месячный проект.
	XPRewardBossDefeated = 1000
	// XPRewardBossFailed — утешительная награда: попытка тоже опыт.
	XPRewardBossFailed = 250

	// DefaultLeverXP — награда рычагов, созданных на онбординге.
	DefaultLeverXP = 50
	// MaxOnboardingLevers ограничивает стартовый список рычагов.
	MaxOnboardingLevers = 10
)

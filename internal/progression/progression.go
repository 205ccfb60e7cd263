package progression

import (
	"fmt"
	"sort"
)

// Table — неизменяемая таблица порогов уровней. Индекс 0 соответствует уровню 1.
// Таблица — бизнес-политика, а не вычисляемая величина; она передается явно,
// чтобы тесты могли подставлять альтернативные таблицы.
type Table struct {
	thresholds []int
}

// NewTable создает таблицу порогов. Первый порог обязан быть 0 (уровень 1
// доступен с нуля очков), последующие — строго возрастать.
func NewTable(thresholds []int) (Table, error) {
	if len(thresholds) == 0 {
		return Table{}, fmt.Errorf("threshold table must not be empty")
	}
	if thresholds[0] != 0 {
		return Table{}, fmt.Errorf("first threshold must be 0, got %d", thresholds[0])
	}
	if !sort.IntsAreSorted(thresholds) {
		return Table{}, fmt.Errorf("thresholds must be ascending")
	}
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] == thresholds[i-1] {
			return Table{}, fmt.Errorf("thresholds must be strictly ascending, duplicate %d", thresholds[i])
		}
	}
	cp := make([]int, len(thresholds))
	copy(cp, thresholds)
	return Table{thresholds: cp}, nil
}

// DefaultTable возвращает продуктовую таблицу из восьми уровней.
func DefaultTable() Table {
	return Table{thresholds: []int{0, 500, 1500, 3500, 7500, 15000, 30000, 60000}}
}

// MaxLevel — номер последнего уровня таблицы.
func (t Table) MaxLevel() int {
	return len(t.thresholds)
}

// Threshold возвращает минимальное количество XP для уровня.
// Уровень вне диапазона прижимается к границам таблицы.
func (t Table) Threshold(level int) int {
	return t.thresholds[t.clamp(level)-1]
}

// Level возвращает старший уровень, порог которого не превышает totalXP.
// Граница включительная: ровно 500 XP — уже уровень 2.
func (t Table) Level(totalXP int) int {
	for lvl := len(t.thresholds); lvl >= 1; lvl-- {
		if totalXP >= t.thresholds[lvl-1] {
			return lvl
		}
	}
	return 1
}

// NextLevelXP возвращает порог следующего уровня. На последнем уровне
// следующего порога нет — возвращается порог самого последнего уровня.
func (t Table) NextLevelXP(level int) int {
	level = t.clamp(level)
	if level >= len(t.thresholds) {
		return t.thresholds[len(t.thresholds)-1]
	}
	return t.thresholds[level]
}

// Progress возвращает процент продвижения внутри текущего уровня.
// На последнем уровне интервал вырождается в точку, поэтому возвращается 100.
// Значение ниже нижней границы уровня обрезается до 0.
func (t Table) Progress(totalXP, level int) float64 {
	level = t.clamp(level)
	if level >= len(t.thresholds) {
		return 100
	}
	lower := t.thresholds[level-1]
	upper := t.thresholds[level]
	if totalXP <= lower {
		return 0
	}
	return float64(totalXP-lower) / float64(upper-lower) * 100
}

func (t Table) clamp(level int) int {
	if level < 1 {
		return 1
	}
	if level > len(t.thresholds) {
		return len(t.thresholds)
	}
	return level
}

// LevelTitles — отображаемые названия уровней.
var LevelTitles = map[int]string{
	1: "Conformist",
	2: "Self-Aware",
	3: "Architect",
	4: "Builder",
	5: "Strategist",
	6: "Visionary",
	7: "Master",
	8: "Legend",
}

// TitleFor возвращает название уровня или пустую строку, если его нет.
func TitleFor(level int) string {
	return LevelTitles[level]
}

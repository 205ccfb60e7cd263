package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable_Validation(t *testing.T) {
	_, err := NewTable(nil)
	assert.Error(t, err)

	_, err = NewTable([]int{100, 200})
	assert.Error(t, err, "first threshold must be zero")

	_, err = NewTable([]int{0, 200, 100})
	assert.Error(t, err, "thresholds must ascend")

	_, err = NewTable([]int{0, 200, 200})
	assert.Error(t, err, "thresholds must be strictly ascending")

	tbl, err := NewTable([]int{0, 100, 300})
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.MaxLevel())
}

func TestLevel_Boundaries(t *testing.T) {
	tbl := DefaultTable()

	cases := []struct {
		name    string
		totalXP int
		want    int
	}{
		{"zero", 0, 1},
		{"just below level 2", 499, 1},
		{"exact level 2 threshold", 500, 2},
		{"mid level 2", 1450, 2},
		{"exact level 3 threshold", 1500, 3},
		{"exact top threshold", 60000, 8},
		{"beyond top", 1_000_000, 8},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tbl.Level(tc.totalXP))
		})
	}
}

func TestLevel_Monotonic(t *testing.T) {
	tbl := DefaultTable()
	prev := 0
	for xp := 0; xp <= 70000; xp += 50 {
		lvl := tbl.Level(xp)
		require.GreaterOrEqual(t, lvl, prev, "level must never decrease as XP grows (xp=%d)", xp)
		prev = lvl
	}
	assert.Equal(t, 8, prev)
}

func TestNextLevelXP(t *testing.T) {
	tbl := DefaultTable()

	assert.Equal(t, 500, tbl.NextLevelXP(1))
	assert.Equal(t, 1500, tbl.NextLevelXP(2))
	assert.Equal(t, 60000, tbl.NextLevelXP(7))
	// На максимальном уровне следующего порога нет.
	assert.Equal(t, 60000, tbl.NextLevelXP(8))
}

func TestProgress(t *testing.T) {
	tbl := DefaultTable()

	// Ровно на нижней границе уровня — 0%.
	assert.InDelta(t, 0, tbl.Progress(500, 2), 0.001)
	// Середина интервала 500..1500.
	assert.InDelta(t, 50, tbl.Progress(1000, 2), 0.001)
	// Приближение к верхней границе.
	assert.InDelta(t, 99.9, tbl.Progress(1499, 2), 0.2)
	// Вырожденный интервал последнего уровня.
	assert.InDelta(t, 100, tbl.Progress(60000, 8), 0.001)
	assert.InDelta(t, 100, tbl.Progress(90000, 8), 0.001)
	// Ниже нижней границы уровня (рассинхрон вызывающего кода) — обрезаем до 0.
	assert.InDelta(t, 0, tbl.Progress(100, 2), 0.001)
}

func TestCustomTableInjection(t *testing.T) {
	tbl, err := NewTable([]int{0, 10, 30})
	require.NoError(t, err)

	assert.Equal(t, 1, tbl.Level(9))
	assert.Equal(t, 2, tbl.Level(10))
	assert.Equal(t, 3, tbl.Level(30))
	assert.Equal(t, 30, tbl.NextLevelXP(2))
	assert.InDelta(t, 50, tbl.Progress(20, 2), 0.001)
}

func TestTitleFor(t *testing.T) {
	assert.Equal(t, "Conformist", TitleFor(1))
	assert.Equal(t, "Legend", TitleFor(8))
	assert.Equal(t, "", TitleFor(42))
}

package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	leverTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_lever_toggles_total",
			Help: "Total number of lever toggles by resulting state.",
		},
		[]string{"state"},
	)

	directionChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_direction_checks_total",
			Help: "Total number of daily direction checks by direction.",
		},
		[]string{"direction"},
	)

	reflectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "progress_weekly_reflections_total",
		Help: "Total number of completed weekly reflections.",
	})

	bossCompletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progress_boss_completions_total",
			Help: "Total number of boss fight completions by outcome.",
		},
		[]string{"outcome"},
	)

	levelUpsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "progress_level_ups_total",
		Help: "Total number of level-ups across all users.",
	})
)

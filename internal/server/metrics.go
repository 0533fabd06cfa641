package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var attemptsGraded = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "assessment_attempts_graded_total",
	Help: "Attempts graded successfully, by item kind.",
}, []string{"kind"})

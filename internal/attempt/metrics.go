package attempt

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	attemptsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assessment_attempts_recorded_total",
		Help: "Attempt results persisted successfully.",
	})
	attemptsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assessment_attempts_persist_failures_total",
		Help: "Attempt results that failed to persist.",
	})
	attemptsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assessment_attempts_dropped_total",
		Help: "Attempt results dropped because the recorder queue was full.",
	})
)

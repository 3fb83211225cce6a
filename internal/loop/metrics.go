package loop

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    metricIterations = promauto.NewCounter(prometheus.CounterOpts{
        Name: "loop_iterations_total",
        Help: "Engaged-cycle iterations.",
    })
    metricUtterances = promauto.NewCounter(prometheus.CounterOpts{
        Name: "loop_utterances_total",
        Help: "Non-empty utterances captured.",
    })
    metricCaptureErrors = promauto.NewCounter(prometheus.CounterOpts{
        Name: "loop_capture_errors_total",
        Help: "Failed capture attempts.",
    })
    metricCrashes = promauto.NewCounter(prometheus.CounterOpts{
        Name: "loop_crashes_total",
        Help: "Cycle panics recovered.",
    })
)

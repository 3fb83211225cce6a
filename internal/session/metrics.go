package session

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    metricActivations = promauto.NewCounter(prometheus.CounterOpts{
        Name: "session_activations_total",
        Help: "Total inactive-to-active session transitions",
    })

    metricRefreshes = promauto.NewCounter(prometheus.CounterOpts{
        Name: "session_refreshes_total",
        Help: "Total last-seen refreshes while active",
    })

    metricTimeouts = promauto.NewCounter(prometheus.CounterOpts{
        Name: "session_timeouts_total",
        Help: "Total sessions ended by the idle watchdog",
    })

    metricSessionActive = promauto.NewGauge(prometheus.GaugeOpts{
        Name: "session_active",
        Help: "1 while a session is active",
    })
)

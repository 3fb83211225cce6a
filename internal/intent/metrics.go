package intent

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    metricDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
        Name: "intent_decisions_total",
        Help: "Routed decisions by winning detector",
    }, []string{"label"})

    metricDetectorPanics = promauto.NewCounterVec(prometheus.CounterOpts{
        Name: "intent_detector_panics_total",
        Help: "Detector failures contained at the detector boundary",
    }, []string{"label"})
)

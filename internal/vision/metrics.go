package vision

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    metricFrames = promauto.NewCounter(prometheus.CounterOpts{
        Name: "ingress_frames_total",
        Help: "Total decoded vision frames",
    })

    metricFramesMalformed = promauto.NewCounter(prometheus.CounterOpts{
        Name: "ingress_frames_malformed_total",
        Help: "Total frames dropped as undecodable",
    })

    metricSampledOut = promauto.NewCounter(prometheus.CounterOpts{
        Name: "ingress_frames_sampled_out_total",
        Help: "Frames discarded by the sampling policy",
    })

    metricPublished = promauto.NewCounterVec(prometheus.CounterOpts{
        Name: "ingress_events_published_total",
        Help: "Recognition events published to typed channels",
    }, []string{"kind"})

    metricPublishDrops = promauto.NewCounterVec(prometheus.CounterOpts{
        Name: "ingress_publish_drops_total",
        Help: "Events dropped because a channel was full",
    }, []string{"kind"})
)

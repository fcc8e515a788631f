package huggingface

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registryRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hfscout",
			Subsystem: "registry",
			Name:      "requests_total",
			Help:      "Total number of model registry requests",
		},
		[]string{"endpoint", "status"},
	)

	registryRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hfscout",
			Subsystem: "registry",
			Name:      "request_duration_seconds",
			Help:      "Duration of model registry requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(registryRequestsTotal, registryRequestDuration)
}

// observe records one registry round trip. status 0 means a transport failure.
func observe(endpoint string, status int, start time.Time) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	registryRequestsTotal.WithLabelValues(endpoint, label).Inc()
	registryRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

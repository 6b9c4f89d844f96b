package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests  *prometheus.CounterVec
	cacheHits prometheus.Counter
	duration  prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exprtree_parse_requests_total",
			Help: "Parse requests by result: ok, lex_error, parse_error or bad_request.",
		}, []string{"result"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exprtree_parse_cache_hits_total",
			Help: "Parse requests answered from the result cache.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "exprtree_parse_duration_seconds",
			Help:    "Time spent building trees for one request.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
	}
	reg.MustRegister(m.requests, m.cacheHits, m.duration)
	return m
}

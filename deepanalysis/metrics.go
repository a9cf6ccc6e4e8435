package deepanalysis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var postsAnalyzed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moltwatch_posts_analyzed_total",
	Help: "The total number of posts enriched by the deep-analysis worker",
})

var queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "moltwatch_analysis_queue_depth",
	Help: "The number of posts currently awaiting deep analysis",
})

var assessorFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moltwatch_assessor_failures_total",
	Help: "The total number of chat collaborator calls that degraded to the fallback",
})

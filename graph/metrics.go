package graph

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var analyzerPasses = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moltwatch_graph_analyzer_passes_total",
	Help: "Number of completed graph analysis passes.",
})

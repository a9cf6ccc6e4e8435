package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var postsIngested = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moltwatch_posts_ingested_total",
	Help: "The total number of new posts committed to the store",
})

var postsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moltwatch_posts_duplicate_total",
	Help: "The total number of already-seen posts skipped at ingest",
})

var postsPruned = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moltwatch_posts_pruned_total",
	Help: "The total number of posts removed by retention pruning",
})

var interactionsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moltwatch_interactions_created_total",
	Help: "The total number of interaction edges written",
})

package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var feedPostsFetched = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moltwatch_feed_posts_fetched_total",
	Help: "The total number of posts returned by the feed API",
})

var feedFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moltwatch_feed_fetch_errors_total",
	Help: "The total number of failed feed API calls",
})

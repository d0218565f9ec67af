package kdtree

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeLabel = "outcome"
	resultLabel  = "result"

	outcomeOK     = "ok"
	outcomeFailed = "failed"

	cacheHit     = "hit"
	cacheMiss    = "miss"
	cacheInvalid = "invalid"
	cacheError   = "error"
)

var (
	treeBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kdtree_builds_total",
		Help: "The number of kd-tree builds by outcome.",
	}, []string{
		outcomeLabel,
	})

	treeBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kdtree_build_duration_seconds",
		Help:    "The time spent building kd-trees.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	})

	treeCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kdtree_cache_lookups_total",
		Help: "The number of kd-tree cache lookups by result.",
	}, []string{
		resultLabel,
	})
)

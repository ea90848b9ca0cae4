package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hivebuzz_feed_requests_total",
		Help: "Feed queries served from the posts cache, by feed type.",
	}, []string{"feed"})

	feedEmpty = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hivebuzz_feed_empty_responses_total",
		Help: "Feed queries that returned no posts (feed not ready yet).",
	}, []string{"feed"})

	refreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hivebuzz_feed_refresh_total",
		Help: "Completed feed refresh attempts, by feed type and result.",
	}, []string{"feed", "result"})

	refreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hivebuzz_feed_refresh_duration_seconds",
		Help:    "Duration of upstream feed refresh calls.",
		Buckets: prometheus.DefBuckets,
	})

	mergedPosts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hivebuzz_feed_merged_posts_total",
		Help: "New posts promoted into main feed lists via merge.",
	})

	snapshotWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hivebuzz_feed_snapshot_writes_total",
		Help: "Feed snapshot file writes, by result.",
	}, []string{"result"})
)

// IncFeedServed records a feed query for the given feed type.
func IncFeedServed(feed string) { feedServed.WithLabelValues(feed).Inc() }

// IncFeedEmpty records a feed query that returned no posts.
func IncFeedEmpty(feed string) { feedEmpty.WithLabelValues(feed).Inc() }

// IncRefreshOK records a successful feed refresh.
func IncRefreshOK(feed string) { refreshTotal.WithLabelValues(feed, "ok").Inc() }

// IncRefreshFailed records a failed feed refresh.
func IncRefreshFailed(feed string) { refreshTotal.WithLabelValues(feed, "error").Inc() }

// ObserveRefreshDuration records how long an upstream refresh took.
func ObserveRefreshDuration(seconds float64) { refreshDuration.Observe(seconds) }

// AddMergedPosts records posts promoted by a merge.
func AddMergedPosts(n int) { mergedPosts.Add(float64(n)) }

// IncSnapshotWriteOK records a successful snapshot write.
func IncSnapshotWriteOK() { snapshotWrites.WithLabelValues("ok").Inc() }

// IncSnapshotWriteFailed records a failed snapshot write.
func IncSnapshotWriteFailed() { snapshotWrites.WithLabelValues("error").Inc() }

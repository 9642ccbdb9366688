package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// User Activity Metrics
	NewUsersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_new_users_total",
		Help: "Total number of new user registrations.",
	})
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_login_attempts_total",
		Help: "Total number of login attempts (successful and failed).",
	}, []string{"status"}) // status: "success" or "failed"

	// Discovery Metrics
	FacetRebuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_facet_rebuilds_total",
		Help: "Total number of facet index rebuilds over catalog snapshots.",
	})
	SearchesCommittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_searches_committed_total",
		Help: "Total number of committed searches.",
	})
	PageAdvancesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_page_advances_total",
		Help: "Total number of incremental page advances.",
	}, []string{"status"}) // status: "applied", "dropped" or "stale"

	// Engagement Metrics
	EngagementTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_engagement_toggles_total",
		Help: "Total number of confirmed save/upvote toggles.",
	}, []string{"kind"})
	EngagementRollbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "app_engagement_rollbacks_total",
		Help: "Total number of toggles rolled back after a failed metadata write.",
	}, []string{"kind"})

	// Asset Cache Metrics
	AssetCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_asset_cache_hits_total",
		Help: "Total number of asset cache hits within TTL.",
	})
	AssetCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_asset_cache_misses_total",
		Help: "Total number of asset cache misses (absent or expired).",
	})

	// Catalog Metrics
	ToolCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_tool_created_total",
		Help: "Total number of tools added to the catalog.",
	})
	SummaryGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_summary_generated_total",
		Help: "Total number of tool summaries generated.",
	})
)

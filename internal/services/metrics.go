package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brewfinder_search_cache_hits_total",
			Help: "Total number of search cache hits",
		},
	)

	cacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brewfinder_search_cache_misses_total",
			Help: "Total number of search cache misses (expired entries included)",
		},
	)

	cacheEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brewfinder_search_cache_evictions_total",
			Help: "Total number of cache entries evicted past TTL",
		},
	)

	creditsSpentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brewfinder_credits_spent_total",
			Help: "Total credits deducted for provider fetches",
		},
	)

	creditsGrantedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brewfinder_credits_granted_total",
			Help: "Total credits granted, by source",
		},
		[]string{"source"},
	)

	providerCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brewfinder_provider_calls_total",
			Help: "Total calls to the place-search provider",
		},
		[]string{"status"},
	)

	fetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brewfinder_fetches_total",
			Help: "Total fetch requests, by terminal state",
		},
		[]string{"result"},
	)

	recordsFilteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "brewfinder_records_filtered_total",
			Help: "Total raw provider records dropped by the exclusion filter",
		},
	)
)

package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_cache_hits_total",
		Help: "Number of resolves served from the cache.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_cache_misses_total",
		Help: "Number of resolves that fell through to the store.",
	})
	resolvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shortlink_resolves_total",
		Help: "Number of resolve requests by outcome.",
	}, []string{"outcome"})
	urlsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlink_urls_created_total",
		Help: "Number of short URLs created.",
	})
)

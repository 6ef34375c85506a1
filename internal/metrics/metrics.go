// Package metrics exposes Prometheus counters for the scraping pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesFetched tracks documents retrieved from the forum.
	PagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_pages_fetched_total",
		Help: "The total number of listing and detail pages fetched.",
	})
	// FetchErrors tracks fetches that failed after retries.
	FetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_fetch_errors_total",
		Help: "The total number of failed page fetches.",
	})
	// PostsScraped tracks listing entries parsed into summary rows.
	PostsScraped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_posts_scraped_total",
		Help: "The total number of post summaries extracted from listing pages.",
	})
	// SelectorMisses tracks fields that resolved to the missing sentinel.
	SelectorMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_selector_misses_total",
		Help: "The total number of field selectors that matched zero nodes.",
	})
	// DetailFailures tracks detail-page scrapes replaced by sentinel rows.
	DetailFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_detail_failures_total",
		Help: "The total number of per-post detail scrapes that failed and were sentinel-filled.",
	})
)

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "autoimport_parsing_seconds",
		Help:    "Time spent parsing and scanning one module file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	ParsersInUse = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "autoimport_parsers_in_use",
		Help: "Number of pooled tree-sitter parsers currently leased, by language.",
	}, []string{"language"})

	FilesScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autoimport_files_scanned_total",
		Help: "Total number of module files parsed by the export scanner (cache misses).",
	})

	RecomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "autoimport_recompute_seconds",
		Help:    "Time spent on one registry recompute pass.",
		Buckets: prometheus.DefBuckets,
	})

	RecomputeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "autoimport_recompute_total",
		Help: "Total number of recompute passes by outcome (changed, unchanged, error).",
	}, []string{"outcome"})

	RegistrySize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "autoimport_registry_symbols",
		Help: "Number of descriptors in the current registry snapshot.",
	})

	ImportsInjectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autoimport_imports_injected_total",
		Help: "Total number of import statements injected into transformed files.",
	})

	DuplicateSkipsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autoimport_duplicate_skips_total",
		Help: "Total number of candidates skipped because an equal-priority import already existed.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "autoimport_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gardenledger_http_requests_total",
			Help: "Total number of HTTP requests processed, by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gardenledger_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gardenledger_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)
)

// Business Metrics
var (
	TokensMinted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gardenledger_token_mints_total",
			Help: "Total number of successful reward mints.",
		},
	)

	TokensBurned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gardenledger_token_burns_total",
			Help: "Total number of successful burns.",
		},
	)

	ItemsPurchased = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gardenledger_items_purchased_total",
			Help: "Total items purchased through the marketplace, by item.",
		},
		[]string{"item"},
	)

	PlantsSeeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gardenledger_plants_seeded_total",
			Help: "Total plants minted.",
		},
	)

	PlantsWatered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gardenledger_plants_watered_total",
			Help: "Total successful waterings.",
		},
	)

	PlantsHarvested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gardenledger_plants_harvested_total",
			Help: "Total plants harvested.",
		},
	)

	PlantsDied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gardenledger_plants_died_total",
			Help: "Total plants observed dead.",
		},
	)
)

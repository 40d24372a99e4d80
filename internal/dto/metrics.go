package dto

import "time"

// MetricsSnapshot is the JSON summary of process counters.
type MetricsSnapshot struct {
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"avgRequestDurationMs"`
	Transitions              uint64    `json:"transitions"`
	SweepActivations         uint64    `json:"sweepActivations"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}

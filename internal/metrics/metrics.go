// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Cash card lookup metrics
	IncCacheHit()
	IncCacheMiss()

	// Cash card management metrics
	IncCashCardCreated()
	IncCashCardUpdated()
	IncCashCardDeleted()
	IncCashCardNotFound()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}

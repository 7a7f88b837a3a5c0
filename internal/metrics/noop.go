package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncCacheHit is a no-op.
func (n *NoopRecorder) IncCacheHit() {}

// IncCacheMiss is a no-op.
func (n *NoopRecorder) IncCacheMiss() {}

// IncCashCardCreated is a no-op.
func (n *NoopRecorder) IncCashCardCreated() {}

// IncCashCardUpdated is a no-op.
func (n *NoopRecorder) IncCashCardUpdated() {}

// IncCashCardDeleted is a no-op.
func (n *NoopRecorder) IncCashCardDeleted() {}

// IncCashCardNotFound is a no-op.
func (n *NoopRecorder) IncCashCardNotFound() {}

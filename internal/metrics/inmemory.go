package metrics

import (
	"sync/atomic"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	CacheHits         uint64
	CacheMisses       uint64
	CashCardsCreated  uint64
	CashCardsUpdated  uint64
	CashCardsDeleted  uint64
	CashCardsNotFound uint64
}

// InMemoryRecorder keeps counters in memory. It backs the /metrics
// endpoint and is handy in tests.
type InMemoryRecorder struct {
	cacheHits         atomic.Uint64
	cacheMisses       atomic.Uint64
	cashCardsCreated  atomic.Uint64
	cashCardsUpdated  atomic.Uint64
	cashCardsDeleted  atomic.Uint64
	cashCardsNotFound atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		CacheHits:         m.cacheHits.Load(),
		CacheMisses:       m.cacheMisses.Load(),
		CashCardsCreated:  m.cashCardsCreated.Load(),
		CashCardsUpdated:  m.cashCardsUpdated.Load(),
		CashCardsDeleted:  m.cashCardsDeleted.Load(),
		CashCardsNotFound: m.cashCardsNotFound.Load(),
	}
}

// IncCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncCacheHit() { m.cacheHits.Add(1) }

// IncCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncCacheMiss() { m.cacheMisses.Add(1) }

// IncCashCardCreated increments cash card created counter.
func (m *InMemoryRecorder) IncCashCardCreated() { m.cashCardsCreated.Add(1) }

// IncCashCardUpdated increments cash card updated counter.
func (m *InMemoryRecorder) IncCashCardUpdated() { m.cashCardsUpdated.Add(1) }

// IncCashCardDeleted increments cash card deleted counter.
func (m *InMemoryRecorder) IncCashCardDeleted() { m.cashCardsDeleted.Add(1) }

// IncCashCardNotFound increments the lookup-miss counter.
func (m *InMemoryRecorder) IncCashCardNotFound() { m.cashCardsNotFound.Add(1) }

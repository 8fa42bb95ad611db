package dispatch

import (
	"sync"
	"time"
)

// Metrics summarizes dispatch activity since process start.
type Metrics struct {
	// Batches is the number of Process calls.
	Batches int `json:"batches"`

	// Calls is the total number of calls dispatched.
	Calls int `json:"calls"`

	// Errors is the number of calls that produced an error result,
	// including unknown-tool rejections.
	Errors int `json:"errors"`

	// LastBatchSize is the call count of the most recent batch.
	LastBatchSize int `json:"last_batch_size"`

	// LastBatchLatency is the wall-clock duration of the most recent batch.
	LastBatchLatency time.Duration `json:"last_batch_latency_ns"`

	// TotalLatency is the summed wall-clock duration of all batches.
	TotalLatency time.Duration `json:"total_latency_ns"`
}

// MetricsCollector accumulates dispatch metrics. Goroutine-safe.
type MetricsCollector struct {
	mu      sync.Mutex
	current Metrics
}

// NewMetricsCollector creates an empty collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// Record accumulates one completed batch.
func (m *MetricsCollector) Record(calls []Call, results []Result, latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current.Batches++
	m.current.Calls += len(calls)
	for _, r := range results {
		if r.Status == StatusError {
			m.current.Errors++
		}
	}
	m.current.LastBatchSize = len(calls)
	m.current.LastBatchLatency = latency
	m.current.TotalLatency += latency
}

// Snapshot returns a copy of the accumulated metrics.
func (m *MetricsCollector) Snapshot() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

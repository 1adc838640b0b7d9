// Package metrics accumulates per-client processing counters. Counters are
// updated concurrently by every processing call and drained periodically into
// snapshot reports.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ClientReport is one client's metrics for a snapshot window.
type ClientReport struct {
	Timestamp      time.Time `json:"timestamp"`
	TotalRequests  int64     `json:"total_requests"`
	AvgLatencyMs   float64   `json:"avg_latency_ms"`
	ErrorRatePct   float64   `json:"error_rate_pct"`
	PeakLatencyMs  float64   `json:"peak_latency_ms"`
}

// Aggregator tracks request count, cumulative latency, error count and peak
// latency per client. All updates are atomic and independent of any store
// locking.
type Aggregator struct {
	clients sync.Map // uuid.UUID -> *clientMetrics
}

type clientMetrics struct {
	totalRequests   atomic.Int64
	totalLatencyNs  atomic.Int64
	totalErrors     atomic.Int64
	peakLatencyNs   atomic.Int64
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

func (a *Aggregator) metricsFor(clientID uuid.UUID) *clientMetrics {
	if m, ok := a.clients.Load(clientID); ok {
		return m.(*clientMetrics)
	}
	m, _ := a.clients.LoadOrStore(clientID, &clientMetrics{})
	return m.(*clientMetrics)
}

// RecordRequest counts one processing request and its latency.
func (a *Aggregator) RecordRequest(clientID uuid.UUID, latency time.Duration) {
	m := a.metricsFor(clientID)
	m.totalRequests.Add(1)
	m.totalLatencyNs.Add(int64(latency))
	m.updatePeak(int64(latency))
}

// RecordError counts one failed processing request.
func (a *Aggregator) RecordError(clientID uuid.UUID) {
	a.metricsFor(clientID).totalErrors.Add(1)
}

// updatePeak raises the peak latency with a compare-and-retry loop, never a
// plain read-modify-write.
func (m *clientMetrics) updatePeak(latencyNs int64) {
	for {
		current := m.peakLatencyNs.Load()
		if latencyNs <= current {
			return
		}
		if m.peakLatencyNs.CompareAndSwap(current, latencyNs) {
			return
		}
	}
}

// Snapshot returns the current per-client reports without resetting any
// counters.
func (a *Aggregator) Snapshot() map[uuid.UUID]ClientReport {
	now := time.Now().UTC()
	reports := make(map[uuid.UUID]ClientReport)
	a.clients.Range(func(key, value interface{}) bool {
		m := value.(*clientMetrics)
		reports[key.(uuid.UUID)] = buildReport(now,
			m.totalRequests.Load(),
			m.totalLatencyNs.Load(),
			m.totalErrors.Load(),
			m.peakLatencyNs.Load())
		return true
	})
	return reports
}

// SnapshotAndReset drains every client's counters into a report. Each counter
// is taken with an atomic swap, so a concurrent increment lands in exactly
// one snapshot window: either this one or the next, never both, never lost.
func (a *Aggregator) SnapshotAndReset() map[uuid.UUID]ClientReport {
	now := time.Now().UTC()
	reports := make(map[uuid.UUID]ClientReport)
	a.clients.Range(func(key, value interface{}) bool {
		m := value.(*clientMetrics)
		requests := m.totalRequests.Swap(0)
		latency := m.totalLatencyNs.Swap(0)
		errors := m.totalErrors.Swap(0)
		peak := m.peakLatencyNs.Swap(0)
		if requests == 0 && errors == 0 {
			return true
		}
		reports[key.(uuid.UUID)] = buildReport(now, requests, latency, errors, peak)
		return true
	})
	return reports
}

func buildReport(ts time.Time, requests, latencyNs, errors, peakNs int64) ClientReport {
	report := ClientReport{
		Timestamp:     ts,
		TotalRequests: requests,
		PeakLatencyMs: float64(peakNs) / float64(time.Millisecond),
	}
	if requests > 0 {
		report.AvgLatencyMs = float64(latencyNs) / float64(requests) / float64(time.Millisecond)
		report.ErrorRatePct = float64(errors) / float64(requests) * 100
	}
	return report
}

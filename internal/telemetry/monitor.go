package telemetry

import (
	"sort"
	"sync"
	"time"
)

// Operation is one recorded unit of work: a stage execution, a classifier
// lookup or a provider call.
type Operation struct {
	Name            string        `json:"operation"`
	Duration        time.Duration `json:"duration"`
	Provider        string        `json:"provider,omitempty"`
	Model           string        `json:"model,omitempty"`
	Category        string        `json:"category,omitempty"`
	Success         bool          `json:"success"`
	Confidence      float64       `json:"confidence,omitempty"`
	CacheHit        bool          `json:"cache_hit,omitempty"`
	InstantResponse bool          `json:"instant_response,omitempty"`
}

// Monitor keeps a bounded rolling buffer of operations and aggregate counters.
// It is shared by all concurrent requests and guarded by a single mutex.
type Monitor struct {
	mu sync.Mutex

	maxHistory    int
	history       []Operation
	totalRequests int
	cacheHits     int
	instantHits   int

	categoryDur map[string][]time.Duration
	providerDur map[string][]time.Duration
}

// NewMonitor creates a monitor keeping at most maxHistory recent operations.
func NewMonitor(maxHistory int) *Monitor {
	if maxHistory <= 0 {
		maxHistory = 1000
	}
	return &Monitor{
		maxHistory:  maxHistory,
		categoryDur: make(map[string][]time.Duration),
		providerDur: make(map[string][]time.Duration),
	}
}

// Record appends a completed operation, evicting the oldest when full.
func (m *Monitor) Record(op Operation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.history) >= m.maxHistory {
		m.history = m.history[1:]
	}
	m.history = append(m.history, op)
	m.totalRequests++

	if op.CacheHit {
		m.cacheHits++
	}
	if op.InstantResponse {
		m.instantHits++
	}
	if op.Category != "" {
		m.categoryDur[op.Category] = appendBounded(m.categoryDur[op.Category], op.Duration, m.maxHistory)
	}
	if op.Provider != "" {
		key := op.Provider + "/" + op.Model
		m.providerDur[key] = appendBounded(m.providerDur[key], op.Duration, m.maxHistory)
	}
}

func appendBounded(ds []time.Duration, d time.Duration, max int) []time.Duration {
	if len(ds) >= max {
		ds = ds[1:]
	}
	return append(ds, d)
}

// AggregateStats summarizes a duration series.
type AggregateStats struct {
	AvgLatencyMs float64 `json:"avg_latency_ms"`
	Count        int     `json:"count"`
}

// Summary is the aggregate view exposed over the stats endpoint.
type Summary struct {
	TotalRequests       int                       `json:"total_requests"`
	AvgLatencyMs        float64                   `json:"avg_latency_ms"`
	MedianLatencyMs     float64                   `json:"median_latency_ms"`
	P95LatencyMs        float64                   `json:"p95_latency_ms"`
	SuccessRatePct      float64                   `json:"success_rate_percent"`
	CacheHitRatePct     float64                   `json:"cache_hit_rate_percent"`
	InstantHitRatePct   float64                   `json:"instant_response_rate_percent"`
	ByCategory          map[string]AggregateStats `json:"by_category"`
	ByProvider          map[string]AggregateStats `json:"by_provider"`
	RecentOperations    []Operation               `json:"recent_operations"`
	HistoryLen          int                       `json:"history_len"`
}

// Summarize computes the aggregate and percentile statistics over the buffer.
func (m *Monitor) Summarize() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Summary{
		TotalRequests: m.totalRequests,
		ByCategory:    make(map[string]AggregateStats, len(m.categoryDur)),
		ByProvider:    make(map[string]AggregateStats, len(m.providerDur)),
		HistoryLen:    len(m.history),
	}
	if len(m.history) == 0 {
		return s
	}

	durations := make([]time.Duration, len(m.history))
	successes := 0
	for i, op := range m.history {
		durations[i] = op.Duration
		if op.Success {
			successes++
		}
	}

	s.AvgLatencyMs = avgMs(durations)
	s.MedianLatencyMs = percentileMs(durations, 0.50)
	s.P95LatencyMs = percentileMs(durations, 0.95)
	s.SuccessRatePct = 100 * float64(successes) / float64(len(m.history))
	if m.totalRequests > 0 {
		s.CacheHitRatePct = 100 * float64(m.cacheHits) / float64(m.totalRequests)
		s.InstantHitRatePct = 100 * float64(m.instantHits) / float64(m.totalRequests)
	}

	for cat, ds := range m.categoryDur {
		s.ByCategory[cat] = AggregateStats{AvgLatencyMs: avgMs(ds), Count: len(ds)}
	}
	for prov, ds := range m.providerDur {
		s.ByProvider[prov] = AggregateStats{AvgLatencyMs: avgMs(ds), Count: len(ds)}
	}

	// Last 10 operations, newest last.
	start := len(m.history) - 10
	if start < 0 {
		start = 0
	}
	s.RecentOperations = append(s.RecentOperations, m.history[start:]...)

	return s
}

func avgMs(ds []time.Duration) float64 {
	if len(ds) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range ds {
		total += d
	}
	return float64(total.Microseconds()) / float64(len(ds)) / 1000
}

// percentileMs returns the q-quantile of the series in milliseconds using
// nearest-rank on a sorted copy.
func percentileMs(ds []time.Duration, q float64) float64 {
	sorted := make([]time.Duration, len(ds))
	copy(sorted, ds)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := int(q * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return float64(sorted[idx].Microseconds()) / 1000
}

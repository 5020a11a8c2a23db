package telemetry

import (
	"fmt"
	"testing"
	"time"
)

func TestMonitorEmptySummary(t *testing.T) {
	m := NewMonitor(10)
	s := m.Summarize()
	if s.TotalRequests != 0 {
		t.Errorf("expected 0 total requests, got %d", s.TotalRequests)
	}
	if s.HistoryLen != 0 {
		t.Errorf("expected empty history, got %d", s.HistoryLen)
	}
}

func TestMonitorAggregates(t *testing.T) {
	m := NewMonitor(100)

	m.Record(Operation{Name: "intent_analysis", Duration: 100 * time.Millisecond, Success: true, Category: "greeting", Provider: "groq", Model: "llama-3.3-70b-versatile"})
	m.Record(Operation{Name: "intent_analysis", Duration: 300 * time.Millisecond, Success: true, Category: "greeting", CacheHit: true})
	m.Record(Operation{Name: "intent_analysis", Duration: 200 * time.Millisecond, Success: false, Category: "navigation", InstantResponse: true})

	s := m.Summarize()
	if s.TotalRequests != 3 {
		t.Errorf("expected 3 requests, got %d", s.TotalRequests)
	}
	if s.AvgLatencyMs != 200 {
		t.Errorf("expected avg 200ms, got %v", s.AvgLatencyMs)
	}
	if want := 100 * 2.0 / 3.0; s.SuccessRatePct < want-0.01 || s.SuccessRatePct > want+0.01 {
		t.Errorf("expected success rate %.2f, got %v", want, s.SuccessRatePct)
	}
	if want := 100 / 3.0; s.CacheHitRatePct < want-0.01 || s.CacheHitRatePct > want+0.01 {
		t.Errorf("expected cache hit rate %.2f, got %v", want, s.CacheHitRatePct)
	}
	if want := 100 / 3.0; s.InstantHitRatePct < want-0.01 || s.InstantHitRatePct > want+0.01 {
		t.Errorf("expected instant rate %.2f, got %v", want, s.InstantHitRatePct)
	}

	greeting, ok := s.ByCategory["greeting"]
	if !ok || greeting.Count != 2 {
		t.Errorf("expected 2 greeting ops, got %+v", greeting)
	}
	if greeting.AvgLatencyMs != 200 {
		t.Errorf("expected greeting avg 200ms, got %v", greeting.AvgLatencyMs)
	}
	prov, ok := s.ByProvider["groq/llama-3.3-70b-versatile"]
	if !ok || prov.Count != 1 {
		t.Errorf("expected 1 provider op, got %+v", prov)
	}
}

func TestMonitorEvictsOldest(t *testing.T) {
	m := NewMonitor(5)
	for i := 0; i < 8; i++ {
		m.Record(Operation{Name: fmt.Sprintf("op-%d", i), Duration: time.Millisecond, Success: true})
	}

	s := m.Summarize()
	if s.HistoryLen != 5 {
		t.Errorf("expected history capped at 5, got %d", s.HistoryLen)
	}
	if s.TotalRequests != 8 {
		t.Errorf("total requests should keep counting, got %d", s.TotalRequests)
	}
	if got := s.RecentOperations[0].Name; got != "op-3" {
		t.Errorf("expected oldest surviving op-3, got %s", got)
	}
}

func TestMonitorPercentiles(t *testing.T) {
	m := NewMonitor(1000)
	for i := 1; i <= 100; i++ {
		m.Record(Operation{Name: "op", Duration: time.Duration(i) * time.Millisecond, Success: true})
	}

	s := m.Summarize()
	if s.MedianLatencyMs < 49 || s.MedianLatencyMs > 52 {
		t.Errorf("median out of range: %v", s.MedianLatencyMs)
	}
	if s.P95LatencyMs < 94 || s.P95LatencyMs > 97 {
		t.Errorf("p95 out of range: %v", s.P95LatencyMs)
	}
}

func TestMonitorRecentOperationsLimit(t *testing.T) {
	m := NewMonitor(100)
	for i := 0; i < 30; i++ {
		m.Record(Operation{Name: "op", Duration: time.Millisecond, Success: true})
	}
	s := m.Summarize()
	if len(s.RecentOperations) != 10 {
		t.Errorf("expected 10 recent operations, got %d", len(s.RecentOperations))
	}
}

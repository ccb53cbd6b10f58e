package api

import (
	"sync"
	"time"
)

// RequestTrace tracks timing for a single webhook request.
type RequestTrace struct {
	RequestID string        `json:"requestId"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration"`
}

// RouteMetrics aggregates metrics for a single route.
type RouteMetrics struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	TotalTime   time.Duration `json:"totalTime"`
	AvgTime     time.Duration `json:"avgTime"`
	MaxTime     time.Duration `json:"maxTime"`
	LastRequest time.Time     `json:"lastRequest"`
}

// MetricsCollector aggregates request metrics off the request path.
// Traces are queued on a buffered channel and dropped when the buffer
// is full; metrics are best-effort and must never slow a webhook down.
type MetricsCollector struct {
	mu            sync.RWMutex
	routeMetrics  map[string]*RouteMetrics
	totalRequests int64
	totalErrors   int64
	startedAt     time.Time
	traceChan     chan RequestTrace
}

var globalMetrics *MetricsCollector

// InitMetrics initializes the global metrics collector.
func InitMetrics() {
	globalMetrics = &MetricsCollector{
		routeMetrics: make(map[string]*RouteMetrics),
		startedAt:    time.Now(),
		traceChan:    make(chan RequestTrace, 1000),
	}
	go globalMetrics.processTraces()
}

// GetMetrics returns the global metrics collector.
func GetMetrics() *MetricsCollector {
	if globalMetrics == nil {
		InitMetrics()
	}
	return globalMetrics
}

// RecordTrace queues a trace for aggregation. Non-blocking; a full
// buffer drops the trace.
func (mc *MetricsCollector) RecordTrace(trace RequestTrace) {
	select {
	case mc.traceChan <- trace:
	default:
	}
}

func (mc *MetricsCollector) processTraces() {
	for trace := range mc.traceChan {
		mc.record(trace)
	}
}

func (mc *MetricsCollector) record(trace RequestTrace) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	key := trace.Method + " " + trace.Path
	metrics, ok := mc.routeMetrics[key]
	if !ok {
		metrics = &RouteMetrics{Method: trace.Method, Path: trace.Path}
		mc.routeMetrics[key] = metrics
	}

	metrics.Count++
	metrics.TotalTime += trace.Duration
	metrics.AvgTime = metrics.TotalTime / time.Duration(metrics.Count)
	metrics.LastRequest = trace.StartTime
	if trace.Duration > metrics.MaxTime {
		metrics.MaxTime = trace.Duration
	}
	if trace.Status >= 400 {
		metrics.ErrorCount++
		mc.totalErrors++
	}
	mc.totalRequests++
}

// GetRouteMetrics returns a copy of the per-route aggregates.
func (mc *MetricsCollector) GetRouteMetrics() map[string]*RouteMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	result := make(map[string]*RouteMetrics, len(mc.routeMetrics))
	for k, v := range mc.routeMetrics {
		metrics := *v
		result[k] = &metrics
	}
	return result
}

// GetSummary returns overall counters since startup.
func (mc *MetricsCollector) GetSummary() map[string]interface{} {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	return map[string]interface{}{
		"totalRequests": mc.totalRequests,
		"totalErrors":   mc.totalErrors,
		"startedAt":     mc.startedAt,
		"uptime":        time.Since(mc.startedAt).String(),
		"routeCount":    len(mc.routeMetrics),
	}
}

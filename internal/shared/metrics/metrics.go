package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	webhookMu     sync.Mutex
	webhookEvents = map[string]uint64{}

	enhancementStartedTotal   atomic.Uint64
	enhancementCompletedTotal atomic.Uint64
	enhancementFailedTotal    atomic.Uint64
	enhancementJobsReceived   atomic.Uint64
	enhancementJobsDropped    atomic.Uint64

	enhancementDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncWebhookEvent counts a billing webhook by outcome (applied, noop, flagged, ignored, rejected).
func IncWebhookEvent(outcome string) {
	webhookMu.Lock()
	webhookEvents[outcome]++
	webhookMu.Unlock()
}

// IncEnhancementStarted increments the started counter.
func IncEnhancementStarted() {
	enhancementStartedTotal.Add(1)
}

// IncEnhancementCompleted increments the completed counter.
func IncEnhancementCompleted() {
	enhancementCompletedTotal.Add(1)
}

// IncEnhancementFailed increments the failed counter.
func IncEnhancementFailed() {
	enhancementFailedTotal.Add(1)
}

// IncEnhancementJobsReceived counts queue messages picked up by the worker.
func IncEnhancementJobsReceived() {
	enhancementJobsReceived.Add(1)
}

// IncEnhancementJobsDropped counts queue messages deleted without processing.
func IncEnhancementJobsDropped() {
	enhancementJobsDropped.Add(1)
}

// ObserveEnhancementDurationMs records an enhancement duration in milliseconds.
func ObserveEnhancementDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	enhancementDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeLabeledCounter(&buf, "billing_webhook_events_total", "Billing webhook events by outcome", "outcome", webhookSnapshot())
	writeCounter(&buf, "enhancement_started_total", "Total enhancements started", enhancementStartedTotal.Load())
	writeCounter(&buf, "enhancement_completed_total", "Total enhancements completed", enhancementCompletedTotal.Load())
	writeCounter(&buf, "enhancement_failed_total", "Total enhancements failed", enhancementFailedTotal.Load())
	writeCounter(&buf, "enhancement_jobs_received_total", "Enhancement queue messages received", enhancementJobsReceived.Load())
	writeCounter(&buf, "enhancement_jobs_dropped_total", "Enhancement queue messages dropped as unrecoverable", enhancementJobsDropped.Load())
	writeHistogram(&buf, "enhancement_duration_ms", "Enhancement duration in milliseconds", enhancementDuration.Snapshot())
	return buf.String()
}

func webhookSnapshot() map[string]uint64 {
	webhookMu.Lock()
	defer webhookMu.Unlock()
	out := make(map[string]uint64, len(webhookEvents))
	for k, v := range webhookEvents {
		out[k] = v
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	evaluationCompletedTotal   atomic.Uint64
	evaluationFailedTotal      atomic.Uint64
	finalizationCompletedTotal atomic.Uint64
	finalizationFailedTotal    atomic.Uint64
	generationCompletedTotal   atomic.Uint64
	generationFailedTotal      atomic.Uint64
	feedbackCompletedTotal     atomic.Uint64
	feedbackFailedTotal        atomic.Uint64

	llmCallDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncEvaluation counts an initial evaluation outcome.
func IncEvaluation(ok bool) {
	if ok {
		evaluationCompletedTotal.Add(1)
		return
	}
	evaluationFailedTotal.Add(1)
}

// IncFinalization counts a clarification-resolution outcome.
func IncFinalization(ok bool) {
	if ok {
		finalizationCompletedTotal.Add(1)
		return
	}
	finalizationFailedTotal.Add(1)
}

// IncGeneration counts an interview-question generation outcome.
func IncGeneration(ok bool) {
	if ok {
		generationCompletedTotal.Add(1)
		return
	}
	generationFailedTotal.Add(1)
}

// IncFeedback counts an attempt-feedback outcome.
func IncFeedback(ok bool) {
	if ok {
		feedbackCompletedTotal.Add(1)
		return
	}
	feedbackFailedTotal.Add(1)
}

// ObserveLLMCallMs records one generative-backend call duration in milliseconds.
func ObserveLLMCallMs(value float64) {
	if value < 0 {
		value = 0
	}
	llmCallDuration.Observe(value)
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
	writeCounter(&buf, "evaluation_completed_total", "Total initial evaluations completed", evaluationCompletedTotal.Load())
	writeCounter(&buf, "evaluation_failed_total", "Total initial evaluations failed", evaluationFailedTotal.Load())
	writeCounter(&buf, "finalization_completed_total", "Total final evaluations completed", finalizationCompletedTotal.Load())
	writeCounter(&buf, "finalization_failed_total", "Total final evaluations failed", finalizationFailedTotal.Load())
	writeCounter(&buf, "question_generation_completed_total", "Total interview question generations completed", generationCompletedTotal.Load())
	writeCounter(&buf, "question_generation_failed_total", "Total interview question generations failed", generationFailedTotal.Load())
	writeCounter(&buf, "attempt_feedback_completed_total", "Total attempt feedback calls completed", feedbackCompletedTotal.Load())
	writeCounter(&buf, "attempt_feedback_failed_total", "Total attempt feedback calls failed", feedbackFailedTotal.Load())
	writeHistogram(&buf, "llm_call_duration_ms", "Generative backend call duration in milliseconds", llmCallDuration.Snapshot())
	return buf.String()
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
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
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

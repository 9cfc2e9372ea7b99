package statsd

import (
	"maps"
	"sync"
	"time"
)

// Sample is one metric observed by a Recorder.
type Sample struct {
	Kind  string // "count", "gauge" or "timing"
	Name  string
	Value float64
	Tags  map[string]string
}

// Recorder is an in-memory Sink for tests and dry runs.
type Recorder struct {
	mu      sync.Mutex
	samples []Sample
}

var _ Sink = (*Recorder)(nil)

// Count records a counter sample.
func (r *Recorder) Count(name string, value int64, tags map[string]string) {
	r.add(Sample{Kind: "count", Name: name, Value: float64(value), Tags: maps.Clone(tags)})
}

// Gauge records a gauge sample.
func (r *Recorder) Gauge(name string, value float64, tags map[string]string) {
	r.add(Sample{Kind: "gauge", Name: name, Value: value, Tags: maps.Clone(tags)})
}

// Timing records a timing sample in milliseconds.
func (r *Recorder) Timing(name string, value time.Duration, tags map[string]string) {
	r.add(Sample{Kind: "timing", Name: name, Value: float64(value) / float64(time.Millisecond), Tags: maps.Clone(tags)})
}

func (r *Recorder) add(s Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, s)
}

// Samples returns a copy of everything recorded so far.
func (r *Recorder) Samples() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sample, len(r.samples))
	copy(out, r.samples)
	return out
}

// Named returns the samples with the given metric name.
func (r *Recorder) Named(name string) []Sample {
	var out []Sample
	for _, s := range r.Samples() {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

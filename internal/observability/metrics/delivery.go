package metrics

import (
	"sync"
	"time"

	obserrors "github.com/target/seyren-notify/internal/observability/errors"
	"github.com/target/seyren-notify/internal/observability/notify"
	"github.com/target/seyren-notify/internal/observability/statsd"
)

// Metric names emitted for notification deliveries.
const (
	MetricDelivery = "notification.delivery"
	MetricDuration = "notification.duration"
)

// EmitDelivery emits standardised delivery metrics for one result.
func EmitDelivery(sink statsd.Sink, res *notify.Result) {
	if sink == nil || res == nil {
		return
	}

	tags := map[string]string{
		"channel": res.Channel,
		"outcome": string(res.Outcome),
	}
	if res.Outcome == notify.OutcomeFailed {
		if class := obserrors.Classify(res.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count(MetricDelivery, 1, tags)

	if res.Outcome != notify.OutcomeSkipped && res.Duration > 0 {
		sink.Timing(MetricDuration, res.Duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Recorder captures metrics in memory for tests. It is safe for concurrent use;
// read the fields once emission has finished.
type Recorder struct {
	mu      sync.Mutex
	Counts  map[string]int64
	Timings map[string][]time.Duration
	Tags    []map[string]string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{Counts: map[string]int64{}, Timings: map[string][]time.Duration{}}
}

// Count implements statsd.Sink.
func (r *Recorder) Count(name string, value int64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Counts[name] += value
	r.Tags = append(r.Tags, CloneTags(tags))
}

// Timing implements statsd.Sink.
func (r *Recorder) Timing(name string, value time.Duration, _ map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Timings[name] = append(r.Timings[name], value)
}

package statsd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	tags := map[string]string{"transition": "create"}

	rec.Count("alert.transition", 2, tags)
	rec.Gauge("alert.open", 3.5, nil)
	rec.Timing("alert.duration", 250*time.Millisecond, tags)
	tags["transition"] = "mutated"

	assert.Len(t, rec.Samples(), 3)
	count := rec.Named("alert.transition")
	if assert.Len(t, count, 1) {
		assert.Equal(t, "count", count[0].Kind)
		assert.InDelta(t, 2.0, count[0].Value, 0)
		assert.Equal(t, "create", count[0].Tags["transition"])
	}
	assert.InDelta(t, 250.0, rec.Named("alert.duration")[0].Value, 0.001)
}

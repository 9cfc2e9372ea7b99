package metrics

import (
	"time"

	obserrors "github.com/target/fleet-alerts/internal/observability/errors"
	"github.com/target/fleet-alerts/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// Transition names used as the "transition" tag.
const (
	TransitionCreate          = "create"
	TransitionAcknowledge     = "acknowledge"
	TransitionResolve         = "resolve"
	TransitionBulkAcknowledge = "bulk_acknowledge"
)

// AlertMetric captures one lifecycle operation for metric emission.
type AlertMetric struct {
	Transition string
	Result     string
	Severity   string
	Duration   time.Duration
	Err        error
}

// EmitAlertTransition emits the alert.transition counter and, when a duration
// was measured, the alert.duration timing with the same tags.
func EmitAlertTransition(sink statsd.Sink, in AlertMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"transition": in.Transition,
		"result":     in.Result,
	}
	if in.Severity != "" {
		tags["severity"] = in.Severity
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("alert.transition", 1, tags)

	if in.Duration > 0 {
		sink.Timing("alert.duration", in.Duration, CloneTags(tags))
	}
}

// List scopes used as the "scope" tag.
const (
	ScopeAll   = "all"
	ScopeOwner = "owner"
)

// AlertListMetric describes one served list page.
type AlertListMetric struct {
	Scope  string
	Status string // status filter, empty when unfiltered
	Total  int
}

// EmitAlertList records the number of alerts matching a list filter as the
// alert.list.total gauge. With a status filter of ACTIVE this tracks the open backlog.
func EmitAlertList(sink statsd.Sink, in AlertListMetric) {
	if sink == nil {
		return
	}
	status := in.Status
	if status == "" {
		status = "any"
	}
	sink.Gauge("alert.list.total", float64(in.Total), map[string]string{
		"scope":  in.Scope,
		"status": status,
	})
}

// CloneTags creates a shallow copy of a tag map, filtering out empty keys.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		if k == "" {
			continue
		}
		out[k] = v
	}
	return out
}

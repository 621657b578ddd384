// Package metrics records the outcome of a generation run on a private
// Prometheus registry and optionally pushes it to a pushgateway.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	namespace = "clusterform"

	// Job is the pushgateway job name.
	Job = "clusterform"
)

// Generate results.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Recorder owns the metrics of one run.
type Recorder struct {
	registry *prometheus.Registry

	groups        prometheus.Gauge
	quorumMembers prometheus.Gauge
	nodes         *prometheus.GaugeVec
	phaseDuration *prometheus.HistogramVec
	generateTotal *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		groups: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "groups",
			Help:      "Number of resolved node groups",
		}),
		quorumMembers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "quorum_members",
			Help:      "Number of addressable coordination quorum members",
		}),
		nodes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "nodes",
			Help:      "Planned quorum nodes by join state",
		}, []string{"join_state"}),
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Duration of generation phases in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms to ~16s
		}, []string{"phase"}),
		generateTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generate_total",
			Help:      "Generation runs by result",
		}, []string{"result"}),
	}
	r.registry.MustRegister(r.groups, r.quorumMembers, r.nodes, r.phaseDuration, r.generateTotal)
	return r
}

// Registry exposes the private registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordResolution sets the group and quorum gauges.
func (r *Recorder) RecordResolution(groups, quorumMembers int) {
	r.groups.Set(float64(groups))
	r.quorumMembers.Set(float64(quorumMembers))
}

// RecordNodes sets the planned node gauge for each join state.
func (r *Recorder) RecordNodes(byJoinState map[string]int) {
	for state, n := range byJoinState {
		r.nodes.WithLabelValues(state).Set(float64(n))
	}
}

// ObservePhase records how long a phase took.
func (r *Recorder) ObservePhase(phase string, d time.Duration) {
	r.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// RecordGenerate counts a finished run.
func (r *Recorder) RecordGenerate(result string) {
	r.generateTotal.WithLabelValues(result).Inc()
}

// Push sends all metrics to a pushgateway, replacing the stack's group.
func (r *Recorder) Push(ctx context.Context, url, stack string) error {
	err := push.New(url, Job).
		Gatherer(r.registry).
		Grouping("stack", stack).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}

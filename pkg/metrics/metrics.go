package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bft-labs/lifebind/pkg/lifecycle"
)

// Registry holds all metric instances for lifebind components.
type Registry struct {
	// Binding Metrics
	BindingsTotal    *prometheus.CounterVec
	RejectedTotal    *prometheus.CounterVec
	ActivationsTotal *prometheus.CounterVec
	DisposalsTotal   *prometheus.CounterVec
	ActiveBindings   prometheus.Gauge

	// Delivery Metrics
	ValuesDelivered *prometheus.CounterVec
	StreamErrors    *prometheus.CounterVec

	// Lifecycle Metrics
	Transitions *prometheus.CounterVec
	OwnerState  *prometheus.GaugeVec
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		BindingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lifebind",
				Subsystem: "binding",
				Name:      "bound_total",
				Help:      "Total number of bindings registered with a live owner",
			},
			[]string{"policy"},
		),

		RejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lifebind",
				Subsystem: "binding",
				Name:      "rejected_total",
				Help:      "Total number of bindings rejected because the owner was terminal",
			},
			[]string{"policy"},
		),

		ActivationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lifebind",
				Subsystem: "binding",
				Name:      "activations_total",
				Help:      "Total number of subscriptions started by bindings",
			},
			[]string{"policy"},
		),

		DisposalsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lifebind",
				Subsystem: "binding",
				Name:      "disposals_total",
				Help:      "Total number of bindings torn down",
			},
			[]string{"reason"},
		),

		ActiveBindings: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "lifebind",
				Subsystem: "binding",
				Name:      "active",
				Help:      "Number of bindings with a live subscription",
			},
		),

		ValuesDelivered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lifebind",
				Subsystem: "stream",
				Name:      "values_delivered_total",
				Help:      "Total number of values delivered to consumers",
			},
			[]string{"kind"},
		),

		StreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lifebind",
				Subsystem: "stream",
				Name:      "errors_total",
				Help:      "Total number of error signals delivered to consumers",
			},
			[]string{"kind"},
		),

		Transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lifebind",
				Subsystem: "lifecycle",
				Name:      "transitions_total",
				Help:      "Total number of owner state transitions",
			},
			[]string{"owner", "from", "to"},
		),

		OwnerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "lifebind",
				Subsystem: "lifecycle",
				Name:      "state",
				Help:      "Current owner state as its ordinal value",
			},
			[]string{"owner"},
		),
	}
}

// OnBound implements the binding event emitter.
func (r *Registry) OnBound(id, policy string) {
	r.BindingsTotal.WithLabelValues(policy).Inc()
}

// OnRejected implements the binding event emitter.
func (r *Registry) OnRejected(id, policy string) {
	r.RejectedTotal.WithLabelValues(policy).Inc()
}

// OnActivated implements the binding event emitter.
func (r *Registry) OnActivated(id, policy string) {
	r.ActivationsTotal.WithLabelValues(policy).Inc()
	r.ActiveBindings.Inc()
}

// OnDisposed implements the binding event emitter.
func (r *Registry) OnDisposed(id, reason string, activated bool) {
	r.DisposalsTotal.WithLabelValues(reason).Inc()
	if activated {
		r.ActiveBindings.Dec()
	}
}

// TransitionObserver returns a lifecycle.Observer recording the transitions
// of the owner called name. Redundant notifications are not counted.
func (r *Registry) TransitionObserver(name string) lifecycle.Observer {
	return &transitionObserver{registry: r, owner: name}
}

type transitionObserver struct {
	registry *Registry
	owner    string
}

func (o *transitionObserver) OnStateChange(previous, current lifecycle.State) {
	o.registry.OwnerState.WithLabelValues(o.owner).Set(float64(current))
	if previous == current {
		return
	}
	o.registry.Transitions.WithLabelValues(o.owner, previous.String(), current.String()).Inc()
}

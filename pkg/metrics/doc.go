// Package metrics provides Prometheus instrumentation for bindings and
// owner lifecycles.
//
// A Registry implements the binding event emitter and can be passed to
// lifebind.WithEventEmitter. Its TransitionObserver records owner state
// changes when registered with an owner.
package metrics

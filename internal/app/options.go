package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bft-labs/lifebind/internal/ports"
	"github.com/bft-labs/lifebind/pkg/lifebind"
	"github.com/bft-labs/lifebind/pkg/lifecycle"
	"github.com/bft-labs/lifebind/pkg/log"
	"github.com/bft-labs/lifebind/pkg/stream"
)

// Config describes one simulated owner and the stream bound to it.
type Config struct {
	OwnerName string

	Policy   lifebind.Policy
	Active   lifecycle.State
	Terminal lifecycle.State
	Replay   bool
	Key      string

	Source   stream.Kind
	Interval time.Duration
	Count    int
	KeepLast int

	// MetricsAddr enables the status server when set.
	MetricsAddr string
}

// Option configures optional behavior of a Runner.
type Option func(*options)

type options struct {
	logger   log.Logger
	emitter  EventEmitter
	registry *prometheus.Registry
	repo     ports.StatusRepository
}

func defaultOptions() options {
	return options{
		logger: log.NoopLogger{},
	}
}

// WithLogger sets the logger shared by the runner, the owner and the binding.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = log.OrNoop(logger)
	}
}

// WithEventEmitter receives runner state changes.
func WithEventEmitter(e EventEmitter) Option {
	return func(o *options) {
		o.emitter = e
	}
}

// WithRegistry sets the Prometheus registry metrics are registered with and
// served from. A private registry is created when unset.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithStatusRepository persists a status snapshot on every owner transition
// and when the stream terminates.
func WithStatusRepository(repo ports.StatusRepository) Option {
	return func(o *options) {
		o.repo = repo
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/bft-labs/lifebind/internal/adapters/http"
	"github.com/bft-labs/lifebind/internal/domain"
	"github.com/bft-labs/lifebind/internal/ports"
	"github.com/bft-labs/lifebind/pkg/lifebind"
	"github.com/bft-labs/lifebind/pkg/lifecycle"
	"github.com/bft-labs/lifebind/pkg/log"
	"github.com/bft-labs/lifebind/pkg/metrics"
	"github.com/bft-labs/lifebind/pkg/stream"
)

// errOwnerGone ends a driver once the owner has been destroyed.
var errOwnerGone = errors.New("owner destroyed")

// Runner simulates an owner driven by an EventDriver, with a stream bound to
// it through lifebind.
type Runner struct {
	cfg     Config
	driver  ports.EventDriver
	opts    options
	lc      *Lifecycle
	metrics *metrics.Registry

	saveMu sync.Mutex

	mu      sync.Mutex
	owner   *lifecycle.Owner
	binding *lifebind.Binding[int64]
	status  domain.Status
}

// New creates a runner. It fails when the configured thresholds are invalid.
func New(cfg Config, driver ports.EventDriver, opts ...Option) (*Runner, error) {
	if driver == nil {
		return nil, errors.New("lifebind: event driver is required")
	}
	if _, err := lifecycle.NewGate(cfg.Active, cfg.Terminal); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}

	return &Runner{
		cfg:     cfg,
		driver:  driver,
		opts:    o,
		lc:      NewLifecycle(o.logger, o.emitter),
		metrics: metrics.NewRegistry(o.registry),
	}, nil
}

// State returns the runner state.
func (r *Runner) State() State {
	return r.lc.State()
}

// Status returns a snapshot of the owner and its binding.
func (r *Runner) Status() domain.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statusLocked()
}

func (r *Runner) statusLocked() domain.Status {
	s := r.status
	s.Runner = r.lc.State().String()
	if r.owner != nil {
		s.State = r.owner.State().String()
	}
	if r.binding != nil {
		s.BindingID = r.binding.ID()
		s.Phase = r.binding.Phase().String()
	}
	return s
}

// Run drives the owner until the driver is exhausted, the owner is destroyed
// or ctx is canceled. The owner is always destroyed before Run returns.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	finish, err := r.lc.Begin(cancel, "run")
	if err != nil {
		return err
	}
	defer finish()

	if err := r.start(); err != nil {
		_ = r.lc.TransitionTo(StateCrashed, err.Error())
		return err
	}
	if err := r.lc.TransitionTo(StateRunning, "bound"); err != nil {
		return err
	}

	err = r.serve(ctx)

	// Canceled runs still tear the binding down through the owner.
	r.currentOwner().Destroy()
	r.save()

	if err != nil {
		_ = r.lc.TransitionTo(StateCrashed, err.Error())
		return err
	}
	if err := r.lc.TransitionTo(StateStopping, "done"); err != nil {
		return err
	}
	return r.lc.TransitionTo(StateStopped, "done")
}

// Stop cancels a running Run and waits for it to return.
func (r *Runner) Stop() error {
	if !r.lc.CanStop() {
		return domain.ErrNotRunning
	}
	r.lc.Cancel()
	return r.lc.WaitWithTimeout(ShutdownTimeout)
}

// start creates a fresh owner and binds the simulated source to it.
func (r *Runner) start() error {
	logger := r.opts.logger
	owner := lifecycle.NewOwner(r.cfg.OwnerName, logger)

	if _, err := owner.AddObserver("metrics", r.metrics.TransitionObserver(r.cfg.OwnerName)); err != nil {
		return err
	}
	if _, err := owner.AddObserver("status", &statusObserver{runner: r}); err != nil {
		return err
	}

	r.mu.Lock()
	r.owner = owner
	r.binding = nil
	r.status = domain.Status{
		Owner:  r.cfg.OwnerName,
		Policy: r.cfg.Policy.String(),
		Source: r.cfg.Source.String(),
	}
	r.mu.Unlock()

	opts := []lifebind.Option{
		lifebind.WithPolicy(r.cfg.Policy),
		lifebind.WithActiveState(r.cfg.Active),
		lifebind.WithTerminalState(r.cfg.Terminal),
		lifebind.WithReplay(r.cfg.Replay),
		lifebind.WithLogger(logger),
		lifebind.WithEventEmitter(r.metrics),
	}
	if r.cfg.Key != "" {
		opts = append(opts, lifebind.WithKey(r.cfg.Key))
	}

	src := newSource(r.cfg.Source, r.cfg.Interval, r.cfg.Count, r.cfg.KeepLast)
	b, err := lifebind.Bind(owner, src, r.consumer(), opts...)
	if err != nil {
		return fmt.Errorf("bind: %w", err)
	}

	r.mu.Lock()
	r.binding = b
	r.mu.Unlock()

	logger.Info("binding created",
		log.String("owner", r.cfg.OwnerName),
		log.String("binding", b.ID()),
		log.Stringer("policy", r.cfg.Policy),
		log.Stringer("source", r.cfg.Source),
	)
	r.save()
	return nil
}

func (r *Runner) serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	driverCtx, stopServer := context.WithCancel(gctx)

	g.Go(func() error {
		defer stopServer()
		r.opts.logger.Info("driver started", log.String("driver", r.driver.Name()))
		err := r.driver.Drive(driverCtx, r.handleEvent)
		if errors.Is(err, errOwnerGone) {
			return nil
		}
		return err
	})

	if r.cfg.MetricsAddr != "" {
		srv := httpadapter.NewServer(r.cfg.MetricsAddr, r.opts.registry, r, r.opts.logger)
		g.Go(func() error {
			return srv.Run(driverCtx)
		})
	}

	return g.Wait()
}

// handleEvent applies e to the owner. Invalid steps are logged and skipped.
func (r *Runner) handleEvent(e lifecycle.Event) error {
	owner := r.currentOwner()
	err := owner.HandleEvent(e)
	switch {
	case errors.Is(err, lifecycle.ErrDestroyed):
		return errOwnerGone
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		r.opts.logger.Warn("skipping invalid event",
			log.Stringer("event", e),
			log.Stringer("state", owner.State()),
		)
		return nil
	case err != nil:
		return err
	}
	if owner.State() == lifecycle.StateDestroyed {
		return errOwnerGone
	}
	return nil
}

// statusObserver persists the status on every owner transition.
type statusObserver struct {
	runner *Runner
}

func (o *statusObserver) OnStateChange(previous, current lifecycle.State) {
	if previous == current {
		return
	}
	o.runner.save()
}

func (r *Runner) consumer() stream.Consumer[int64] {
	kind := r.cfg.Source.String()
	// Single and Maybe terminate with their value.
	terminal := r.cfg.Source == stream.KindSingle || r.cfg.Source == stream.KindMaybe
	return stream.Consumer[int64]{
		Next: func(v int64) {
			r.metrics.ValuesDelivered.WithLabelValues(kind).Inc()
			r.mu.Lock()
			r.status.Delivered++
			r.status.LastValue = strconv.FormatInt(v, 10)
			r.status.Completed = r.status.Completed || terminal
			r.mu.Unlock()
			r.opts.logger.Info("value delivered", log.Int64("value", v))
		},
		Error: func(err error) {
			r.metrics.StreamErrors.WithLabelValues(kind).Inc()
			r.mu.Lock()
			r.status.Errors++
			r.mu.Unlock()
			r.opts.logger.Error("stream failed", log.Err(err))
			r.save()
		},
		Complete: func() {
			r.mu.Lock()
			r.status.Completed = true
			r.mu.Unlock()
			r.opts.logger.Info("stream completed")
			r.save()
		},
	}
}

func (r *Runner) currentOwner() *lifecycle.Owner {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.owner
}

// save persists the current status when a repository is configured.
func (r *Runner) save() {
	if r.opts.repo == nil {
		return
	}
	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	r.mu.Lock()
	s := r.statusLocked()
	r.mu.Unlock()
	s.UpdatedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.opts.repo.Save(ctx, s); err != nil {
		r.opts.logger.Warn("save status", log.Err(err))
	}
}

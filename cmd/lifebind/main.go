package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/lifebind/internal/adapters/fs"
	"github.com/bft-labs/lifebind/internal/app"
	"github.com/bft-labs/lifebind/internal/cliconfig"
	"github.com/bft-labs/lifebind/internal/ports"
	"github.com/bft-labs/lifebind/pkg/lifebind"
	"github.com/bft-labs/lifebind/pkg/lifecycle"
	logpkg "github.com/bft-labs/lifebind/pkg/log"
	"github.com/bft-labs/lifebind/pkg/stream"
)

const helpDescription = `
Simulate a lifecycle owner and watch a stream bound to it.

Highlights:
  - Drives an owner through create/start/resume/pause/stop/destroy from a
    script or from event names appended to a control file.
  - Binds an observable, single, maybe or completable source with either the
    defer-until-active or dispose-on-destroy policy.
  - Exposes Prometheus metrics, /status and /healthz when --metrics-addr is set.
  - Configure via file ($HOME/.lifebind/config.toml), LIFEBIND_* env, or flags.
`

var longHelp = strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  lifebind --script create,start,resume,pause,stop,destroy --count 5
  lifebind --source single --policy dispose-on-destroy --step-delay 1s
  lifebind --control-file /tmp/owner.events --metrics-addr :9100 --count 0
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "lifebind",
		Short:   "Simulate a lifecycle owner and watch a stream bound to it",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// LIFEBIND_* override the file; explicit flags win over both.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			log = cliconfig.LoggerAt(cfg.LogLevel)
			log.Info().Interface("config", cfg).Msg("configuration")

			runCfg, err := runnerConfig(cfg)
			if err != nil {
				return err
			}

			logger := logpkg.NewZerologAdapterWithLogger(log)
			driver, err := eventDriver(cfg, logger)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			opts := []app.Option{
				app.WithLogger(logger),
				app.WithRegistry(reg),
			}
			if cfg.StatusFile != "" {
				opts = append(opts, app.WithStatusRepository(fs.NewStatusFileRepository(cfg.StatusFile)))
			}

			runner, err := app.New(runCfg, driver, opts...)
			if err != nil {
				return fmt.Errorf("create runner: %w", err)
			}

			// SIGINT/SIGTERM destroy the owner before exiting.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := runner.Run(ctx); err != nil {
				return fmt.Errorf("run: %w", err)
			}

			status := runner.Status()
			log.Info().
				Str("owner", status.Owner).
				Str("state", status.State).
				Str("phase", status.Phase).
				Int64("delivered", status.Delivered).
				Bool("completed", status.Completed).
				Msg("finished")
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.lifebind/config.toml)")
	root.Flags().StringVar(&cfg.OwnerName, "owner", cfg.OwnerName, "name of the simulated owner")

	root.Flags().StringVar(&cfg.Policy, "policy", cfg.Policy, "binding policy: defer-until-active or dispose-on-destroy")
	root.Flags().StringVar(&cfg.ActiveState, "active-state", cfg.ActiveState, "state at or above which the owner is active")
	root.Flags().StringVar(&cfg.TerminalState, "terminal-state", cfg.TerminalState, "state at which the binding is torn down")
	root.Flags().BoolVar(&cfg.Replay, "replay", cfg.Replay, "buffer values emitted before activation (defer-until-active only); the buffer keeps every value until the owner is destroyed, so pair it with --count or --keep-last")
	root.Flags().StringVar(&cfg.Key, "key", cfg.Key, "registration key; a new binding under the same key replaces the old one")

	root.Flags().StringVar(&cfg.Source, "source", cfg.Source, "source kind: observable, single, maybe or completable")
	root.Flags().DurationVar(&cfg.Interval, "interval", cfg.Interval, "emission interval of the source")
	root.Flags().IntVar(&cfg.Count, "count", cfg.Count, "values emitted by an observable source (0 = unbounded)")
	root.Flags().IntVar(&cfg.KeepLast, "keep-last", cfg.KeepLast, "deliver only the last N values of an observable source")

	root.Flags().StringVar(&cfg.Script, "script", cfg.Script, "comma-separated lifecycle events to apply")
	root.Flags().DurationVar(&cfg.StepDelay, "step-delay", cfg.StepDelay, "delay between script steps")
	root.Flags().StringVar(&cfg.ControlFile, "control-file", cfg.ControlFile, "follow lifecycle events appended to this file instead of a script")

	root.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "address serving /metrics, /status and /healthz (disabled when empty)")
	root.Flags().StringVar(&cfg.StatusFile, "status-file", cfg.StatusFile, "write a JSON status snapshot to this path on every transition")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("lifebind")
		os.Exit(1)
	}
}

// runnerConfig converts a validated CLI config into the runner's typed config.
func runnerConfig(cfg cliconfig.Config) (app.Config, error) {
	policy, err := lifebind.ParsePolicy(cfg.Policy)
	if err != nil {
		return app.Config{}, err
	}
	active, err := lifecycle.ParseState(cfg.ActiveState)
	if err != nil {
		return app.Config{}, err
	}
	terminal, err := lifecycle.ParseState(cfg.TerminalState)
	if err != nil {
		return app.Config{}, err
	}
	kind, err := stream.ParseKind(cfg.Source)
	if err != nil {
		return app.Config{}, err
	}

	return app.Config{
		OwnerName:   cfg.OwnerName,
		Policy:      policy,
		Active:      active,
		Terminal:    terminal,
		Replay:      cfg.Replay,
		Key:         cfg.Key,
		Source:      kind,
		Interval:    cfg.Interval,
		Count:       cfg.Count,
		KeepLast:    cfg.KeepLast,
		MetricsAddr: cfg.MetricsAddr,
	}, nil
}

// eventDriver prefers the control file over the script when both are set.
func eventDriver(cfg cliconfig.Config, logger logpkg.Logger) (ports.EventDriver, error) {
	if cfg.ControlFile != "" {
		return fs.NewControlFile(cfg.ControlFile, logger), nil
	}
	events, err := cliconfig.ParseScript(cfg.Script)
	if err != nil {
		return nil, err
	}
	return app.NewScriptDriver(events, cfg.StepDelay), nil
}

// Package log provides the logging abstraction used across lifebind.
//
// Library code never writes to a global logger. Components accept a Logger
// and default to NoopLogger, so embedding applications decide where binding
// and lifecycle diagnostics go.
//
// # Usage
//
// Wrap an existing zerolog logger:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// Or discard everything:
//
//	logger := log.NewNoopLogger()
//
// Fields are built with the helpers in this package:
//
//	logger.Info("binding activated",
//	    log.String("binding", id),
//	    log.Stringer("state", state),
//	)
//
// Components scope their logger once with With, so every line they write
// carries the owner or binding it concerns:
//
//	logger = logger.With(log.String("owner", name))
package log

// Package ports defines the interfaces that connect the simulation runner
// to infrastructure adapters.
//
// # Port Interfaces
//
//   - [EventDriver]: Feeds lifecycle events into an owner
//   - [StatusRepository]: Persists status snapshots for external tooling
//   - [StatusProvider]: Exposes the current status to adapters such as HTTP
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with the file
// system and HTTP.
package ports

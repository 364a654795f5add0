// Package domain contains the value types shared by the lifebind simulation
// runner and its adapters.
//
// It has no dependencies on infrastructure concerns (HTTP, file system,
// logging) so adapters and the application layer can exchange [Status]
// snapshots without importing each other.
package domain

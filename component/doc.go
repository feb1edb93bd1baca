// Package component manages the lifecycle of the service's long-lived parts
// (database, settings watcher, telemetry, HTTP server).
//
// Components start in registration order and stop in reverse order, so
// register dependencies first.
package component

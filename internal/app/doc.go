// Package app wires the application together: configuration, logging,
// OpenTelemetry, services, the HTTP router and the WebSocket hub.
//
// The Application container owns the full dependency graph. cmd/web
// builds one with the embedded frontend filesystem and calls Run, which
// blocks until SIGINT/SIGTERM and then shuts down gracefully.
package app

// Package observability groups the logging, metrics and tracing support of
// the card database services.
//
// Subpackages:
//   - logging: slog loggers with request-id propagation
//   - metrics: Prometheus collectors for HTTP traffic and catalog statistics
//   - tracing: OpenTelemetry provider setup and HTTP middleware
package observability

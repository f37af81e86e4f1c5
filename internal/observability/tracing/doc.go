// Package tracing wires OpenTelemetry into the HTTP server.
//
// Init installs an SDK tracer provider and the W3C trace-context propagator so
// that every request gets a real trace id, which the request logger records
// and the X-Trace-Id response header exposes. Spans are named by route
// template, never by raw path.
//
//	shutdown := tracing.Init("ashes-live")
//	defer shutdown(context.Background())
//	handler := tracing.Middleware(mux)
package tracing

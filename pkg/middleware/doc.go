// Package middleware provides HTTP middleware for the console server:
// OpenTelemetry tracing, Prometheus metrics and structured request logging.
// Each is a func(http.Handler) http.Handler and plugs into chi.
//
// # OpenTelemetry
//
// OpenTelemetry starts a server span per request. Route loaders and the
// API client inherit it through r.Context():
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("console"),
//	    middleware.WithFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// # Prometheus
//
//	m := middleware.NewHTTPMetrics(middleware.WithNamespace("console"))
//	r.Use(m.Handler)
//
// Metrics collected:
//   - console_http_requests_total{route,method,code}
//   - console_http_request_duration_seconds{route,method}
//   - console_http_websocket_connections
//   - console_http_websocket_errors_total{type}
//
// The route label is the chi route pattern, so it stays low-cardinality.
//
// # Logging
//
//	r.Use(middleware.Logger(logger))
//
// logs one line per request with method, path, status, size, duration and
// the chi request ID.
package middleware

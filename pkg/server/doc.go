// Package server is the console's application root. It mounts one resolver
// for the whole process and serves it over HTTP and a WebSocket channel.
//
// # HTTP
//
// GET requests outside the reserved paths are resolved and rendered into a
// complete document:
//
//   - a non-canonical path answers 308 with the canonical location
//   - a loader redirect answers 302 with the final location
//   - NotFound answers 404 with the fallback view
//   - module, loader and render failures answer 500 with the error boundary
//   - a redirect loop answers 508
//
// The request's Cookie header travels to loaders via api.WithCookie.
//
// # WebSocket
//
// The navigation channel at Config.WebSocketPath carries JSON messages. Each
// connection owns a router.Navigator, so history is per client:
//
//	→ {"type":"navigate","path":"/workers/42"}
//	→ {"type":"back"}
//	→ {"type":"prefetch","path":"/workflows"}
//	← {"type":"navigated","href":"/workers/42","status":"ok","html":"..."}
//
// A navigation superseded by a newer one on the same connection sends
// nothing.
//
// # Operations
//
// /healthz answers 200 and, when a gatherer is configured, /metrics exposes
// Prometheus metrics.
package server

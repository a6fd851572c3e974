// Package http provides the HTTP API implementation.
//
// The HTTP server exposes endpoints for:
//   - Welcome message (GET /)
//   - Health checks (GET /health)
//   - Prometheus metrics (GET /metrics)
//
// Unknown paths get the router's default 404, known paths with the wrong
// method its default 405.
package http

// Package api implements the JSON HTTP API of the StackGuide backend.
//
// Routes:
//   - GET  /            service banner
//   - GET  /health      liveness probe (fixed payload)
//   - GET  /ready       readiness probe (upload dir, database pool stats)
//   - POST /upload      multipart document upload
//   - GET  /files       upload directory listing
//   - GET  /api/query   placeholder query endpoint
//   - POST /api/feedback, GET /api/feedback (only when a feedback store is configured)
//
// Every response, including errors and OPTIONS preflights, carries permissive
// CORS headers (wildcard origin). The middleware chain is, outermost first:
// recovery → request-ID → logging → CORS → rate limit → routes. The health
// and readiness probes skip the rate limiter so they are never throttled.
package api

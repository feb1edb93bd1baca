// Package server provides the HTTP server: a Gin engine behind a ServeMux,
// served with cleartext HTTP/2 support and run as a registry component.
//
// # Middleware
//
// Server level (server/middleware, wraps every request):
//
//   - CORS: cross-origin headers and preflight answers
//   - BodySizeLimit: request body bound, "2GB" style sizes
//   - RequestLogger: one log line per request, health checks skipped
//
// Inside Gin:
//
//   - Recovery: panic recovery with an INTERNAL_ERROR envelope
//   - RequestID: X-Request-Id propagation into the log context
//   - Telemetry: a span and request metrics per matched route
//
// Handlers answer with DataResponse on success and the errors.ErrorResponse
// envelope on failure (RespondWithError).
package server

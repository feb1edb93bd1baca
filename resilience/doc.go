// Package resilience bounds calls to external services.
//
// Every speech-to-text, translation and generation call goes through
// Call: a per-attempt deadline enforced by CallWithTimeout, wrapped in
// Retry with exponential backoff. Only errors flagged retryable (timeouts,
// connection failures, 5xx) are retried.
package resilience

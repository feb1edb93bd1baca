// Package errors defines AppError, the structured error used across
// voxpersona. Every error carries a machine-readable code, an HTTP status
// for the API layer and a retryable flag consulted by the resilience package.
package errors

// Package errors provides the structured error type shared by the aligner
// service, its sidecar clients and its HTTP surface.
//
// Every failure that crosses a package boundary is an *AppError carrying a
// machine-readable code, an HTTP status and a retryable flag. Sidecar
// failures become EXTERNAL_SERVICE_ERROR and are retried by the pipeline;
// input problems become INVALID_INPUT and are returned as 400s.
package errors

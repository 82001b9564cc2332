// Package middleware provides the net/http middleware the server wraps
// around its handler: panic recovery, request IDs, CORS, body size limits
// and request logging.
package middleware

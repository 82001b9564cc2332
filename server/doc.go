// Package server runs the speakeralign HTTP surface on gin, served through
// h2c so HTTP/2 cleartext clients work without TLS.
//
// The middleware stack (server/middleware) wraps the whole handler:
// recovery, request IDs, CORS, body size limits and request logging.
// server/endpoint provides /health and /version.
//
// A Server is a component.Component, so bootstrap starts it after the
// providers and stops it first on shutdown.
package server

// Package component defines lifecycle-managed parts of the service.
//
// A Component can be started, stopped and asked for its health. The
// Registry starts components in registration order, stops them in reverse
// and aggregates their health for the /health endpoint.
package component

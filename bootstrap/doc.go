// Package bootstrap runs a service's lifecycle: typed config defaults and
// validation, logger setup, component start in registration order, then
// graceful shutdown in reverse order on SIGINT or SIGTERM.
package bootstrap

// Package endpoint holds the operational gin handlers: /health and /version.
package endpoint

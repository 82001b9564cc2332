// Package util holds small generic helpers for optional request values.
package util

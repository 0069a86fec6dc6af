// Package middleware contains the HTTP middleware specific to this API:
// bearer-token authentication and request tracing.
package middleware

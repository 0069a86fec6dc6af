// Package api handles incoming HTTP requests, request validation and response
// formatting. Handlers read the caller identity from the request context and
// pass it explicitly to the services; they never make ownership decisions.
package api

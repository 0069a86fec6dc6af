// Package shared holds the request decoding, response writing and context
// keys used by both the handlers and the middleware.
package shared

// Package requestid tags each HTTP request with an identifier.
//
// Middleware accepts a client-supplied X-Request-ID when it is 1-128
// characters of [a-zA-Z0-9_-] and otherwise generates a UUIDv7. The ID is
// echoed in the response, stored in the context, attached to log records via
// LoggerExtractor and copied into security events.
package requestid

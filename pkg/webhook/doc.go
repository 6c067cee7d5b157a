// Package webhook delivers JSON payloads to external HTTP endpoints.
//
// It carries contact submissions to the form relay and forwards security
// events to a remote collector. Delivery is synchronous; the caller decides
// whether failed attempts are retried.
//
// # Usage
//
//	sender := webhook.NewSender()
//
//	// Single attempt, as used for form submissions.
//	err := sender.Send(ctx, relayURL, submission,
//		webhook.WithNoRetry(),
//		webhook.WithHeader("Accept", "application/json"),
//		webhook.WithTimeout(10*time.Second),
//	)
//
//	// Retried, signed and guarded by a circuit breaker.
//	cb := webhook.NewCircuitBreaker(5, 2, 30*time.Second)
//	err = sender.Send(ctx, collectorURL, event,
//		webhook.WithMaxRetries(3),
//		webhook.WithSignature(secret),
//		webhook.WithCircuitBreaker(cb),
//	)
//
// # Errors
//
// A non-2xx response yields a *StatusError; StatusCode extracts the status
// from any wrapped error. Most 4xx responses are wrapped with
// ErrPermanentFailure and are not retried. Network failures wrap
// ErrTemporaryFailure or ErrTimeout. When retries are exhausted the error
// wraps ErrDeliveryFailed. An open breaker returns ErrCircuitOpen without
// contacting the endpoint.
//
// # Signatures
//
// WithSignature adds X-Webhook-Signature, X-Webhook-Timestamp and
// X-Webhook-ID headers. The signature is hex HMAC-SHA256 over
// "<timestamp>.<payload>". Receivers use SignatureFromHeader and
// VerifySignature.
package webhook

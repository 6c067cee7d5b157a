// Package contact implements the contact form pipeline and its HTTP surface.
//
// SanitizeAndValidate runs the injection filters and field validators over a
// Form. Service.Submit adds the surrounding policy: a filled honeypot yields
// a simulated success, the rate limiter is consulted before validation, and
// only clean submissions reach the Sink. Every decision is recorded in the
// security log.
//
//	svc, err := contact.NewService(limiter, relay, events)
//	outcome, err := svc.Submit(ctx, clientIP, form, contact.Meta{UserAgent: ua})
//
// Handler mounts the endpoints under /contact:
//
//	GET  /csrf      issue a token and the contact_csrf cookie
//	POST /          submit the form (JSON or urlencoded)
//	POST /preview   apply the per-keystroke filters
//	GET  /whatsapp  redirect to a pre-filled WhatsApp chat
//
// Responses use a {data} or {error:{code,message,details}} envelope with
// messages negotiated from Accept-Language.
package contact

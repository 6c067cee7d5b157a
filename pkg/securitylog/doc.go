// Package securitylog records security-relevant events of the contact flow.
//
// Each event carries a timestamp, an event name, a data map, the client user
// agent (at most 200 characters) and the page URL. Middleware captures the
// request metadata; Record reads it from the context, strips markup from
// every string with a bluemonday strict policy and writes the event to all
// sinks. Stored strings are plain text: tags are dropped but entities are
// decoded again, so "a&b" is kept as "a&b" and "&lt;b&gt;" becomes "<b>".
// The user agent is cut to 200 characters before markup is stripped.
//
//	events := securitylog.New(
//		securitylog.WithSink(securitylog.NewSlogSink(log), store),
//		securitylog.WithLogger(log),
//	)
//	events.Record(ctx, securitylog.BotDetected, map[string]any{"honeypot": v})
//
// Sinks: SlogSink logs at warn level, MemorySink keeps a bounded history,
// ForwardSink posts to a collector through pkg/webhook and SQLiteStore keeps
// a queryable table. AsyncSink moves a slow sink off the request path.
//
// A failing sink never fails the caller; the joined errors are logged.
package securitylog

// Package logger builds *slog.Logger values with functional options.
//
// New picks a JSON or text handler, attaches static attributes and wraps the
// handler in LogHandlerDecorator, which runs the registered ContextExtractor
// callbacks on every record. Request-scoped values such as the request id,
// the client address and the environment reach the log output this way
// without being passed around explicitly.
//
//	log, closeLog := logger.NewWithCloser(
//		logger.WithEnvironment(environment.Production, "contactd"),
//		logger.WithFile("/var/log/contactd.log", logger.DefaultRotation),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	defer closeLog()
//
// WithFile writes a copy of every record to a lumberjack rotating file.
//
// The helpers in attr.go keep attribute keys consistent. Error and Errors
// return an empty Attr for nil errors, so callers can pass err unconditionally.
package logger

// Package email sends transactional mail through Postmark, or writes it to
// disk during development.
//
//	sender, err := email.NewPostmarkClient(cfg)
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//		SendTo:   "ventas@example.com",
//		ReplyTo:  "client@example.com",
//		Subject:  "Nuevo mensaje",
//		BodyText: "...",
//	})
//
// Failures wrap ErrFailedToSendEmail; invalid parameters wrap ErrInvalidParams.
package email

package contact

import (
	"bytes"
	"context"
	"errors"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/electroredes/contactguard/pkg/email"
)

// EmailTag labels contact messages at the mail provider.
const EmailTag = "contact-form"

var (
	ErrRecipientRequired = errors.New("email recipient is required")

	emailText = texttemplate.Must(texttemplate.New("text").Parse(`Nuevo mensaje desde el formulario de contacto

Nombre: {{.Name}}
Email: {{.Email}}
Fecha: {{.Timestamp}}

{{.Message}}
`))

	emailHTML = htmltemplate.Must(htmltemplate.New("html").Parse(`<!doctype html>
<html><body>
<h2>Nuevo mensaje desde el formulario de contacto</h2>
<p><strong>Nombre:</strong> {{.Name}}<br>
<strong>Email:</strong> {{.Email}}<br>
<strong>Fecha:</strong> {{.Timestamp}}</p>
<p style="white-space: pre-wrap">{{.Message}}</p>
</body></html>
`))
)

// EmailSink mails each submission to a fixed recipient, with Reply-To set
// to the sender.
type EmailSink struct {
	sender    email.EmailSender
	recipient string
}

func NewEmailSink(sender email.EmailSender, recipient string) (*EmailSink, error) {
	if sender == nil {
		return nil, ErrSinkRequired
	}
	if recipient == "" {
		return nil, ErrRecipientRequired
	}
	return &EmailSink{sender: sender, recipient: recipient}, nil
}

func (e *EmailSink) Deliver(ctx context.Context, s Submission) error {
	var text, html bytes.Buffer
	if err := emailText.Execute(&text, s); err != nil {
		return &SubmissionError{Err: err}
	}
	if err := emailHTML.Execute(&html, s); err != nil {
		return &SubmissionError{Err: err}
	}

	err := e.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   e.recipient,
		ReplyTo:  s.Email,
		Subject:  s.Subject,
		BodyHTML: html.String(),
		BodyText: text.String(),
		Tag:      EmailTag,
	})
	if err != nil {
		return &SubmissionError{Err: err}
	}
	return nil
}

package contact

import (
	"context"
	"time"

	"github.com/electroredes/contactguard/pkg/webhook"
)

// RelaySink posts submissions to the third-party form relay. It makes a
// single attempt; any non-2xx response or network failure is a
// *SubmissionError.
type RelaySink struct {
	sender *webhook.Sender
	url    string
	opts   []webhook.SendOption
}

// NewRelaySink posts to url. A nil sender uses a default one and a zero
// timeout keeps the sender default.
func NewRelaySink(sender *webhook.Sender, url string, timeout time.Duration, opts ...webhook.SendOption) (*RelaySink, error) {
	if url == "" {
		return nil, ErrRelayURLRequired
	}
	if sender == nil {
		sender = webhook.NewSender()
	}
	base := []webhook.SendOption{
		webhook.WithNoRetry(),
		webhook.WithHeader("Accept", "application/json"),
	}
	if timeout > 0 {
		base = append(base, webhook.WithTimeout(timeout))
	}
	return &RelaySink{sender: sender, url: url, opts: append(base, opts...)}, nil
}

func (r *RelaySink) Deliver(ctx context.Context, s Submission) error {
	if err := r.sender.Send(ctx, r.url, s, r.opts...); err != nil {
		return &SubmissionError{StatusCode: webhook.StatusCode(err), Err: err}
	}
	return nil
}

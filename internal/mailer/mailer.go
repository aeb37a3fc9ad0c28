// Package mailer sends transactional email. Registration uses it for the
// welcome message; failures are logged by the caller and never surfaced to
// the registering user.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/kanavphull/stores-rest-api/pkg/httpclient"
)

// Sender delivers a single email.
type Sender interface {
	Send(ctx context.Context, to, subject, text string) error
}

// MailgunSender posts messages to the Mailgun HTTP API.
type MailgunSender struct {
	client  *httpclient.Client
	baseURL string
	domain  string
	apiKey  string
	from    string
}

// NewMailgunSender creates a Mailgun-backed sender. baseURL is normally
// "https://api.mailgun.net/v3" and is parameterized for tests.
func NewMailgunSender(client *httpclient.Client, baseURL, domain, apiKey, from string) *MailgunSender {
	return &MailgunSender{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		domain:  domain,
		apiKey:  apiKey,
		from:    from,
	}
}

// Send posts a message to the Mailgun messages endpoint.
func (s *MailgunSender) Send(ctx context.Context, to, subject, text string) error {
	form := url.Values{}
	form.Set("from", s.from)
	form.Set("to", to)
	form.Set("subject", subject)
	form.Set("text", text)

	endpoint := fmt.Sprintf("%s/%s/messages", s.baseURL, s.domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create mailgun request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("api", s.apiKey)

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("send email via mailgun: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpclient.ParseResponseError(resp, "mailgun")
	}
	_ = resp.Body.Close()

	return nil
}

// LogSender writes the message to the log instead of sending it. Used in
// development when no Mailgun credentials are configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a sender that only logs.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message and succeeds.
func (s *LogSender) Send(ctx context.Context, to, subject, text string) error {
	s.logger.InfoContext(ctx, "email suppressed (log sender)",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("text", text),
	)
	return nil
}

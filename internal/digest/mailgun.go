package digest

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/davecollins/newsintel/config"
)

// Mailer delivers a rendered digest. Send reports success when at least one
// recipient accepted the message; only then may the caller update the ledger.
type Mailer interface {
	Send(ctx context.Context, subject, htmlBody string) error
}

// MailgunMailer sends the digest through the Mailgun messages API, one
// request per recipient so a single bad address does not block the others.
type MailgunMailer struct {
	domain     string
	apiKey     string
	apiBase    string
	from       string
	recipients []string

	httpClient *http.Client
}

func NewMailgunMailer(cfg config.EmailConfig) (*MailgunMailer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	from := cfg.From
	if from == "" {
		from = fmt.Sprintf("News Digest <digest@%s>", cfg.Domain)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MailgunMailer{
		domain:     cfg.Domain,
		apiKey:     cfg.APIKey,
		apiBase:    strings.TrimRight(cfg.APIBase, "/"),
		from:       from,
		recipients: cfg.Recipients,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Send delivers the digest to every configured recipient. Per-recipient
// failures are logged; the send as a whole fails only when no recipient
// accepted the message.
func (m *MailgunMailer) Send(ctx context.Context, subject, htmlBody string) error {
	delivered := 0
	for _, recipient := range m.recipients {
		if err := m.sendOne(ctx, recipient, subject, htmlBody); err != nil {
			log.Printf("[notify] delivery to %s failed: %v", recipient, err)
			continue
		}
		delivered++
	}
	if delivered == 0 {
		return fmt.Errorf("digest delivery failed for all %d recipients", len(m.recipients))
	}
	log.Printf("[notify] digest delivered to %d/%d recipients", delivered, len(m.recipients))
	return nil
}

func (m *MailgunMailer) sendOne(ctx context.Context, recipient, subject, htmlBody string) error {
	form := url.Values{}
	form.Set("from", m.from)
	form.Set("to", recipient)
	form.Set("subject", subject)
	form.Set("html", htmlBody)

	endpoint := fmt.Sprintf("%s/%s/messages", m.apiBase, m.domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("api", m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mailgun returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}

package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/vowsuite/vowsuite/internal/notification/domain"
)

const sendgridEndpoint = "https://api.sendgrid.com/v3/mail/send"

// SendGridChannel sends through the SendGrid v3 mail API.
type SendGridChannel struct {
	apiKey string
	from   string
	client *http.Client
}

func NewSendGrid(apiKey, from string, client *http.Client) *SendGridChannel {
	if client == nil {
		client = http.DefaultClient
	}
	return &SendGridChannel{apiKey: apiKey, from: from, client: client}
}

func (c *SendGridChannel) Name() string { return "sendgrid" }

func (c *SendGridChannel) IsConfigured() bool {
	return c.apiKey != "" && c.from != ""
}

func (c *SendGridChannel) Send(ctx context.Context, msg domain.Message) (domain.Delivery, error) {
	fromName, fromAddr := SplitAddress(c.from)

	content := make([]map[string]string, 0, 2)
	if msg.TextBody != "" {
		content = append(content, map[string]string{"type": "text/plain", "value": msg.TextBody})
	}
	if msg.HTMLBody != "" {
		content = append(content, map[string]string{"type": "text/html", "value": msg.HTMLBody})
	}

	payload := map[string]any{
		"personalizations": []map[string]any{
			{"to": []map[string]string{{"email": msg.ToEmail}}},
		},
		"from":    map[string]string{"email": fromAddr, "name": fromName},
		"subject": msg.Subject,
		"content": content,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Delivery{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendgridEndpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Delivery{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("sendgrid request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Delivery{}, &domain.ProviderError{
			Provider:   c.Name(),
			StatusCode: resp.StatusCode,
			Body:       string(raw),
		}
	}

	return domain.Delivery{
		Channel:   "email",
		Provider:  c.Name(),
		MessageID: resp.Header.Get("X-Message-Id"),
	}, nil
}

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

const resendEndpoint = "https://api.resend.com/emails"

// ResendChannel sends through the Resend HTTP API.
type ResendChannel struct {
	apiKey string
	from   string
	client *http.Client
}

func NewResend(apiKey, from string, client *http.Client) *ResendChannel {
	if client == nil {
		client = http.DefaultClient
	}
	return &ResendChannel{apiKey: apiKey, from: from, client: client}
}

func (c *ResendChannel) Name() string { return "resend" }

func (c *ResendChannel) IsConfigured() bool {
	return c.apiKey != "" && c.from != ""
}

func (c *ResendChannel) Send(ctx context.Context, msg domain.Message) (domain.Delivery, error) {
	payload := map[string]any{
		"from":    c.from,
		"to":      []string{msg.ToEmail},
		"subject": msg.Subject,
	}
	if msg.HTMLBody != "" {
		payload["html"] = msg.HTMLBody
	}
	if msg.TextBody != "" {
		payload["text"] = msg.TextBody
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Delivery{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Delivery{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("resend request: %w", err)
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

	var out struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(raw, &out)

	return domain.Delivery{Channel: "email", Provider: c.Name(), MessageID: out.ID}, nil
}

package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vowsuite/vowsuite/internal/notification/domain"
)

const graphEndpoint = "https://graph.facebook.com/v19.0"

// Channel sends text messages through the WhatsApp Business Cloud API.
type Channel struct {
	phoneNumberID string
	accessToken   string
	countryCode   string
	client        *http.Client
}

func New(phoneNumberID, accessToken, countryCode string, client *http.Client) *Channel {
	if client == nil {
		client = http.DefaultClient
	}
	return &Channel{
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
		countryCode:   strings.TrimPrefix(countryCode, "+"),
		client:        client,
	}
}

func (c *Channel) Name() string { return "whatsapp" }

func (c *Channel) IsConfigured() bool {
	return c.phoneNumberID != "" && c.accessToken != ""
}

func (c *Channel) Send(ctx context.Context, msg domain.Message) (domain.Delivery, error) {
	to := c.NormalizePhone(msg.ToPhone)
	if to == "" {
		return domain.Delivery{}, domain.ErrChannelNotConfigured
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": msg.TextBody},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Delivery{}, err
	}

	url := fmt.Sprintf("%s/%s/messages", graphEndpoint, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.Delivery{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("whatsapp request: %w", err)
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
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	_ = json.Unmarshal(raw, &out)

	delivery := domain.Delivery{Channel: "whatsapp", Provider: c.Name()}
	if len(out.Messages) > 0 {
		delivery.MessageID = out.Messages[0].ID
	}
	return delivery, nil
}

// NormalizePhone strips formatting and prefixes the configured country
// code onto local numbers written with a leading zero.
func (c *Channel) NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()
	if number == "" {
		return ""
	}

	if c.countryCode != "" {
		if strings.HasPrefix(number, "0") {
			number = c.countryCode + number[1:]
		} else if strings.HasPrefix(number, c.countryCode+"0") {
			number = c.countryCode + number[len(c.countryCode)+1:]
		}
	}
	return number
}

package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Message is one outbound notification. Channels read the fields they
// understand and ignore the rest.
type Message struct {
	ToEmail  string
	ToPhone  string
	Subject  string
	TextBody string
	HTMLBody string
}

// Delivery reports a successful send.
type Delivery struct {
	Channel   string `json:"channel"`
	Provider  string `json:"provider"`
	MessageID string `json:"message_id,omitempty"`
}

// Channel is a configured sender bound to one event's credentials.
type Channel interface {
	Name() string
	IsConfigured() bool
	Send(ctx context.Context, msg Message) (Delivery, error)
}

// TokenRefresher returns a usable OAuth access token for the given
// event and provider, refreshing against the vendor when the stored
// token is stale.
type TokenRefresher interface {
	FreshAccessToken(ctx context.Context, eventID snowflake.ID, provider string) (string, error)
}

var ErrChannelNotConfigured = errors.New("channel_not_configured")

// ProviderError is a rejection from the vendor API, as opposed to a
// transport failure reaching it.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s rejected send: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

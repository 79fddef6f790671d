package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/vowsuite/vowsuite/internal/notification/domain"
)

const (
	gmailSMTPAddr   = "smtp.gmail.com:465"
	outlookSMTPAddr = "smtp.office365.com:587"
)

// OAuthSMTPChannel submits mail over SMTP authenticating with an
// OAuth access token (XOAUTH2). Gmail uses implicit TLS on 465,
// Outlook uses STARTTLS on 587.
type OAuthSMTPChannel struct {
	provider    string
	account     string
	accessToken string
	from        string
}

func NewGmailSMTP(account, accessToken, from string) *OAuthSMTPChannel {
	return &OAuthSMTPChannel{
		provider:    "gmail",
		account:     account,
		accessToken: accessToken,
		from:        from,
	}
}

func NewOutlookSMTP(account, accessToken, from string) *OAuthSMTPChannel {
	return &OAuthSMTPChannel{
		provider:    "outlook",
		account:     account,
		accessToken: accessToken,
		from:        from,
	}
}

func (c *OAuthSMTPChannel) Name() string { return c.provider }

func (c *OAuthSMTPChannel) IsConfigured() bool {
	return c.account != "" && c.accessToken != ""
}

func (c *OAuthSMTPChannel) Send(ctx context.Context, msg domain.Message) (domain.Delivery, error) {
	client, err := c.dial(ctx)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("%s smtp dial: %w", c.provider, err)
	}
	defer client.Close()

	if err := client.Auth(xoauth2Auth{user: c.account, token: c.accessToken}); err != nil {
		return domain.Delivery{}, &domain.ProviderError{
			Provider:   c.provider,
			StatusCode: 535,
			Body:       err.Error(),
		}
	}

	// OAuth accounts must submit as the authenticated mailbox; the
	// display name still comes from the event.
	fromName, _ := SplitAddress(c.from)

	if err := client.Mail(c.account); err != nil {
		return domain.Delivery{}, fmt.Errorf("%s smtp mail from: %w", c.provider, err)
	}
	if err := client.Rcpt(msg.ToEmail); err != nil {
		return domain.Delivery{}, fmt.Errorf("%s smtp rcpt to: %w", c.provider, err)
	}

	w, err := client.Data()
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("%s smtp data: %w", c.provider, err)
	}
	if _, err := w.Write(buildMIME(fromName, c.account, msg)); err != nil {
		return domain.Delivery{}, fmt.Errorf("%s smtp write: %w", c.provider, err)
	}
	if err := w.Close(); err != nil {
		return domain.Delivery{}, fmt.Errorf("%s smtp close: %w", c.provider, err)
	}

	_ = client.Quit()
	return domain.Delivery{Channel: "email", Provider: c.provider}, nil
}

func (c *OAuthSMTPChannel) dial(ctx context.Context) (*smtp.Client, error) {
	var dialer net.Dialer

	if c.provider == "gmail" {
		conn, err := tls.DialWithDialer(&dialer, "tcp", gmailSMTPAddr, nil)
		if err != nil {
			return nil, err
		}
		host, _, _ := net.SplitHostPort(gmailSMTPAddr)
		return smtp.NewClient(conn, host)
	}

	conn, err := dialer.DialContext(ctx, "tcp", outlookSMTPAddr)
	if err != nil {
		return nil, err
	}
	host, _, _ := net.SplitHostPort(outlookSMTPAddr)
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return nil, err
	}
	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func buildMIME(fromName, fromAddr string, msg domain.Message) []byte {
	var b strings.Builder
	if fromName != "" {
		fmt.Fprintf(&b, "From: %s <%s>\r\n", fromName, fromAddr)
	} else {
		fmt.Fprintf(&b, "From: %s\r\n", fromAddr)
	}
	fmt.Fprintf(&b, "To: %s\r\n", msg.ToEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")

	if msg.HTMLBody != "" {
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(msg.HTMLBody)
	} else {
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
		b.WriteString(msg.TextBody)
	}
	b.WriteString("\r\n")
	return []byte(b.String())
}

// xoauth2Auth implements the XOAUTH2 SASL exchange used by both Gmail
// and Outlook SMTP submission.
type xoauth2Auth struct {
	user  string
	token string
}

func (a xoauth2Auth) Start(*smtp.ServerInfo) (string, []byte, error) {
	payload := "user=" + a.user + "\x01auth=Bearer " + a.token + "\x01\x01"
	return "XOAUTH2", []byte(payload), nil
}

func (a xoauth2Auth) Next(fromServer []byte, more bool) ([]byte, error) {
	if more {
		// The server pushed an error blob; answer with an empty line
		// so it fails the exchange cleanly.
		return []byte(""), nil
	}
	return nil, nil
}

package email

import (
	"net/mail"
	"strings"
)

// FormatFrom builds the display sender for an event, e.g.
// "Wedding of Ana & Ben <noreply@example.com>".
func FormatFrom(coupleNames, fromAddress, fromDomain string) string {
	name := "Wedding of " + strings.TrimSpace(coupleNames)

	addr := strings.TrimSpace(fromAddress)
	if addr == "" {
		domain := strings.TrimSpace(fromDomain)
		if domain == "" {
			domain = "example.com"
		}
		addr = "noreply@" + domain
	}
	return name + " <" + addr + ">"
}

// SplitAddress separates a display sender into name and bare address.
// SMTP envelopes and SendGrid's from object need them apart.
func SplitAddress(from string) (name, address string) {
	parsed, err := mail.ParseAddress(from)
	if err != nil {
		return "", strings.TrimSpace(from)
	}
	return parsed.Name, parsed.Address
}

package oauth

import "strings"

// endpoints describes one vendor's OAuth surface.
type endpoints struct {
	AuthURL     string
	TokenURL    string
	IdentityURL string
	Scopes      []string
	AuthExtras  map[string]string
}

var providerEndpoints = map[string]endpoints{
	"gmail": {
		AuthURL:     "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL:    "https://oauth2.googleapis.com/token",
		IdentityURL: "https://www.googleapis.com/userinfo/v2/me",
		Scopes: []string{
			"https://www.googleapis.com/auth/gmail.send",
			"https://www.googleapis.com/auth/userinfo.email",
		},
		// Google only returns a refresh token for offline consent.
		AuthExtras: map[string]string{
			"access_type": "offline",
			"prompt":      "consent",
		},
	},
	"outlook": {
		AuthURL:     "https://login.microsoftonline.com/common/oauth2/v2.0/authorize",
		TokenURL:    "https://login.microsoftonline.com/common/oauth2/v2.0/token",
		IdentityURL: "https://graph.microsoft.com/v1.0/me",
		Scopes: []string{
			"offline_access",
			"https://graph.microsoft.com/mail.send",
			"https://graph.microsoft.com/user.read",
		},
	},
}

func lookupEndpoints(provider string) (endpoints, bool) {
	ep, ok := providerEndpoints[strings.ToLower(strings.TrimSpace(provider))]
	return ep, ok
}

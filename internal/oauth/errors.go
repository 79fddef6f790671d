package oauth

import "errors"

var (
	ErrProviderNotFound        = errors.New("provider_not_found")
	ErrMissingClientConfig     = errors.New("missing_client_configuration")
	ErrInvalidState            = errors.New("invalid_state")
	ErrIncompleteTokenResponse = errors.New("incomplete_token_response")
	ErrIdentityLookup          = errors.New("identity_lookup_failed")
	ErrNoRefreshToken          = errors.New("no_refresh_token")
)

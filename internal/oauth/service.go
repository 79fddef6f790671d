package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vowsuite/vowsuite/internal/clock"
	"github.com/vowsuite/vowsuite/internal/config"
	eventdomain "github.com/vowsuite/vowsuite/internal/event/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// expirySkew refreshes tokens slightly before the vendor deadline so
// an in-flight send never races expiry.
const expirySkew = 2 * time.Minute

type AuthorizeRequest struct {
	EventID  string
	Provider string
}

type AuthorizeResult struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

type CallbackRequest struct {
	Provider string
	State    string
	Code     string
}

type CallbackResult struct {
	EventID  snowflake.ID `json:"event_id"`
	Provider string       `json:"provider"`
	Account  string       `json:"account"`
}

type Service interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResult, error)
	Callback(ctx context.Context, req CallbackRequest) (*CallbackResult, error)

	// FreshAccessToken returns the stored access token while it is still
	// valid and refreshes otherwise. Refresh always exchanges the stored
	// refresh token, fresh access token or not.
	FreshAccessToken(ctx context.Context, eventID snowflake.ID, provider string) (string, error)
	Refresh(ctx context.Context, eventID snowflake.ID, provider string) (string, error)
}

type Params struct {
	fx.In

	Log    *zap.Logger
	Config config.Config
	Clock  clock.Clock
	States StateStore
	Events eventdomain.Service
}

type service struct {
	log        *zap.Logger
	cfg        config.Config
	clock      clock.Clock
	states     StateStore
	events     eventdomain.Service
	httpClient *http.Client

	refreshMu sync.Mutex
	refreshes map[string]*sync.Mutex
}

func New(p Params) Service {
	return &service{
		log:        p.Log.Named("oauth.service"),
		cfg:        p.Config,
		clock:      p.Clock,
		states:     p.States,
		events:     p.Events,
		httpClient: http.DefaultClient,
		refreshes:  make(map[string]*sync.Mutex),
	}
}

func (s *service) Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResult, error) {
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	ep, ok := lookupEndpoints(provider)
	if !ok {
		return nil, ErrProviderNotFound
	}

	event, err := s.events.GetByID(ctx, eventdomain.GetEventRequest{ID: req.EventID})
	if err != nil {
		return nil, err
	}

	clientID, _, err := s.clientCredentials(event, provider)
	if err != nil {
		return nil, err
	}

	nonce, err := randomNonce()
	if err != nil {
		return nil, err
	}
	if err := s.states.Put(ctx, State{
		Nonce:     nonce,
		EventID:   event.ID,
		Provider:  provider,
		ExpiresAt: s.clock.Now().Add(s.cfg.OAuthStateTTL),
	}); err != nil {
		return nil, err
	}

	authURL, err := url.Parse(ep.AuthURL)
	if err != nil {
		return nil, err
	}
	query := authURL.Query()
	query.Set("response_type", "code")
	query.Set("client_id", clientID)
	query.Set("redirect_uri", s.redirectURI(provider))
	query.Set("scope", strings.Join(ep.Scopes, " "))
	query.Set("state", nonce)
	for key, value := range ep.AuthExtras {
		query.Set(key, value)
	}
	authURL.RawQuery = query.Encode()

	return &AuthorizeResult{URL: authURL.String(), State: nonce}, nil
}

func (s *service) Callback(ctx context.Context, req CallbackRequest) (*CallbackResult, error) {
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	ep, ok := lookupEndpoints(provider)
	if !ok {
		return nil, ErrProviderNotFound
	}
	if strings.TrimSpace(req.Code) == "" {
		return nil, ErrInvalidState
	}

	state, ok, err := s.states.TakeIfValid(ctx, req.State, provider)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidState
	}

	event, err := s.events.GetByID(ctx, eventdomain.GetEventRequest{ID: state.EventID.String()})
	if err != nil {
		return nil, err
	}
	clientID, clientSecret, err := s.clientCredentials(event, provider)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", req.Code)
	form.Set("redirect_uri", s.redirectURI(provider))
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)

	token, err := s.requestToken(ctx, ep.TokenURL, form)
	if err != nil {
		return nil, err
	}
	// The initial grant must carry a refresh token or the connection is
	// useless once the access token expires.
	if token.RefreshToken == "" {
		return nil, ErrIncompleteTokenResponse
	}

	account, err := s.fetchAccount(ctx, ep.IdentityURL, provider, token.AccessToken)
	if err != nil {
		return nil, err
	}

	expiry := s.tokenExpiry(token)
	if err := s.events.SaveOAuthTokens(ctx, eventdomain.SaveOAuthTokensRequest{
		EventID:      event.ID,
		Provider:     eventdomain.EmailProvider(provider),
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       expiry,
		Account:      account,
		Enable:       true,
	}); err != nil {
		return nil, err
	}

	s.log.Info("oauth account connected",
		zap.String("event_id", event.ID.String()),
		zap.String("provider", provider),
		zap.String("account", account),
	)
	return &CallbackResult{EventID: event.ID, Provider: provider, Account: account}, nil
}

func (s *service) FreshAccessToken(ctx context.Context, eventID snowflake.ID, provider string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	ep, ok := lookupEndpoints(provider)
	if !ok {
		return "", ErrProviderNotFound
	}

	// One refresh per (event, provider) at a time; losers of the race
	// re-read and find a fresh token.
	mu := s.refreshLock(eventID, provider)
	mu.Lock()
	defer mu.Unlock()

	event, err := s.events.GetByID(ctx, eventdomain.GetEventRequest{ID: eventID.String()})
	if err != nil {
		return "", err
	}

	accessToken, refreshToken, expiry := storedTokens(event, provider)
	if accessToken != "" && (expiry == nil || expiry.After(s.clock.Now().Add(expirySkew))) {
		return accessToken, nil
	}
	return s.exchangeRefreshToken(ctx, event, ep, provider, refreshToken)
}

func (s *service) Refresh(ctx context.Context, eventID snowflake.ID, provider string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	ep, ok := lookupEndpoints(provider)
	if !ok {
		return "", ErrProviderNotFound
	}

	mu := s.refreshLock(eventID, provider)
	mu.Lock()
	defer mu.Unlock()

	event, err := s.events.GetByID(ctx, eventdomain.GetEventRequest{ID: eventID.String()})
	if err != nil {
		return "", err
	}

	_, refreshToken, _ := storedTokens(event, provider)
	return s.exchangeRefreshToken(ctx, event, ep, provider, refreshToken)
}

func (s *service) exchangeRefreshToken(ctx context.Context, event eventdomain.Event, ep endpoints, provider, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrNoRefreshToken
	}

	clientID, clientSecret, err := s.clientCredentials(event, provider)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	if provider == "outlook" {
		form.Set("scope", strings.Join(ep.Scopes, " "))
	}

	token, err := s.requestToken(ctx, ep.TokenURL, form)
	if err != nil {
		return "", err
	}

	// Microsoft rotates refresh tokens; an empty one in the response
	// keeps the stored token.
	if err := s.events.SaveOAuthTokens(ctx, eventdomain.SaveOAuthTokensRequest{
		EventID:      event.ID,
		Provider:     eventdomain.EmailProvider(provider),
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       s.tokenExpiry(token),
	}); err != nil {
		return "", err
	}

	s.log.Debug("access token refreshed",
		zap.String("event_id", event.ID.String()),
		zap.String("provider", provider),
	)
	return token.AccessToken, nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (s *service) requestToken(ctx context.Context, tokenURL string, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, ErrIncompleteTokenResponse
	}
	if token.AccessToken == "" {
		return nil, ErrIncompleteTokenResponse
	}
	return &token, nil
}

func (s *service) fetchAccount(ctx context.Context, identityURL, provider, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, identityURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", ErrIdentityLookup
	}

	var payload struct {
		Email             string `json:"email"`
		Mail              string `json:"mail"`
		UserPrincipalName string `json:"userPrincipalName"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", ErrIdentityLookup
	}

	account := payload.Email
	if provider == "outlook" {
		account = payload.Mail
		if account == "" {
			account = payload.UserPrincipalName
		}
	}
	if account == "" {
		return "", ErrIdentityLookup
	}
	return account, nil
}

func (s *service) tokenExpiry(token *tokenResponse) *time.Time {
	if token.ExpiresIn <= 0 {
		return nil
	}
	expiry := s.clock.Now().UTC().Add(time.Duration(token.ExpiresIn) * time.Second)
	return &expiry
}

func (s *service) redirectURI(provider string) string {
	if provider == "gmail" {
		return s.cfg.GmailRedirectURI
	}
	return s.cfg.OutlookRedirectURI
}

func (s *service) refreshLock(eventID snowflake.ID, provider string) *sync.Mutex {
	key := eventID.String() + ":" + provider
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	mu, ok := s.refreshes[key]
	if !ok {
		mu = &sync.Mutex{}
		s.refreshes[key] = mu
	}
	return mu
}

// clientCredentials prefers the client application stored on the event
// and falls back to the process-wide one from the environment.
func (s *service) clientCredentials(event eventdomain.Event, provider string) (string, string, error) {
	var clientID, clientSecret string
	switch provider {
	case "gmail":
		clientID, clientSecret = event.GmailClientID, event.GmailClientSecret
		if clientID == "" || clientSecret == "" {
			clientID, clientSecret = s.cfg.GmailClientID, s.cfg.GmailClientSecret
		}
	case "outlook":
		clientID, clientSecret = event.OutlookClientID, event.OutlookClientSecret
		if clientID == "" || clientSecret == "" {
			clientID, clientSecret = s.cfg.OutlookClientID, s.cfg.OutlookClientSecret
		}
	default:
		return "", "", ErrProviderNotFound
	}
	if clientID == "" || clientSecret == "" {
		return "", "", ErrMissingClientConfig
	}
	return clientID, clientSecret, nil
}

func storedTokens(event eventdomain.Event, provider string) (access, refresh string, expiry *time.Time) {
	switch provider {
	case "gmail":
		return event.GmailAccessToken, event.GmailRefreshToken, event.GmailTokenExpiry
	case "outlook":
		return event.OutlookAccessToken, event.OutlookRefreshToken, event.OutlookTokenExpiry
	}
	return "", "", nil
}

func randomNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

package publisher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"

	"github.com/dukex/postgate/pkg/otelhelper"
)

const (
	EnvAuthCode     = "AUTH_CODE"
	EnvRedirectURI  = "REDIRECT_URI"
	EnvClientID     = "CLIENT_ID"
	EnvClientSecret = "CLIENT_SECRET"
)

// DefaultScopes lets the token publish posts on the member's behalf.
var DefaultScopes = []string{"w_member_social"}

// ErrTokenExchange is returned when LinkedIn refuses an authorization code.
var ErrTokenExchange = errors.New("failed to exchange authorization code")

// TokenError is a non-2xx answer from the OAuth token endpoint.
type TokenError struct {
	StatusCode  int
	Code        string
	Description string
	Details     any
}

func (e *TokenError) Error() string {
	reason := e.Description
	if reason == "" {
		reason = e.Code
	}

	return fmt.Sprintf("%v: status %d: %s", ErrTokenExchange, e.StatusCode, reason)
}

func (e *TokenError) Unwrap() error {
	return ErrTokenExchange
}

// OAuthConfig identifies the LinkedIn app an access token is requested for.
// Empty URLs fall back to LinkedIn's production endpoints.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	AuthURL      string
	TokenURL     string
	HTTPClient   *http.Client
}

func (c OAuthConfig) missing() []string {
	var missing []string

	if c.ClientID == "" {
		missing = append(missing, EnvClientID)
	}

	if c.ClientSecret == "" {
		missing = append(missing, EnvClientSecret)
	}

	if c.RedirectURI == "" {
		missing = append(missing, EnvRedirectURI)
	}

	return missing
}

func (c OAuthConfig) authConfig() *oauth2.Config {
	endpoint := linkedin.Endpoint
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	if c.AuthURL != "" {
		endpoint.AuthURL = c.AuthURL
	}

	if c.TokenURL != "" {
		endpoint.TokenURL = c.TokenURL
	}

	scopes := c.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURI,
		Scopes:       scopes,
		Endpoint:     endpoint,
	}
}

// AuthorizationURL is the page the operator visits to obtain an authorization code.
func AuthorizationURL(config OAuthConfig, state string) (string, error) {
	if missing := config.missing(); len(missing) > 0 {
		return "", &ConfigurationError{Missing: missing}
	}

	return config.authConfig().AuthCodeURL(state), nil
}

// ExchangeCode trades an authorization code for an access token.
func ExchangeCode(ctx context.Context, config OAuthConfig, code string) (token *oauth2.Token, err error) {
	missing := config.missing()
	if code == "" {
		missing = append(missing, EnvAuthCode)
	}

	if len(missing) > 0 {
		return nil, &ConfigurationError{Missing: missing}
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeoutSeconds * time.Second}
	}

	ctx, span := otelhelper.StartSpan(ctx, otelhelper.Tracer(), "publisher.exchange_code")

	defer func() {
		otelhelper.Finish(span, err)
	}()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, client)

	token, err = config.authConfig().Exchange(ctx, code)
	if err == nil {
		return token, nil
	}

	var (
		retrieveErr *oauth2.RetrieveError
		urlErr      *url.Error
	)

	switch {
	case errors.As(err, &retrieveErr):
		tokenErr := &TokenError{
			Code:        retrieveErr.ErrorCode,
			Description: retrieveErr.ErrorDescription,
			Details:     decodeBody(retrieveErr.Body),
		}

		if retrieveErr.Response != nil {
			tokenErr.StatusCode = retrieveErr.Response.StatusCode
		}

		return nil, tokenErr
	case errors.As(err, &urlErr):
		return nil, &NetworkError{Err: err}
	default:
		return nil, fmt.Errorf("%w: %w", ErrTokenExchange, err)
	}
}

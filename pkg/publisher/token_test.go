package publisher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOAuthConfig(tokenURL string) OAuthConfig {
	return OAuthConfig{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURI:  "http://localhost:3000/callback",
		TokenURL:     tokenURL,
	}
}

func TestExchangeCode_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "code-123", r.PostForm.Get("code"))
		assert.Equal(t, "http://localhost:3000/callback", r.PostForm.Get("redirect_uri"))
		assert.Equal(t, "client-1", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret-1", r.PostForm.Get("client_secret"))

		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "fresh-token",
			"expires_in":   5184000,
			"scope":        "w_member_social",
		})
	}))
	t.Cleanup(server.Close)

	token, err := ExchangeCode(context.Background(), testOAuthConfig(server.URL), "code-123")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token.AccessToken)
	assert.False(t, token.Expiry.IsZero())
	assert.Equal(t, "w_member_social", token.Extra("scope"))
}

func TestExchangeCode_Rejected(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":             "invalid_request",
			"error_description": "Unable to retrieve access token: authorization code not found",
		})
	}))
	t.Cleanup(server.Close)

	_, err := ExchangeCode(context.Background(), testOAuthConfig(server.URL), "expired")
	require.ErrorIs(t, err, ErrTokenExchange)

	var tokenErr *TokenError
	require.ErrorAs(t, err, &tokenErr)
	assert.Equal(t, http.StatusBadRequest, tokenErr.StatusCode)
	assert.Equal(t, "invalid_request", tokenErr.Code)
	assert.Contains(t, tokenErr.Error(), "authorization code not found")
}

func TestExchangeCode_NetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	tokenURL := server.URL
	server.Close()

	_, err := ExchangeCode(context.Background(), testOAuthConfig(tokenURL), "code-123")

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestExchangeCode_MissingConfiguration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   OAuthConfig
		code     string
		expected []string
	}{
		{
			name:     "missing code",
			config:   testOAuthConfig("http://127.0.0.1:1"),
			expected: []string{EnvAuthCode},
		},
		{
			name:     "missing app credentials",
			config:   OAuthConfig{RedirectURI: "http://localhost/callback"},
			code:     "code-123",
			expected: []string{EnvClientID, EnvClientSecret},
		},
		{
			name:     "nothing configured",
			expected: []string{EnvClientID, EnvClientSecret, EnvRedirectURI, EnvAuthCode},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ExchangeCode(context.Background(), tt.config, tt.code)
			require.ErrorIs(t, err, ErrMissingCredentials)

			var configErr *ConfigurationError
			require.True(t, errors.As(err, &configErr))
			assert.Equal(t, tt.expected, configErr.Missing)
		})
	}
}

func TestAuthorizationURL(t *testing.T) {
	t.Parallel()

	raw, err := AuthorizationURL(testOAuthConfig(""), "state-1")
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "www.linkedin.com", parsed.Host)
	assert.Equal(t, "/oauth/v2/authorization", parsed.Path)

	query := parsed.Query()
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "client-1", query.Get("client_id"))
	assert.Equal(t, "state-1", query.Get("state"))
	assert.Equal(t, "w_member_social", query.Get("scope"))

	_, err = AuthorizationURL(OAuthConfig{}, "state-1")
	require.ErrorIs(t, err, ErrMissingCredentials)
}

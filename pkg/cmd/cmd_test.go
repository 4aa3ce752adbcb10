package cmd

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dukex/postgate/pkg/channels/kafka"
	"github.com/dukex/postgate/pkg/generator"
	"github.com/dukex/postgate/pkg/publisher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEventBus(t *testing.T) {
	t.Parallel()

	for _, provider := range []string{"", EventBusGoChannel} {
		bus, err := NewEventBus(provider, nil, slog.Default())
		require.NoError(t, err)
		assert.NoError(t, bus.Close())
	}

	_, err := NewEventBus(EventBusKafka, nil, slog.Default())
	require.ErrorIs(t, err, kafka.ErrNoBrokers)

	_, err = NewEventBus("rabbitmq", nil, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported event bus provider")
}

func TestNewPublisher_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv(publisher.EnvAccessToken, "")
	t.Setenv(publisher.EnvPersonURN, "urn:li:person:env")

	client := NewPublisher(PublisherOptions{AccessToken: "flag-token"}, slog.Default())
	require.NoError(t, client.CheckCredentials())

	missing := NewPublisher(PublisherOptions{}, slog.Default())
	require.ErrorIs(t, missing.CheckCredentials(), publisher.ErrMissingCredentials)
}

func TestNewGenerator(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator(generator.Config{WorkDir: t.TempDir()}, slog.Default())
	require.NoError(t, err)

	_, err = NewGenerator(generator.Config{FallbackPatterns: []string{"("}}, slog.Default())
	require.Error(t, err)
}

func TestSetupTracing_Disabled(t *testing.T) {
	t.Parallel()

	shutdown, err := SetupTracing(context.Background(), false, "postgate", slog.Default())
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	shutdown(context.Background())
}

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NewHTTPClient(0))

	client := NewHTTPClient(5 * time.Second)
	require.NotNil(t, client)
	assert.Equal(t, 5*time.Second, client.Timeout)
}

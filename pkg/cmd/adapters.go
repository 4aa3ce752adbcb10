package cmd

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukex/postgate/pkg/generator"
	"github.com/dukex/postgate/pkg/publisher"
)

// NewGenerator builds a generator that runs the script as a real process.
func NewGenerator(config generator.Config, logger *slog.Logger) (*generator.Generator, error) {
	return generator.New(config, generator.NewExecRunner(), logger)
}

// PublisherOptions are the command-line settings for the LinkedIn client.
type PublisherOptions struct {
	BaseURL     string
	AccessToken string
	AuthorURN   string
	Timeout     time.Duration
}

// NewPublisher builds a LinkedIn client. Flag values win over the environment,
// which is read again on every publish.
func NewPublisher(opts PublisherOptions, logger *slog.Logger) *publisher.Client {
	return publisher.NewClient(publisher.Config{
		BaseURL:    opts.BaseURL,
		HTTPClient: NewHTTPClient(opts.Timeout),
		Credentials: publisher.FirstConfigured(
			publisher.StaticCredentials(publisher.Credentials{
				AccessToken: opts.AccessToken,
				AuthorURN:   opts.AuthorURN,
			}),
			publisher.EnvCredentials(),
		),
	}, logger)
}

// NewHTTPClient returns a client bounded by timeout, or nil so callers use
// their own default.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		return nil
	}

	return &http.Client{Timeout: timeout}
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dukex/postgate/pkg/cmd"
	"github.com/dukex/postgate/pkg/log"
	"github.com/dukex/postgate/pkg/publisher"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
)

func TokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Exchange a LinkedIn OAuth authorization code for an access token",
		Description: "Without --auth-code the authorization URL to visit is printed. " +
			"The code LinkedIn redirects back with is then exchanged for ACCESS_TOKEN.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "client-id",
				Usage:   "LinkedIn app client ID",
				Sources: cli.EnvVars(publisher.EnvClientID),
			},
			&cli.StringFlag{
				Name:    "client-secret",
				Usage:   "LinkedIn app client secret",
				Sources: cli.EnvVars(publisher.EnvClientSecret),
			},
			&cli.StringFlag{
				Name:    "redirect-uri",
				Usage:   "Redirect URI registered for the app",
				Sources: cli.EnvVars(publisher.EnvRedirectURI),
			},
			&cli.StringFlag{
				Name:    "auth-code",
				Usage:   "Authorization code from the redirect",
				Sources: cli.EnvVars(publisher.EnvAuthCode),
			},
			&cli.StringSliceFlag{
				Name:    "scope",
				Usage:   "OAuth scopes to request",
				Value:   publisher.DefaultScopes,
				Sources: cli.EnvVars("LINKEDIN_SCOPES"),
			},
			&cli.StringFlag{
				Name:    "token-url",
				Usage:   "OAuth token endpoint, defaults to LinkedIn's",
				Sources: cli.EnvVars("LINKEDIN_TOKEN_URL"),
			},
			&cli.DurationFlag{
				Name:    "linkedin-timeout",
				Usage:   "HTTP timeout for LinkedIn requests",
				Value:   30 * time.Second,
				Sources: cli.EnvVars("LINKEDIN_TIMEOUT"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			shutdownTracing, err := cmd.SetupTracing(ctx, command.Bool("otel"), "postgate", slog.Default())
			if err != nil {
				return fmt.Errorf("failed to initialize tracer: %w", err)
			}
			defer shutdownTracing(context.WithoutCancel(ctx))

			config := publisher.OAuthConfig{
				ClientID:     command.String("client-id"),
				ClientSecret: command.String("client-secret"),
				RedirectURI:  command.String("redirect-uri"),
				Scopes:       command.StringSlice("scope"),
				TokenURL:     command.String("token-url"),
				HTTPClient:   cmd.NewHTTPClient(command.Duration("linkedin-timeout")),
			}

			ctx = log.WithContext(ctx, log.WithModule("token"))

			return runToken(ctx, config, command.String("auth-code"), uuid.NewString(), os.Stdout)
		},
	}
}

// runToken prints the authorization URL when code is empty, otherwise the
// exchanged token in .env form.
func runToken(ctx context.Context, config publisher.OAuthConfig, code, state string, out io.Writer) error {
	if code == "" {
		authURL, err := publisher.AuthorizationURL(config, state)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(out, "Open this URL, approve the app and rerun with --auth-code:\n%s\n", authURL)

		return err
	}

	token, err := publisher.ExchangeCode(ctx, config, code)
	if err != nil {
		return err
	}

	log.FromContext(ctx, nil).InfoContext(ctx, "Access token issued", "expires", token.Expiry)

	if _, err := fmt.Fprintf(out, "%s=%s\n", publisher.EnvAccessToken, token.AccessToken); err != nil {
		return err
	}

	if !token.Expiry.IsZero() {
		_, err = fmt.Fprintf(out, "# expires %s\n", token.Expiry.Format(time.RFC3339))
	}

	return err
}

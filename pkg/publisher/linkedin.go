// Package publisher submits approved posts to the LinkedIn UGC posts API.
package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dukex/postgate/pkg/models"
	"github.com/dukex/postgate/pkg/otelhelper"
)

const (
	DefaultBaseURL  = "https://api.linkedin.com"
	ugcPostsPath    = "/v2/ugcPosts"
	postURLFormat   = "https://www.linkedin.com/feed/update/%s/"
	TimestampLayout = "1/2/2006, 3:04:05 PM"

	defaultTimeoutSeconds = 30
	maxResponseBytes      = 1 << 20

	lifecycleStatePublished = "PUBLISHED"
	visibilityPublic        = "PUBLIC"
	mediaCategoryNone       = "NONE"
	restliProtocolVersion   = "2.0.0"

	successMessage = "Post published successfully!"
)

type ugcPost struct {
	Author          string          `json:"author"`
	LifecycleState  string          `json:"lifecycleState"`
	SpecificContent specificContent `json:"specificContent"`
	Visibility      visibility      `json:"visibility"`
}

type specificContent struct {
	ShareContent shareContent `json:"com.linkedin.ugc.ShareContent"`
}

type shareContent struct {
	ShareCommentary    commentary `json:"shareCommentary"`
	ShareMediaCategory string     `json:"shareMediaCategory"`
}

type commentary struct {
	Text string `json:"text"`
}

type visibility struct {
	MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
}

// Config configures a Client. Zero values fall back to the production API,
// a 30 second HTTP timeout, time.Now and the local time zone.
type Config struct {
	BaseURL     string
	HTTPClient  *http.Client
	Credentials CredentialSource
	Now         func() time.Time
	Location    *time.Location
}

// Client publishes posts on behalf of the configured author.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials CredentialSource
	now         func() time.Time
	location    *time.Location
	logger      *slog.Logger
	tracer      trace.Tracer
}

func NewClient(config Config, logger *slog.Logger) *Client {
	client := &Client{
		baseURL:     strings.TrimRight(config.BaseURL, "/"),
		httpClient:  config.HTTPClient,
		credentials: config.Credentials,
		now:         config.Now,
		location:    config.Location,
		logger:      logger.With("module", "publisher"),
		tracer:      otelhelper.Tracer(),
	}

	if client.baseURL == "" {
		client.baseURL = DefaultBaseURL
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeoutSeconds * time.Second}
	}

	if client.credentials == nil {
		client.credentials = EnvCredentials()
	}

	if client.now == nil {
		client.now = time.Now
	}

	if client.location == nil {
		client.location = time.Local
	}

	return client
}

// CheckCredentials fails with a ConfigurationError when credentials are absent.
func (c *Client) CheckCredentials() error {
	if missing := c.credentials().missing(); len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}

	return nil
}

// StampText appends the human-readable publish time to text. Upstream rejects
// identical commentary, and the stamp keeps reposts distinct.
func StampText(text string, at time.Time) string {
	return fmt.Sprintf("%s\n\n📅 Posted on %s", text, at.Format(TimestampLayout))
}

// PostURL is the public view URL of a created post.
func PostURL(postID string) string {
	return fmt.Sprintf(postURLFormat, postID)
}

// Publish submits text and returns the created post's identifier and URL.
func (c *Client) Publish(ctx context.Context, text string) (outcome *models.PublishOutcome, err error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	creds := c.credentials()
	if missing := creds.missing(); len(missing) > 0 {
		return nil, &ConfigurationError{Missing: missing}
	}

	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "publisher.publish")

	var attrs []attribute.KeyValue

	defer func() {
		otelhelper.Finish(span, err, attrs...)
	}()

	payload, err := json.Marshal(ugcPost{
		Author:         creds.AuthorURN,
		LifecycleState: lifecycleStatePublished,
		SpecificContent: specificContent{
			ShareContent: shareContent{
				ShareCommentary:    commentary{Text: StampText(text, c.now().In(c.location))},
				ShareMediaCategory: mediaCategoryNone,
			},
		},
		Visibility: visibility{MemberNetworkVisibility: visibilityPublic},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ugcPostsPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", restliProtocolVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "LinkedIn request failed", "error", err)

		return nil, &NetworkError{Err: err}
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	attrs = append(attrs, attribute.Int(otelhelper.PublishStatusCodeKey, resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	body := decodeBody(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, body)
		attrs = append(attrs, attribute.String(otelhelper.PublishErrorKindKey, string(apiErr.Kind)))

		c.logger.WarnContext(ctx, "LinkedIn post failed",
			"status", apiErr.StatusCode,
			"kind", apiErr.Kind,
			"reason", apiErr.Message,
			"hint", apiErr.Kind.Hint(),
		)

		return nil, apiErr
	}

	fields, _ := body.(map[string]any)
	if fields == nil {
		fields = map[string]any{}
	}

	if _, ok := fields["id"]; !ok {
		if id := resp.Header.Get("X-RestLi-Id"); id != "" {
			fields["id"] = id
		}
	}

	if err := validateCreatedPost(fields); err != nil {
		return nil, err
	}

	postID, _ := fields["id"].(string)
	attrs = append(attrs, attribute.String(otelhelper.PublishPostIDKey, postID))

	outcome = &models.PublishOutcome{
		Success:        true,
		Message:        successMessage,
		ExternalPostID: postID,
		ExternalURL:    PostURL(postID),
	}

	c.logger.InfoContext(ctx, "LinkedIn post published", "post_id", postID, "url", outcome.ExternalURL)

	return outcome, nil
}

// decodeBody returns the JSON value of raw, or raw as a string when it is not JSON.
func decodeBody(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return string(raw)
	}

	return body
}

func newAPIError(statusCode int, body any) *APIError {
	var message string

	switch b := body.(type) {
	case map[string]any:
		message, _ = b["message"].(string)
	case string:
		message = b
	}

	return &APIError{
		StatusCode: statusCode,
		Kind:       classify(statusCode, message),
		Message:    message,
		Details:    body,
	}
}

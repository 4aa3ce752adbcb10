package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/postgate/pkg/channels/gochannel"
	"github.com/dukex/postgate/pkg/eventbus"
	"github.com/dukex/postgate/pkg/generator"
	"github.com/dukex/postgate/pkg/ledger"
	"github.com/dukex/postgate/pkg/models"
	"github.com/dukex/postgate/pkg/publisher"
	"github.com/dukex/postgate/pkg/services"
	"github.com/dukex/postgate/pkg/web"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scriptRunner(t *testing.T) generator.Runner {
	t.Helper()

	return generator.RunnerFunc(func(_ context.Context, dir, _ string, args ...string) generator.ProcessResult {
		date := args[2]
		path := filepath.Join(dir, generator.ArtifactName(date))

		if err := os.WriteFile(path, []byte("Generated post for "+date), 0o600); err != nil {
			return generator.ProcessResult{ExitCode: 1, Stderr: err.Error()}
		}

		return generator.ProcessResult{Stdout: "wrote " + path}
	})
}

func linkedInServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/ugcPosts", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"urn:li:share:42"}`))
	}))
	t.Cleanup(server.Close)

	return server
}

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NewSlogLogger(slog.Default()))
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)

	t.Cleanup(func() {
		_ = bus.Close()
	})

	feed := web.NewEventFeed(0)
	require.NoError(t, feed.Register(bus))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, bus.Subscribe(ctx))

	gen, err := generator.New(generator.Config{WorkDir: t.TempDir()}, scriptRunner(t), slog.Default())
	require.NoError(t, err)

	linkedIn := publisher.NewClient(publisher.Config{
		BaseURL: linkedInServer(t).URL,
		Credentials: publisher.StaticCredentials(publisher.Credentials{
			AccessToken: "token",
			AuthorURN:   "urn:li:person:1",
		}),
	}, slog.Default())

	review := services.NewReview("", gen, linkedIn, ledger.New(), bus, slog.Default())

	return NewAPI(slog.Default(), review, feed).App()
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	var result map[string]any

	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err)

	return resp.StatusCode, result
}

func TestAPI_HealthCheck(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
}

func TestAPI_ReviewFlow(t *testing.T) {
	t.Parallel()

	app := setupTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/generate-post", web.GenerateRequest{Date: "2024-05-01"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Generated post for 2024-05-01", body["generatedPost"])

	status, body = doJSON(t, app, http.MethodPost, "/api/draft/approve", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "https://www.linkedin.com/feed/update/urn:li:share:42/", body["postUrl"])

	status, body = doJSON(t, app, http.MethodPost, "/api/draft/reset", nil)
	require.Equal(t, http.StatusOK, status)

	history, ok := body["history"].([]any)
	require.True(t, ok)
	assert.Len(t, history, 1)

	// Publishing blocks until the feed acks, so every event is recorded by now.
	_, feed := doJSON(t, app, http.MethodGet, "/api/events?after=0", nil)

	var types []string

	events, ok := feed["events"].([]any)
	require.True(t, ok)
	require.Len(t, events, 3)

	for _, raw := range events {
		event, ok := raw.(map[string]any)
		require.True(t, ok)

		eventType, _ := event["type"].(string)
		types = append(types, eventType)
	}

	assert.Equal(t, []string{"draft.generated", "draft.approved", "draft.reset"}, types)
}

type stubGenerator struct {
	gen *models.Generation
	err error
}

func (s stubGenerator) Generate(context.Context, string) (*models.Generation, error) {
	return s.gen, s.err
}

func TestRunGenerate(t *testing.T) {
	t.Parallel()

	var out, diag bytes.Buffer

	err := runGenerate(context.Background(), stubGenerator{gen: &models.Generation{
		Text: "placeholder",
		Note: generator.FallbackNote,
	}}, "2024-05-01", &out, &diag)
	require.NoError(t, err)

	assert.Equal(t, "placeholder\n", out.String())
	assert.Contains(t, diag.String(), generator.FallbackNote)

	err = runGenerate(context.Background(), stubGenerator{err: generator.ErrGeneratorFailed}, "2024-05-01", &out, &diag)
	require.ErrorIs(t, err, generator.ErrGeneratorFailed)
}

type stubPublisher struct{}

func (stubPublisher) Publish(context.Context, string) (*models.PublishOutcome, error) {
	return &models.PublishOutcome{
		Success:     true,
		Message:     "Post published successfully!",
		ExternalURL: "https://www.linkedin.com/feed/update/urn:li:share:1/",
	}, nil
}

func TestRunPublish(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	require.NoError(t, runPublish(context.Background(), stubPublisher{}, "hello", &out))
	assert.Equal(t, "Post published successfully!\nhttps://www.linkedin.com/feed/update/urn:li:share:1/\n", out.String())
}

func TestPostText(t *testing.T) {
	t.Parallel()

	text, err := postText("  inline  ", "")
	require.NoError(t, err)
	assert.Equal(t, "inline", text)

	file := filepath.Join(t.TempDir(), "post.txt")
	require.NoError(t, os.WriteFile(file, []byte("from file\n"), 0o600))

	text, err = postText("ignored", file)
	require.NoError(t, err)
	assert.Equal(t, "from file", text)

	_, err = postText("", "")
	require.ErrorIs(t, err, errNoText)

	_, err = postText("", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to read post file"))
}

// Package generator produces draft post text by running the external
// generation script for a given date.
package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dukex/postgate/pkg/models"
	"github.com/dukex/postgate/pkg/otelhelper"
)

const (
	DateLayout = "2006-01-02"

	defaultPython  = "python3"
	defaultScript  = "main.py"
	defaultTimeout = 120 * time.Second

	FallbackNote = "Generated fallback post because the generator is missing a dependency"
)

// DefaultFallbackPatterns match the diagnostics Python prints for a missing module.
var DefaultFallbackPatterns = []string{
	`ModuleNotFoundError`,
	`No module named`,
}

const DefaultFallbackTemplate = `🚀 Exciting projects from our community on {{.Date}}!

Today, our talented members created several innovative projects including "AI Assistant", "Data Visualization Tool", and "Smart Home Automation".

These projects showcase the creativity and technical skills of our community members, ranging from AI tools to productivity enhancers.

Check out these amazing projects and see how our community continues to push the boundaries of technology!

#TechCommunity #Innovation #AI #BuildInPublic`

// Config describes how to invoke the generation script.
type Config struct {
	Python           string        // Interpreter, defaults to python3
	Script           string        // Script path, defaults to main.py
	WorkDir          string        // Working directory for the process
	OutputDir        string        // Directory the script writes posts to, defaults to WorkDir
	MaxProjects      int           // Passed as --max-projects when positive
	Mock             bool          // Passed as --mock
	UseSQLite        bool          // Passed as --use-sqlite
	SQLitePath       string        // Passed as --sqlite-path with UseSQLite
	Timeout          time.Duration // Upper bound for a single run
	FallbackPatterns []string      // Regular expressions matched against stderr
	FallbackTemplate string        // text/template rendered with .Date
}

// Generator runs the external script and degrades to a placeholder post when
// the script is missing one of its dependencies.
type Generator struct {
	config   Config
	runner   Runner
	fallback []*regexp.Regexp
	template *template.Template
	logger   *slog.Logger
	tracer   trace.Tracer
}

func New(config Config, runner Runner, logger *slog.Logger) (*Generator, error) {
	if config.Python == "" {
		config.Python = defaultPython
	}

	if config.Script == "" {
		config.Script = defaultScript
	}

	if config.OutputDir == "" {
		config.OutputDir = config.WorkDir
	}

	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}

	if config.FallbackPatterns == nil {
		config.FallbackPatterns = DefaultFallbackPatterns
	}

	if config.FallbackTemplate == "" {
		config.FallbackTemplate = DefaultFallbackTemplate
	}

	patterns := make([]*regexp.Regexp, 0, len(config.FallbackPatterns))
	for _, p := range config.FallbackPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid fallback pattern %q: %w", p, err)
		}

		patterns = append(patterns, re)
	}

	tmpl, err := template.New("fallback").Parse(config.FallbackTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid fallback template: %w", err)
	}

	return &Generator{
		config:   config,
		runner:   runner,
		fallback: patterns,
		template: tmpl,
		logger:   logger.With("module", "generator"),
		tracer:   otelhelper.Tracer(),
	}, nil
}

// ValidateDate checks that date is a real calendar day in YYYY-MM-DD form.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	return nil
}

// ArtifactName is the file the script writes the post for date to.
func ArtifactName(date string) string {
	return "linkedin_post_" + strings.ReplaceAll(date, "-", "_") + ".txt"
}

// Generate runs the script for date and returns the produced post.
func (g *Generator) Generate(ctx context.Context, date string) (gen *models.Generation, err error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	ctx, span := otelhelper.StartSpan(ctx, g.tracer, "generator.run",
		attribute.String(otelhelper.GenerationDateKey, date),
	)

	defer func() {
		otelhelper.Finish(span, err, attribute.Bool(otelhelper.GenerationFallback, gen != nil && gen.Fallback))
	}()

	// A post left by an earlier run must not be mistaken for this run's output.
	if err := os.Remove(g.artifactPath(date)); err != nil && !errors.Is(err, os.ErrNotExist) {
		g.logger.WarnContext(ctx, "Could not remove previous post", "path", g.artifactPath(date), "error", err)
	}

	args := g.args(date)
	g.logger.InfoContext(ctx, "Running post generator", "date", date, "command", g.config.Python, "args", args)

	result := g.runner.Run(ctx, g.config.WorkDir, g.config.Python, args...)
	span.SetAttributes(attribute.Int(otelhelper.GeneratorExitCodeKey, result.ExitCode))

	if result.Err != nil {
		if errors.Is(result.Err, context.DeadlineExceeded) {
			return nil, &ProcessError{ExitCode: result.ExitCode, Diagnostic: result.Stderr, Err: ErrGeneratorTimeout}
		}

		if g.shouldFallback(result.Err.Error()) {
			return g.generateFallback(ctx, date)
		}

		return nil, &ProcessError{
			ExitCode:   result.ExitCode,
			Diagnostic: result.Err.Error(),
			Err:        ErrGeneratorFailed,
		}
	}

	if result.ExitCode != 0 {
		g.logger.ErrorContext(ctx, "Post generator exited with error",
			"exit_code", result.ExitCode, "stderr", result.Stderr)

		if g.shouldFallback(result.Stderr) {
			return g.generateFallback(ctx, date)
		}

		diagnostic := result.Stderr
		if diagnostic == "" {
			diagnostic = "Unknown error"
		}

		return nil, &ProcessError{ExitCode: result.ExitCode, Diagnostic: diagnostic, Err: ErrGeneratorFailed}
	}

	return g.readArtifact(date, result.Stdout)
}

func (g *Generator) args(date string) []string {
	args := []string{g.config.Script, "--date", date, "--dry-run"}

	if g.config.MaxProjects > 0 {
		args = append(args, "--max-projects", strconv.Itoa(g.config.MaxProjects))
	}

	if g.config.Mock {
		args = append(args, "--mock")
	}

	if g.config.UseSQLite {
		args = append(args, "--use-sqlite")

		if g.config.SQLitePath != "" {
			args = append(args, "--sqlite-path", g.config.SQLitePath)
		}
	}

	return args
}

func (g *Generator) shouldFallback(diagnostic string) bool {
	for _, re := range g.fallback {
		if re.MatchString(diagnostic) {
			return true
		}
	}

	return false
}

func (g *Generator) artifactPath(date string) string {
	return filepath.Join(g.config.OutputDir, ArtifactName(date))
}

func (g *Generator) readArtifact(date, stdout string) (*models.Generation, error) {
	data, err := os.ReadFile(g.artifactPath(date))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			diagnostic := stdout
			if diagnostic == "" {
				diagnostic = "No output from script"
			}

			return nil, &ProcessError{ExitCode: 0, Diagnostic: diagnostic, Err: ErrOutputMissing}
		}

		return nil, fmt.Errorf("failed to read generated post: %w", err)
	}

	if strings.TrimSpace(string(data)) == "" {
		return nil, &ProcessError{ExitCode: 0, Diagnostic: g.artifactPath(date), Err: ErrOutputEmpty}
	}

	return &models.Generation{
		Date: date,
		Text: string(data),
	}, nil
}

func (g *Generator) generateFallback(ctx context.Context, date string) (*models.Generation, error) {
	g.logger.WarnContext(ctx, "Generator dependency missing, using fallback post", "date", date)

	var buf bytes.Buffer
	if err := g.template.Execute(&buf, struct{ Date string }{Date: date}); err != nil {
		return nil, fmt.Errorf("failed to render fallback post: %w", err)
	}

	text := buf.String()

	if err := os.WriteFile(g.artifactPath(date), []byte(text), 0o644); err != nil {
		g.logger.WarnContext(ctx, "Could not write fallback post to file", "error", err)
	}

	return &models.Generation{
		Date:     date,
		Text:     text,
		Note:     FallbackNote,
		Fallback: true,
	}, nil
}

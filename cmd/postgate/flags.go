package main

import (
	"time"

	"github.com/dukex/postgate/pkg/cmd"
	"github.com/dukex/postgate/pkg/generator"
	"github.com/dukex/postgate/pkg/publisher"
	"github.com/urfave/cli/v3"
)

const defaultGeneratorTimeout = 120 * time.Second

func generatorFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "generator-python",
			Usage:   "Python interpreter used to run the generator script",
			Value:   "python3",
			Sources: cli.EnvVars("GENERATOR_PYTHON"),
		},
		&cli.StringFlag{
			Name:    "generator-script",
			Usage:   "Path of the post generator script",
			Value:   "main.py",
			Sources: cli.EnvVars("GENERATOR_SCRIPT"),
		},
		&cli.StringFlag{
			Name:    "generator-workdir",
			Usage:   "Working directory of the generator process",
			Value:   ".",
			Sources: cli.EnvVars("GENERATOR_WORKDIR"),
		},
		&cli.StringFlag{
			Name:    "generator-output-dir",
			Usage:   "Directory the generator writes posts to (defaults to the working directory)",
			Sources: cli.EnvVars("GENERATOR_OUTPUT_DIR"),
		},
		&cli.IntFlag{
			Name:    "generator-max-projects",
			Usage:   "Maximum number of projects the generator features (0 keeps the script default)",
			Sources: cli.EnvVars("GENERATOR_MAX_PROJECTS"),
		},
		&cli.BoolFlag{
			Name:    "generator-mock",
			Usage:   "Ask the generator to use mock project data",
			Sources: cli.EnvVars("GENERATOR_MOCK"),
		},
		&cli.BoolFlag{
			Name:    "generator-use-sqlite",
			Usage:   "Ask the generator to read projects from SQLite instead of PostgreSQL",
			Sources: cli.EnvVars("GENERATOR_USE_SQLITE"),
		},
		&cli.StringFlag{
			Name:      "generator-sqlite-path",
			Usage:     "SQLite database the generator reads with --generator-use-sqlite",
			TakesFile: true,
			Sources:   cli.EnvVars("GENERATOR_SQLITE_PATH"),
		},
		&cli.DurationFlag{
			Name:    "generator-timeout",
			Usage:   "Maximum time a single generation may take",
			Value:   defaultGeneratorTimeout,
			Sources: cli.EnvVars("GENERATOR_TIMEOUT"),
		},
		&cli.StringSliceFlag{
			Name:    "generator-fallback-pattern",
			Usage:   "Regular expression on generator stderr that triggers the placeholder post (repeatable)",
			Value:   generator.DefaultFallbackPatterns,
			Sources: cli.EnvVars("GENERATOR_FALLBACK_PATTERNS"),
		},
	}
}

func generatorConfig(command *cli.Command) generator.Config {
	return generator.Config{
		Python:           command.String("generator-python"),
		Script:           command.String("generator-script"),
		WorkDir:          command.String("generator-workdir"),
		OutputDir:        command.String("generator-output-dir"),
		MaxProjects:      command.Int("generator-max-projects"),
		Mock:             command.Bool("generator-mock"),
		UseSQLite:        command.Bool("generator-use-sqlite"),
		SQLitePath:       command.String("generator-sqlite-path"),
		Timeout:          command.Duration("generator-timeout"),
		FallbackPatterns: command.StringSlice("generator-fallback-pattern"),
	}
}

func publisherFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "access-token",
			Usage:   "LinkedIn OAuth access token",
			Sources: cli.EnvVars("ACCESS_TOKEN"),
		},
		&cli.StringFlag{
			Name:    "person-urn",
			Usage:   "Author URN posts are published as (urn:li:person:... or urn:li:organization:...)",
			Sources: cli.EnvVars("PERSON_URN"),
		},
		&cli.StringFlag{
			Name:    "linkedin-api-url",
			Usage:   "Base URL of the LinkedIn REST API",
			Value:   publisher.DefaultBaseURL,
			Sources: cli.EnvVars("LINKEDIN_API_URL"),
		},
		&cli.DurationFlag{
			Name:    "linkedin-timeout",
			Usage:   "HTTP timeout for LinkedIn requests",
			Value:   30 * time.Second,
			Sources: cli.EnvVars("LINKEDIN_TIMEOUT"),
		},
	}
}

func publisherOptions(command *cli.Command) cmd.PublisherOptions {
	return cmd.PublisherOptions{
		BaseURL:     command.String("linkedin-api-url"),
		AccessToken: command.String("access-token"),
		AuthorURN:   command.String("person-urn"),
		Timeout:     command.Duration("linkedin-timeout"),
	}
}

// Package main provides the postgate review server and its command-line tools.
package main

import (
	"log/slog"
	"strconv"

	"github.com/dukex/postgate/pkg/services"
	"github.com/dukex/postgate/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger   *slog.Logger
	review   *services.Review
	feed     *web.EventFeed
	validate *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	review *services.Review,
	feed *web.EventFeed,
) *API {
	return &API{
		logger:   logger,
		review:   review,
		feed:     feed,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.review, a.feed, a.validate)

	app := fiber.New(fiber.Config{
		AppName: "postgate",
	})
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	handlers.Register(app)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	a.logger.Info("Review page available", "url", "http://localhost:"+strconv.Itoa(port))

	return app.Listen(":" + strconv.Itoa(port))
}

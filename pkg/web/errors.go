package web

import (
	"errors"

	"github.com/dukex/postgate/pkg/generator"
	"github.com/dukex/postgate/pkg/lifecycle"
	"github.com/dukex/postgate/pkg/publisher"
	"github.com/dukex/postgate/pkg/services"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

// Problem is an RFC 7807 document extended with the fields the review page reads.
type Problem struct {
	*problems.Problem

	Message    string `json:"error"`
	Details    any    `json:"details,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"` // Upstream status for publishing failures
}

func newProblem(c fiber.Ctx, status int, problemType, message string) *Problem {
	return &Problem{
		Problem: problems.NewStatusProblem(status).
			WithInstance(c.Path()).
			WithType(problemType),
		Message: message,
	}
}

func (p *Problem) send(c fiber.Ctx) error {
	return c.Status(p.Status).JSON(p)
}

func badRequest(c fiber.Ctx, detail string) error {
	problem := newProblem(c, fiber.StatusBadRequest, "validation_error", detail)
	problem.Detail = detail

	return problem.send(c)
}

// handleServiceError maps service layer errors to problem responses.
func handleServiceError(c fiber.Ctx, err error) error {
	var (
		apiErr     *publisher.APIError
		netErr     *publisher.NetworkError
		configErr  *publisher.ConfigurationError
		processErr *generator.ProcessError
	)

	switch {
	case services.IsValidationError(err):
		return badRequest(c, err.Error())

	case errors.Is(err, lifecycle.ErrBusy):
		problem := newProblem(c, fiber.StatusConflict, "busy", err.Error())
		problem.Detail = "Another generate or publish operation is still running"

		return problem.send(c)

	case services.IsConflictError(err):
		problem := newProblem(c, fiber.StatusConflict, "conflict", err.Error())
		problem.Detail = err.Error()

		return problem.send(c)

	case errors.As(err, &configErr):
		problem := newProblem(c, fiber.StatusInternalServerError, "configuration_error", publisher.ErrMissingCredentials.Error())
		problem.Details = fiber.Map{"missing": configErr.Missing}

		return problem.send(c)

	case errors.As(err, &apiErr):
		problem := newProblem(c, fiber.StatusBadGateway, "upstream_error", publisher.ErrPublishFailed.Error())
		problem.Detail = apiErr.Kind.Hint()
		problem.Details = apiErr.Details
		problem.StatusCode = apiErr.StatusCode

		return problem.send(c)

	case errors.As(err, &netErr):
		problem := newProblem(c, fiber.StatusBadGateway, "network_error", "Network error reaching LinkedIn")
		problem.Details = netErr.Err.Error()

		return problem.send(c)

	case errors.Is(err, publisher.ErrUnexpectedResponse):
		problem := newProblem(c, fiber.StatusBadGateway, "upstream_error", err.Error())

		return problem.send(c)

	case errors.As(err, &processErr):
		problem := newProblem(c, fiber.StatusInternalServerError, "generation_error", processErr.Err.Error())
		problem.Details = processErr.Diagnostic

		return problem.send(c)

	case services.IsGenerationError(err):
		problem := newProblem(c, fiber.StatusInternalServerError, "generation_error", err.Error())

		return problem.send(c)

	default:
		// Unexpected errors are not exposed to the client
		problem := newProblem(c, fiber.StatusInternalServerError, "internal_error", "Internal server error")

		return problem.send(c)
	}
}

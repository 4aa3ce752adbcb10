// Package web provides HTTP handlers and the review page for a postgate session.
package web

import (
	_ "embed"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dukex/postgate/pkg/publisher"
	"github.com/dukex/postgate/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

//go:embed static/index.html
var indexPage string

type APIHandlers struct {
	review    *services.Review
	feed      *EventFeed
	validator *validator.Validate
}

func NewAPIHandlers(
	review *services.Review,
	feed *EventFeed,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		review:    review,
		feed:      feed,
		validator: validator,
	}
}

// Register mounts the review page and API on router.
func (h *APIHandlers) Register(router fiber.Router) {
	router.Get("/", h.Index)
	router.Get("/health", h.HealthCheck)

	api := router.Group("/api")
	api.Post("/generate-post", h.GeneratePost)
	api.Post("/linkedin-post", h.PublishPost)
	api.Get("/session", h.GetSession)
	api.Get("/history", h.GetHistory)
	api.Get("/events", h.GetEvents)

	d := api.Group("/draft")
	d.Post("/approve", h.ApproveDraft)
	d.Post("/reject", h.RejectDraft)
	d.Post("/reset", h.ResetDraft)
	d.Post("/edit", h.StartEdit)
	d.Put("/edit", h.UpdateEdit)
	d.Post("/edit/save", h.SaveEdit)
	d.Post("/edit/cancel", h.CancelEdit)
}

func (h *APIHandlers) Index(c fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)

	return c.SendString(indexPage)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	publisherCheck := "LinkedIn credentials configured"

	var configErr *publisher.ConfigurationError
	if err := h.review.CheckCredentials(); errors.As(err, &configErr) {
		publisherCheck = configErr.Error()
	}

	session := h.review.Snapshot()

	// Missing credentials only fail publishing, so the service stays healthy.
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":  "healthy",
		"message": "postgate is healthy",
		"checkers": fiber.Map{
			"publisher": publisherCheck,
			"session":   string(session.Draft.Status),
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GeneratePost(c fiber.Ctx) error {
	var req GenerateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Date is required in YYYY-MM-DD format")
	}

	gen, err := h.review.Generate(c.Context(), req.Date)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(GenerateResponse{
		Success:       true,
		GeneratedPost: gen.Text,
		Note:          gen.Note,
		Fallback:      gen.Fallback,
	})
}

func (h *APIHandlers) PublishPost(c fiber.Ctx) error {
	var req PublishRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Post text is required")
	}

	outcome, err := h.review.PublishText(c.Context(), req.Text)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(newPublishResponse(outcome))
}

func (h *APIHandlers) GetSession(c fiber.Ctx) error {
	return c.JSON(h.review.Snapshot())
}

func (h *APIHandlers) GetHistory(c fiber.Ctx) error {
	return c.JSON(HistoryResponse{Entries: h.review.History()})
}

func (h *APIHandlers) GetEvents(c fiber.Ctx) error {
	var after uint64

	if afterStr := c.Query("after"); afterStr != "" {
		parsed, err := strconv.ParseUint(afterStr, 10, 64)
		if err != nil {
			return badRequest(c, "Invalid query parameters: after must be a non-negative integer")
		}

		after = parsed
	}

	feedEvents, last := h.feed.Since(after)

	return c.JSON(EventsResponse{Events: feedEvents, Last: last})
}

func (h *APIHandlers) ApproveDraft(c fiber.Ctx) error {
	outcome, err := h.review.Approve(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(ApproveResponse{
		PublishResponse: newPublishResponse(outcome),
		Session:         h.review.Snapshot(),
	})
}

func (h *APIHandlers) RejectDraft(c fiber.Ctx) error {
	return h.sessionResult(c)(h.review.Reject(c.Context()))
}

func (h *APIHandlers) ResetDraft(c fiber.Ctx) error {
	return h.sessionResult(c)(h.review.Reset(c.Context()))
}

func (h *APIHandlers) StartEdit(c fiber.Ctx) error {
	return h.sessionResult(c)(h.review.StartEdit(c.Context()))
}

func (h *APIHandlers) UpdateEdit(c fiber.Ctx) error {
	var req EditBufferRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	return h.sessionResult(c)(h.review.UpdateEditBuffer(c.Context(), req.Text))
}

func (h *APIHandlers) SaveEdit(c fiber.Ctx) error {
	var req SaveEditRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Post text is required")
	}

	return h.sessionResult(c)(h.review.SaveEdit(c.Context(), req.Text))
}

func (h *APIHandlers) CancelEdit(c fiber.Ctx) error {
	return h.sessionResult(c)(h.review.CancelEdit(c.Context()))
}

func (h *APIHandlers) sessionResult(c fiber.Ctx) func(services.Session, error) error {
	return func(session services.Session, err error) error {
		if err != nil {
			return handleServiceError(c, err)
		}

		return c.JSON(session)
	}
}

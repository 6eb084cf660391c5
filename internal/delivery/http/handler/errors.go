package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"careerpilot/internal/delivery/http/middleware"
	"careerpilot/internal/llm"
	"careerpilot/internal/pkg/response"
	"careerpilot/internal/sanitize"
	"careerpilot/internal/usecase"
)

// msgGenerationFailed is the single client-facing message for every
// failure inside the generation pipeline, whether the model call broke
// or its output failed validation. Clients get a retry hint, never the
// raw model output or validation detail.
const msgGenerationFailed = "Could not generate content, try again"

// mapUsecaseError converts usecase-layer errors into AppErrors with
// client-facing statuses. Generation and sanitization failures map to
// 502 because the upstream model, not this service, misbehaved.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var genErr *llm.GenerationError
	var schemaErr *sanitize.SchemaError
	switch {
	case errors.As(err, &genErr),
		errors.As(err, &schemaErr),
		errors.Is(err, sanitize.ErrMalformedOutput):
		return middleware.NewAppError(fiber.StatusBadGateway, msgGenerationFailed, nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, response.MessageNotFound, nil, err)
	case errors.Is(err, usecase.ErrConflictRetryExhausted):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, msgGenerationFailed, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func userIDFromContext(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	return id, ok
}

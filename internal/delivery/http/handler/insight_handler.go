package handler

import (
	"github.com/gofiber/fiber/v3"

	"careerpilot/internal/delivery/http/dto"
	"careerpilot/internal/delivery/http/middleware"
	"careerpilot/internal/pkg/response"
	"careerpilot/internal/usecase"
)

type InsightHandler struct {
	insights usecase.InsightUsecase
	users    usecase.UserUsecase
}

func NewInsightHandler(insights usecase.InsightUsecase, users usecase.UserUsecase) *InsightHandler {
	return &InsightHandler{insights: insights, users: users}
}

func (h *InsightHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMine)
}

// GetMine returns the insight for the caller's onboarded industry. The
// row normally exists already because onboarding creates it, but the
// lazy-create path still covers rows removed out of band.
func (h *InsightHandler) GetMine(c fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	profile, err := h.users.GetProfile(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}

	ins, err := h.insights.GetOrCreate(c.Context(), profile.Industry)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewInsightResponse(ins))
}

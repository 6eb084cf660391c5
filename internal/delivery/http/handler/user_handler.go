package handler

import (
	"github.com/gofiber/fiber/v3"

	"careerpilot/internal/delivery/http/dto"
	"careerpilot/internal/delivery/http/middleware"
	"careerpilot/internal/pkg/response"
	"careerpilot/internal/repository"
	"careerpilot/internal/usecase"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

type onboardingRequest struct {
	Industry        string   `json:"industry"`
	ExperienceYears int      `json:"experience_years"`
	Skills          []string `json:"skills"`
	Bio             string   `json:"bio"`
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Post("/me/onboarding", h.CompleteOnboarding)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	profile, err := h.uc.GetProfile(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, profileResponse(profile))
}

// CompleteOnboarding stores the career profile. Because the industry
// insight is created synchronously on first onboarding, a generation
// failure here surfaces to the client as a retryable error.
func (h *UserHandler) CompleteOnboarding(c fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req onboardingRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	profile, err := h.uc.CompleteOnboarding(c.Context(), userID, usecase.OnboardingInput{
		Industry:        req.Industry,
		ExperienceYears: req.ExperienceYears,
		Skills:          req.Skills,
		Bio:             req.Bio,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, profileResponse(profile))
}

func profileResponse(p repository.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:          p.UserID,
		Industry:        p.Industry,
		ExperienceYears: p.ExperienceYears,
		Skills:          p.Skills,
		Bio:             p.Bio,
		UpdatedAt:       p.UpdatedAt,
	}
}

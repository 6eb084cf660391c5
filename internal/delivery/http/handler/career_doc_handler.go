package handler

import (
	"github.com/gofiber/fiber/v3"

	"careerpilot/internal/delivery/http/dto"
	"careerpilot/internal/delivery/http/middleware"
	"careerpilot/internal/pkg/response"
	"careerpilot/internal/usecase"
)

type CareerDocHandler struct {
	uc usecase.CareerDocUsecase
}

type improveResumeRequest struct {
	Content string `json:"content"`
}

type coverLetterRequest struct {
	JobTitle       string `json:"job_title"`
	CompanyName    string `json:"company_name"`
	JobDescription string `json:"job_description"`
}

func NewCareerDocHandler(uc usecase.CareerDocUsecase) *CareerDocHandler {
	return &CareerDocHandler{uc: uc}
}

func (h *CareerDocHandler) RegisterResumeRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Put("/improve", h.ImproveResume)
	r.Get("/", h.GetResume)
}

func (h *CareerDocHandler) RegisterCoverLetterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.GenerateCoverLetter)
	r.Get("/", h.ListCoverLetters)
}

func (h *CareerDocHandler) ImproveResume(c fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req improveResumeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	res, err := h.uc.ImproveResume(c.Context(), userID, req.Content)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ResumeResponse{
		Content:   res.Content,
		UpdatedAt: res.UpdatedAt,
	})
}

func (h *CareerDocHandler) GetResume(c fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	res, err := h.uc.GetResume(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ResumeResponse{
		Content:   res.Content,
		UpdatedAt: res.UpdatedAt,
	})
}

func (h *CareerDocHandler) GenerateCoverLetter(c fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req coverLetterRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	cl, err := h.uc.GenerateCoverLetter(c.Context(), userID, usecase.CoverLetterInput{
		JobTitle:       req.JobTitle,
		CompanyName:    req.CompanyName,
		JobDescription: req.JobDescription,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewCoverLetterResponse(cl))
}

func (h *CareerDocHandler) ListCoverLetters(c fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.ListCoverLetters(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.CoverLetterResponse, 0, len(items))
	for _, cl := range items {
		out = append(out, dto.NewCoverLetterResponse(cl))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

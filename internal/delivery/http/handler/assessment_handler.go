package handler

import (
	"github.com/gofiber/fiber/v3"

	"careerpilot/internal/delivery/http/dto"
	"careerpilot/internal/delivery/http/middleware"
	"careerpilot/internal/pkg/response"
	"careerpilot/internal/sanitize"
	"careerpilot/internal/usecase"
)

type AssessmentHandler struct {
	assessments usecase.AssessmentUsecase
	users       usecase.UserUsecase
}

type generateQuizRequest struct {
	Industry string   `json:"industry"`
	Skills   []string `json:"skills"`
}

type submittedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type submitAssessmentRequest struct {
	Questions []submittedQuestion `json:"questions"`
	Answers   []string            `json:"answers"`
}

func NewAssessmentHandler(assessments usecase.AssessmentUsecase, users usecase.UserUsecase) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments, users: users}
}

func (h *AssessmentHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/quiz", h.GenerateQuiz)
	r.Post("/", h.Submit)
	r.Get("/", h.List)
}

// GenerateQuiz builds a fresh quiz. Industry and skills default to the
// caller's profile when the body omits them; nothing is persisted until
// the attempt is submitted.
func (h *AssessmentHandler) GenerateQuiz(c fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req generateQuizRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
		}
	}

	if req.Industry == "" {
		profile, err := h.users.GetProfile(c.Context(), userID)
		if err != nil {
			return mapUsecaseError(err)
		}
		req.Industry = profile.Industry
		if len(req.Skills) == 0 {
			req.Skills = profile.Skills
		}
	}

	questions, err := h.assessments.GenerateQuiz(c.Context(), req.Industry, req.Skills)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewQuizResponse(questions))
}

func (h *AssessmentHandler) Submit(c fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req submitAssessmentRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	questions := make([]sanitize.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, sanitize.Question{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}

	a, err := h.assessments.GradeAndSave(c.Context(), userID, questions, req.Answers)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewAssessmentResponse(a))
}

func (h *AssessmentHandler) List(c fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.assessments.ListAssessments(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.AssessmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, dto.NewAssessmentResponse(a))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

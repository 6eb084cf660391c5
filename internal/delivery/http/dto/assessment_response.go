package dto

import (
	"time"

	"github.com/google/uuid"

	"careerpilot/internal/repository"
	"careerpilot/internal/sanitize"
)

type QuizQuestionResponse struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type QuizResponse struct {
	Questions []QuizQuestionResponse `json:"questions"`
}

func NewQuizResponse(questions []sanitize.Question) QuizResponse {
	out := make([]QuizQuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, QuizQuestionResponse{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	return QuizResponse{Questions: out}
}

type GradedQuestionResponse struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	UserAnswer    string   `json:"userAnswer"`
	IsCorrect     bool     `json:"isCorrect"`
}

type AssessmentResponse struct {
	ID             uuid.UUID                `json:"id"`
	QuizScore      float64                  `json:"quiz_score"`
	Questions      []GradedQuestionResponse `json:"questions"`
	Category       string                   `json:"category"`
	ImprovementTip *string                  `json:"improvement_tip,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
}

func NewAssessmentResponse(a repository.Assessment) AssessmentResponse {
	questions := make([]GradedQuestionResponse, 0, len(a.Questions))
	for _, q := range a.Questions {
		questions = append(questions, GradedQuestionResponse{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			UserAnswer:    q.UserAnswer,
			IsCorrect:     q.IsCorrect,
		})
	}
	return AssessmentResponse{
		ID:             a.ID,
		QuizScore:      a.QuizScore,
		Questions:      questions,
		Category:       a.Category,
		ImprovementTip: a.ImprovementTip,
		CreatedAt:      a.CreatedAt,
	}
}

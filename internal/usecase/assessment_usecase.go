package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"careerpilot/internal/prompt"
	"careerpilot/internal/repository"
	"careerpilot/internal/sanitize"
)

// assessmentCategory is fixed for quiz attempts; other categories may
// come with future content kinds.
const assessmentCategory = "Technical"

type AssessmentUsecase interface {
	// GenerateQuiz returns an in-memory quiz; nothing is persisted until
	// grading. The payload includes the correct answers because grading
	// compares against them.
	GenerateQuiz(ctx context.Context, industry string, skills []string) ([]sanitize.Question, error)

	// GradeAndSave grades submitted answers against the quiz, attaches a
	// best-effort improvement tip, and persists the attempt. Tip
	// generation failing never fails the save.
	GradeAndSave(ctx context.Context, userID uuid.UUID, questions []sanitize.Question, answers []string) (repository.Assessment, error)

	ListAssessments(ctx context.Context, userID uuid.UUID) ([]repository.Assessment, error)
}

type Assessment struct {
	assessments repository.AssessmentRepository
	users       repository.UserRepository
	gen         TextGenerator
	logger      *log.Logger
	now         func() time.Time
}

func NewAssessmentUsecase(assessments repository.AssessmentRepository, users repository.UserRepository, gen TextGenerator, logger *log.Logger) *Assessment {
	return &Assessment{
		assessments: assessments,
		users:       users,
		gen:         gen,
		logger:      logger,
		now:         time.Now,
	}
}

func (u *Assessment) GenerateQuiz(ctx context.Context, industry string, skills []string) ([]sanitize.Question, error) {
	industry = strings.TrimSpace(industry)
	if industry == "" {
		return nil, ErrInvalidInput
	}

	raw, err := u.gen.Invoke(ctx, prompt.Quiz(industry, skills))
	if err != nil {
		return nil, err
	}

	payload, err := sanitize.Quiz(raw)
	if err != nil {
		return nil, err
	}
	return payload.Questions, nil
}

func (u *Assessment) GradeAndSave(ctx context.Context, userID uuid.UUID, questions []sanitize.Question, answers []string) (repository.Assessment, error) {
	if userID == uuid.Nil || len(questions) == 0 || len(answers) != len(questions) {
		return repository.Assessment{}, ErrInvalidInput
	}

	graded := make([]repository.AssessmentQuestion, 0, len(questions))
	correct := 0
	var wrong []prompt.WrongAnswer
	for i, q := range questions {
		isCorrect := answers[i] == q.CorrectAnswer
		if isCorrect {
			correct++
		} else {
			wrong = append(wrong, prompt.WrongAnswer{
				Question:      q.Question,
				CorrectAnswer: q.CorrectAnswer,
				UserAnswer:    answers[i],
			})
		}
		graded = append(graded, repository.AssessmentQuestion{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			UserAnswer:    answers[i],
			IsCorrect:     isCorrect,
		})
	}
	score := 100 * float64(correct) / float64(len(questions))

	var tip *string
	if len(wrong) > 0 {
		tip = u.improvementTip(ctx, userID, wrong)
	}

	a := repository.Assessment{
		ID:             uuid.New(),
		UserID:         userID,
		QuizScore:      score,
		Questions:      graded,
		Category:       assessmentCategory,
		ImprovementTip: tip,
		CreatedAt:      u.now().UTC(),
	}
	if err := u.assessments.Insert(ctx, a); err != nil {
		return repository.Assessment{}, ErrInternal
	}
	return a, nil
}

func (u *Assessment) ListAssessments(ctx context.Context, userID uuid.UUID) ([]repository.Assessment, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	items, err := u.assessments.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

// improvementTip asks the model for a study tip based on the wrong
// answers. Strictly best-effort: any failure is logged and the tip is
// simply absent.
func (u *Assessment) improvementTip(ctx context.Context, userID uuid.UUID, wrong []prompt.WrongAnswer) *string {
	industry := ""
	if profile, err := u.users.GetProfile(ctx, userID); err == nil {
		industry = profile.Industry
	}

	raw, err := u.gen.Invoke(ctx, prompt.ImprovementTip(industry, wrong))
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("improvement tip skipped | user_id=%s error=%v", userID, err)
		}
		return nil
	}

	tip := strings.TrimSpace(sanitize.StripFences(raw))
	if tip == "" {
		return nil
	}
	return &tip
}

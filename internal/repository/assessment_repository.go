package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"careerpilot/internal/database"
)

var ErrAssessmentNotFound = errors.New("assessment not found")

// AssessmentQuestion is one graded quiz item, stored as part of the
// assessment's question list. The list is fixed at creation and never
// edited afterwards.
type AssessmentQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	UserAnswer    string   `json:"userAnswer"`
	IsCorrect     bool     `json:"isCorrect"`
}

// Assessment is one quiz attempt owned by a user. Append-only: rows are
// created by grading and never updated or deleted.
type Assessment struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	QuizScore      float64
	Questions      []AssessmentQuestion
	Category       string
	ImprovementTip *string
	CreatedAt      time.Time
}

type AssessmentRepository interface {
	Insert(ctx context.Context, a Assessment) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Assessment, error)
}

type PostgresAssessmentRepository struct {
	db database.DB
}

func NewPostgresAssessmentRepository(db database.DB) *PostgresAssessmentRepository {
	return &PostgresAssessmentRepository{db: db}
}

func (r *PostgresAssessmentRepository) Insert(ctx context.Context, a Assessment) error {
	questions, err := json.Marshal(a.Questions)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO assessments
		 (id, user_id, quiz_score, questions, category, improvement_tip, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.UserID, a.QuizScore, questions, a.Category, a.ImprovementTip, a.CreatedAt,
	)
	return err
}

func (r *PostgresAssessmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Assessment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, quiz_score, questions, category, improvement_tip, created_at
		 FROM assessments
		 WHERE user_id = $1
		 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Assessment, 0)
	for rows.Next() {
		var a Assessment
		var questions []byte
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuizScore, &questions, &a.Category, &a.ImprovementTip, &a.CreatedAt); err != nil {
			return nil, err
		}
		if len(questions) > 0 {
			if err := json.Unmarshal(questions, &a.Questions); err != nil {
				return nil, err
			}
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

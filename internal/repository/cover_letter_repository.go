package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"careerpilot/internal/database"
)

// CoverLetter is one generated letter; users accumulate them per job
// application.
type CoverLetter struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Content        string
	JobTitle       string
	CompanyName    string
	JobDescription string
	CreatedAt      time.Time
}

type CoverLetterRepository interface {
	Insert(ctx context.Context, cl CoverLetter) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]CoverLetter, error)
}

type PostgresCoverLetterRepository struct {
	db database.DB
}

func NewPostgresCoverLetterRepository(db database.DB) *PostgresCoverLetterRepository {
	return &PostgresCoverLetterRepository{db: db}
}

func (r *PostgresCoverLetterRepository) Insert(ctx context.Context, cl CoverLetter) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO cover_letters
		 (id, user_id, content, job_title, company_name, job_description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		cl.ID, cl.UserID, cl.Content, cl.JobTitle, cl.CompanyName, cl.JobDescription, cl.CreatedAt,
	)
	return err
}

func (r *PostgresCoverLetterRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]CoverLetter, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, content, job_title, company_name, job_description, created_at
		 FROM cover_letters
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CoverLetter, 0)
	for rows.Next() {
		var cl CoverLetter
		if err := rows.Scan(&cl.ID, &cl.UserID, &cl.Content, &cl.JobTitle, &cl.CompanyName, &cl.JobDescription, &cl.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, cl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"careerpilot/internal/database"
)

var ErrResumeNotFound = errors.New("resume not found")

// Resume is the single stored resume per user.
type Resume struct {
	UserID    uuid.UUID
	Content   string
	UpdatedAt time.Time
}

type ResumeRepository interface {
	Upsert(ctx context.Context, r Resume) error
	GetByUser(ctx context.Context, userID uuid.UUID) (Resume, error)
}

type PostgresResumeRepository struct {
	db database.DB
}

func NewPostgresResumeRepository(db database.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db}
}

func (r *PostgresResumeRepository) Upsert(ctx context.Context, res Resume) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO resumes (user_id, content, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE
		 SET content = EXCLUDED.content, updated_at = now()`,
		res.UserID, res.Content,
	)
	return err
}

func (r *PostgresResumeRepository) GetByUser(ctx context.Context, userID uuid.UUID) (Resume, error) {
	row := r.db.QueryRow(ctx,
		`SELECT user_id, content, updated_at FROM resumes WHERE user_id = $1`,
		userID,
	)

	var res Resume
	if err := row.Scan(&res.UserID, &res.Content, &res.UpdatedAt); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Resume{}, ErrResumeNotFound
		}
		return Resume{}, err
	}
	return res, nil
}

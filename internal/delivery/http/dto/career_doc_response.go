package dto

import (
	"time"

	"github.com/google/uuid"

	"careerpilot/internal/repository"
)

type ResumeResponse struct {
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CoverLetterResponse struct {
	ID             uuid.UUID `json:"id"`
	JobTitle       string    `json:"job_title"`
	CompanyName    string    `json:"company_name"`
	JobDescription string    `json:"job_description"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewCoverLetterResponse(cl repository.CoverLetter) CoverLetterResponse {
	return CoverLetterResponse{
		ID:             cl.ID,
		JobTitle:       cl.JobTitle,
		CompanyName:    cl.CompanyName,
		JobDescription: cl.JobDescription,
		Content:        cl.Content,
		CreatedAt:      cl.CreatedAt,
	}
}

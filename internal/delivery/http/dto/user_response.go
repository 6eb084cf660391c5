package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	UserID          uuid.UUID `json:"user_id"`
	Industry        string    `json:"industry"`
	ExperienceYears int       `json:"experience_years"`
	Skills          []string  `json:"skills"`
	Bio             string    `json:"bio"`
	UpdatedAt       time.Time `json:"updated_at"`
}

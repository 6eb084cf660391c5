package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"careerpilot/internal/repository"
)

type OnboardingInput struct {
	Industry        string
	ExperienceYears int
	Skills          []string
	Bio             string
}

type UserUsecase interface {
	// CompleteOnboarding stores the user's career profile. The industry
	// insight is created first if missing, so a profile never points at
	// an industry key without a stored insight.
	CompleteOnboarding(ctx context.Context, userID uuid.UUID, in OnboardingInput) (repository.Profile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (repository.Profile, error)
}

type User struct {
	users    repository.UserRepository
	insights InsightUsecase
	now      func() time.Time
}

func NewUserUsecase(users repository.UserRepository, insights InsightUsecase) *User {
	return &User{users: users, insights: insights, now: time.Now}
}

func (u *User) CompleteOnboarding(ctx context.Context, userID uuid.UUID, in OnboardingInput) (repository.Profile, error) {
	industry := strings.TrimSpace(in.Industry)
	if userID == uuid.Nil || industry == "" {
		return repository.Profile{}, ErrInvalidInput
	}
	if in.ExperienceYears < 0 || in.ExperienceYears > 60 {
		return repository.Profile{}, ErrInvalidInput
	}

	if _, err := u.insights.GetOrCreate(ctx, industry); err != nil {
		return repository.Profile{}, err
	}

	profile := repository.Profile{
		UserID:          userID,
		Industry:        industry,
		ExperienceYears: in.ExperienceYears,
		Skills:          in.Skills,
		Bio:             strings.TrimSpace(in.Bio),
		UpdatedAt:       u.now().UTC(),
	}
	if err := u.users.UpsertProfile(ctx, profile); err != nil {
		return repository.Profile{}, ErrInternal
	}
	return profile, nil
}

func (u *User) GetProfile(ctx context.Context, userID uuid.UUID) (repository.Profile, error) {
	if userID == uuid.Nil {
		return repository.Profile{}, ErrInvalidInput
	}
	profile, err := u.users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return repository.Profile{}, ErrNotFound
		}
		return repository.Profile{}, ErrInternal
	}
	return profile, nil
}

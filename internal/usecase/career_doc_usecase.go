package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"careerpilot/internal/prompt"
	"careerpilot/internal/repository"
	"careerpilot/internal/sanitize"
)

type CoverLetterInput struct {
	JobTitle       string
	CompanyName    string
	JobDescription string
}

type CareerDocUsecase interface {
	// ImproveResume rewrites the given resume content with the model and
	// stores the result as the user's resume.
	ImproveResume(ctx context.Context, userID uuid.UUID, current string) (repository.Resume, error)
	GetResume(ctx context.Context, userID uuid.UUID) (repository.Resume, error)

	GenerateCoverLetter(ctx context.Context, userID uuid.UUID, in CoverLetterInput) (repository.CoverLetter, error)
	ListCoverLetters(ctx context.Context, userID uuid.UUID) ([]repository.CoverLetter, error)
}

type CareerDoc struct {
	resumes repository.ResumeRepository
	letters repository.CoverLetterRepository
	users   repository.UserRepository
	gen     TextGenerator
	now     func() time.Time
}

func NewCareerDocUsecase(resumes repository.ResumeRepository, letters repository.CoverLetterRepository, users repository.UserRepository, gen TextGenerator) *CareerDoc {
	return &CareerDoc{
		resumes: resumes,
		letters: letters,
		users:   users,
		gen:     gen,
		now:     time.Now,
	}
}

func (u *CareerDoc) ImproveResume(ctx context.Context, userID uuid.UUID, current string) (repository.Resume, error) {
	current = strings.TrimSpace(current)
	if userID == uuid.Nil || current == "" {
		return repository.Resume{}, ErrInvalidInput
	}

	profile, err := u.profile(ctx, userID)
	if err != nil {
		return repository.Resume{}, err
	}

	raw, err := u.gen.Invoke(ctx, prompt.ResumeImprove(profile.Industry, current))
	if err != nil {
		return repository.Resume{}, err
	}
	content := strings.TrimSpace(sanitize.StripFences(raw))
	if content == "" {
		return repository.Resume{}, ErrInternal
	}

	res := repository.Resume{UserID: userID, Content: content, UpdatedAt: u.now().UTC()}
	if err := u.resumes.Upsert(ctx, res); err != nil {
		return repository.Resume{}, ErrInternal
	}
	return res, nil
}

func (u *CareerDoc) GetResume(ctx context.Context, userID uuid.UUID) (repository.Resume, error) {
	if userID == uuid.Nil {
		return repository.Resume{}, ErrInvalidInput
	}
	res, err := u.resumes.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrResumeNotFound) {
			return repository.Resume{}, ErrNotFound
		}
		return repository.Resume{}, ErrInternal
	}
	return res, nil
}

func (u *CareerDoc) GenerateCoverLetter(ctx context.Context, userID uuid.UUID, in CoverLetterInput) (repository.CoverLetter, error) {
	in.JobTitle = strings.TrimSpace(in.JobTitle)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if userID == uuid.Nil || in.JobTitle == "" || in.CompanyName == "" {
		return repository.CoverLetter{}, ErrInvalidInput
	}

	profile, err := u.profile(ctx, userID)
	if err != nil {
		return repository.CoverLetter{}, err
	}

	raw, err := u.gen.Invoke(ctx, prompt.CoverLetter(prompt.CoverLetterInput{
		JobTitle:        in.JobTitle,
		CompanyName:     in.CompanyName,
		JobDescription:  in.JobDescription,
		Industry:        profile.Industry,
		ExperienceYears: profile.ExperienceYears,
		Skills:          profile.Skills,
		Bio:             profile.Bio,
	}))
	if err != nil {
		return repository.CoverLetter{}, err
	}
	content := strings.TrimSpace(sanitize.StripFences(raw))
	if content == "" {
		return repository.CoverLetter{}, ErrInternal
	}

	cl := repository.CoverLetter{
		ID:             uuid.New(),
		UserID:         userID,
		Content:        content,
		JobTitle:       in.JobTitle,
		CompanyName:    in.CompanyName,
		JobDescription: in.JobDescription,
		CreatedAt:      u.now().UTC(),
	}
	if err := u.letters.Insert(ctx, cl); err != nil {
		return repository.CoverLetter{}, ErrInternal
	}
	return cl, nil
}

func (u *CareerDoc) ListCoverLetters(ctx context.Context, userID uuid.UUID) ([]repository.CoverLetter, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	items, err := u.letters.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *CareerDoc) profile(ctx context.Context, userID uuid.UUID) (repository.Profile, error) {
	profile, err := u.users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return repository.Profile{}, ErrNotFound
		}
		return repository.Profile{}, ErrInternal
	}
	return profile, nil
}

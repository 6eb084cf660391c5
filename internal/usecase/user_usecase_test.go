package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"careerpilot/internal/repository"
)

type mockInsightUsecase struct {
	getOrCreate func(industry string) (repository.IndustryInsight, error)
	calls       int
}

func (m *mockInsightUsecase) GetOrCreate(_ context.Context, industry string) (repository.IndustryInsight, error) {
	m.calls++
	if m.getOrCreate == nil {
		return repository.IndustryInsight{Industry: industry}, nil
	}
	return m.getOrCreate(industry)
}

func (m *mockInsightUsecase) RefreshAll(context.Context) ([]RefreshOutcome, error) {
	return nil, nil
}

func TestCompleteOnboarding_CreatesInsightBeforeProfile(t *testing.T) {
	users := &mockUserRepo{}
	insights := &mockInsightUsecase{}
	uc := NewUserUsecase(users, insights)

	profile, err := uc.CompleteOnboarding(context.Background(), uuid.New(), OnboardingInput{
		Industry:        "Software Development",
		ExperienceYears: 5,
		Skills:          []string{"Go"},
		Bio:             "  Backend engineer  ",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if insights.calls != 1 {
		t.Fatalf("expected one GetOrCreate call, got %d", insights.calls)
	}
	if len(users.upserts) != 1 {
		t.Fatalf("expected one profile upsert, got %d", len(users.upserts))
	}
	if profile.Bio != "Backend engineer" {
		t.Fatalf("expected trimmed bio, got %q", profile.Bio)
	}
}

func TestCompleteOnboarding_InsightFailureBlocksProfile(t *testing.T) {
	users := &mockUserRepo{}
	genErr := errors.New("generation failed")
	insights := &mockInsightUsecase{getOrCreate: func(string) (repository.IndustryInsight, error) {
		return repository.IndustryInsight{}, genErr
	}}
	uc := NewUserUsecase(users, insights)

	_, err := uc.CompleteOnboarding(context.Background(), uuid.New(), OnboardingInput{
		Industry:        "Finance",
		ExperienceYears: 2,
	})
	if !errors.Is(err, genErr) {
		t.Fatalf("expected insight error to propagate, got %v", err)
	}
	if len(users.upserts) != 0 {
		t.Fatalf("profile must not be stored when insight creation fails")
	}
}

func TestCompleteOnboarding_InvalidInput(t *testing.T) {
	uc := NewUserUsecase(&mockUserRepo{}, &mockInsightUsecase{})

	cases := []struct {
		name string
		in   OnboardingInput
	}{
		{"empty industry", OnboardingInput{Industry: "  ", ExperienceYears: 1}},
		{"negative experience", OnboardingInput{Industry: "Tech", ExperienceYears: -1}},
		{"implausible experience", OnboardingInput{Industry: "Tech", ExperienceYears: 80}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CompleteOnboarding(context.Background(), uuid.New(), tc.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	users := &mockUserRepo{profileErr: repository.ErrProfileNotFound}
	uc := NewUserUsecase(users, &mockInsightUsecase{})

	_, err := uc.GetProfile(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

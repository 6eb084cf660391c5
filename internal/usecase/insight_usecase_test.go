package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"careerpilot/internal/repository"
	"careerpilot/internal/sanitize"
)

const validInsightJSON = `{
  "salaryRanges": [{"role": "Engineer", "min": 90000, "max": 160000, "median": 120000, "location": "US"}],
  "growthRate": 4.5,
  "demandLevel": "High",
  "topSkills": ["Go"],
  "marketOutlook": "Positive",
  "keyTrends": ["AI"],
  "recommendedSkills": ["Kubernetes"]
}`

type mockGenerator struct {
	invoke func(prompt string) (string, error)
}

func (m mockGenerator) Invoke(_ context.Context, prompt string) (string, error) {
	return m.invoke(prompt)
}

// mockInsightRepo reproduces the unique-key semantics of the real table:
// at most one row per industry, Insert loses when a row already exists.
type mockInsightRepo struct {
	mu   sync.Mutex
	rows map[string]repository.IndustryInsight

	inserts int
	updates int

	findErr   error
	insertErr error
	// insertLoses forces the conflict branch regardless of state.
	insertLoses bool
}

func newMockInsightRepo() *mockInsightRepo {
	return &mockInsightRepo{rows: map[string]repository.IndustryInsight{}}
}

func (m *mockInsightRepo) FindByIndustry(_ context.Context, industry string) (repository.IndustryInsight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return repository.IndustryInsight{}, m.findErr
	}
	ins, ok := m.rows[industry]
	if !ok {
		return repository.IndustryInsight{}, repository.ErrInsightNotFound
	}
	return ins, nil
}

func (m *mockInsightRepo) Insert(_ context.Context, ins repository.IndustryInsight) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return false, m.insertErr
	}
	if m.insertLoses {
		return false, nil
	}
	if _, ok := m.rows[ins.Industry]; ok {
		return false, nil
	}
	m.rows[ins.Industry] = ins
	m.inserts++
	return true, nil
}

func (m *mockInsightRepo) UpdateByIndustry(_ context.Context, ins repository.IndustryInsight) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[ins.Industry]; !ok {
		return repository.ErrInsightNotFound
	}
	m.rows[ins.Industry] = ins
	m.updates++
	return nil
}

func (m *mockInsightRepo) ListIndustries(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.rows))
	for k := range m.rows {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

func TestInsightGetOrCreate_EmptyIndustry(t *testing.T) {
	uc := NewInsightUsecase(newMockInsightRepo(), mockGenerator{}, nil, nil, 1)
	_, err := uc.GetOrCreate(context.Background(), "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestInsightGetOrCreate_ExistingRowSkipsGeneration(t *testing.T) {
	repo := newMockInsightRepo()
	repo.rows["tech"] = repository.IndustryInsight{Industry: "tech", DemandLevel: "High"}

	gen := mockGenerator{invoke: func(string) (string, error) {
		t.Fatal("generator must not be called for an existing row")
		return "", nil
	}}

	uc := NewInsightUsecase(repo, gen, nil, nil, 1)
	ins, err := uc.GetOrCreate(context.Background(), "tech")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ins.Industry != "tech" {
		t.Fatalf("unexpected industry: %s", ins.Industry)
	}
}

func TestInsightGetOrCreate_CreatesOnFirstRequest(t *testing.T) {
	repo := newMockInsightRepo()
	uc := NewInsightUsecase(repo, mockGenerator{invoke: func(string) (string, error) {
		return validInsightJSON, nil
	}}, nil, nil, 1)

	ins, err := uc.GetOrCreate(context.Background(), "tech")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ins.DemandLevel != "High" {
		t.Fatalf("unexpected demand level: %s", ins.DemandLevel)
	}
	if ins.NextUpdate.Sub(ins.LastUpdated) != 7*24*time.Hour {
		t.Fatalf("next update must be exactly one week after last update, got %s", ins.NextUpdate.Sub(ins.LastUpdated))
	}
	if repo.inserts != 1 {
		t.Fatalf("expected 1 insert, got %d", repo.inserts)
	}
}

func TestInsightGetOrCreate_ConcurrentCallersCommitOneRow(t *testing.T) {
	repo := newMockInsightRepo()
	uc := NewInsightUsecase(repo, mockGenerator{invoke: func(string) (string, error) {
		return validInsightJSON, nil
	}}, nil, nil, 1)

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.GetOrCreate(context.Background(), "tech")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d failed: %v", i, err)
		}
	}
	if repo.inserts != 1 {
		t.Fatalf("expected exactly 1 committed insert, got %d", repo.inserts)
	}
}

func TestInsightGetOrCreate_GenerationFailurePassesThrough(t *testing.T) {
	genErr := errors.New("upstream blew up")
	uc := NewInsightUsecase(newMockInsightRepo(), mockGenerator{invoke: func(string) (string, error) {
		return "", genErr
	}}, nil, nil, 1)

	_, err := uc.GetOrCreate(context.Background(), "tech")
	if !errors.Is(err, genErr) {
		t.Fatalf("expected generator error to pass through, got %v", err)
	}
}

func TestInsightGetOrCreate_SanitizerFailurePassesThrough(t *testing.T) {
	uc := NewInsightUsecase(newMockInsightRepo(), mockGenerator{invoke: func(string) (string, error) {
		return "not json at all", nil
	}}, nil, nil, 1)

	_, err := uc.GetOrCreate(context.Background(), "tech")
	if !errors.Is(err, sanitize.ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
}

func TestInsightGetOrCreate_ConflictRetryExhausted(t *testing.T) {
	repo := newMockInsightRepo()
	// Every insert loses and the winner's row is never visible, so the
	// insert/re-read loop must give up after its bounded attempts.
	repo.insertLoses = true

	uc := NewInsightUsecase(repo, mockGenerator{invoke: func(string) (string, error) {
		return validInsightJSON, nil
	}}, nil, nil, 1)

	_, err := uc.GetOrCreate(context.Background(), "tech")
	if !errors.Is(err, ErrConflictRetryExhausted) {
		t.Fatalf("expected ErrConflictRetryExhausted, got %v", err)
	}
}

func TestInsightRefreshAll_FailureIsolation(t *testing.T) {
	repo := newMockInsightRepo()
	industries := []string{"construction", "finance", "healthcare", "media", "tech"}
	for _, ind := range industries {
		repo.rows[ind] = repository.IndustryInsight{Industry: ind, DemandLevel: "Low"}
	}

	// One key yields output that fails validation; the others succeed.
	gen := mockGenerator{invoke: func(prompt string) (string, error) {
		if strings.Contains(prompt, "healthcare") {
			return strings.Replace(validInsightJSON, `"High"`, `"Extreme"`, 1), nil
		}
		return validInsightJSON, nil
	}}

	uc := NewInsightUsecase(repo, gen, nil, nil, 3)
	outcomes, err := uc.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(outcomes) != len(industries) {
		t.Fatalf("expected %d outcomes, got %d", len(industries), len(outcomes))
	}

	// Outcomes come back in catalog order even with concurrent workers.
	for i, o := range outcomes {
		if o.Industry != industries[i] {
			t.Fatalf("outcome %d: expected industry %s, got %s", i, industries[i], o.Industry)
		}
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			if o.Industry != "healthcare" {
				t.Fatalf("unexpected failure for %s: %v", o.Industry, o.Err)
			}
			var schemaErr *sanitize.SchemaError
			if !errors.As(o.Err, &schemaErr) {
				t.Fatalf("expected SchemaError for healthcare, got %v", o.Err)
			}
		}
	}
	if failed != 1 {
		t.Fatalf("expected 1 failed key, got %d", failed)
	}

	// The failed key's stored record stays untouched.
	if repo.rows["healthcare"].DemandLevel != "Low" {
		t.Fatalf("failed refresh must not modify the stored row")
	}
	if repo.rows["tech"].DemandLevel != "High" {
		t.Fatalf("successful refresh must update the stored row")
	}
	if repo.updates != len(industries)-1 {
		t.Fatalf("expected %d updates, got %d", len(industries)-1, repo.updates)
	}
}

func TestInsightRefreshAll_EmptyCatalog(t *testing.T) {
	uc := NewInsightUsecase(newMockInsightRepo(), mockGenerator{invoke: func(string) (string, error) {
		t.Fatal("generator must not be called for an empty catalog")
		return "", nil
	}}, nil, nil, 4)

	outcomes, err := uc.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(outcomes) != 0 {
		t.Fatalf("expected no outcomes, got %d", len(outcomes))
	}
}

func TestInsightRefreshAll_NeverInserts(t *testing.T) {
	repo := newMockInsightRepo()
	repo.rows["tech"] = repository.IndustryInsight{Industry: "tech"}

	uc := NewInsightUsecase(repo, mockGenerator{invoke: func(string) (string, error) {
		return validInsightJSON, nil
	}}, nil, nil, 1)

	if _, err := uc.RefreshAll(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.inserts != 0 {
		t.Fatalf("refresh must never insert, got %d inserts", repo.inserts)
	}
}

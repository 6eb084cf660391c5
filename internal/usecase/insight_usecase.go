package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"careerpilot/internal/prompt"
	"careerpilot/internal/repository"
	"careerpilot/internal/sanitize"
)

const (
	// refreshInterval is the insight freshness window; nextUpdate is
	// always lastUpdated plus exactly this much.
	refreshInterval = 7 * 24 * time.Hour

	// maxCreateAttempts bounds the insert/re-read loop on the lazy
	// create path.
	maxCreateAttempts = 2

	insightCachePrefix = "insight:"
	insightCacheTTL    = time.Hour
)

// RefreshOutcome reports one industry key's result from a batch refresh.
type RefreshOutcome struct {
	Industry string
	Err      error
}

type InsightUsecase interface {
	// GetOrCreate returns the stored insight for the industry, creating
	// it from a fresh generation on first request. Stale rows are
	// returned as-is; only the scheduled refresh resolves staleness.
	GetOrCreate(ctx context.Context, industry string) (repository.IndustryInsight, error)

	// RefreshAll regenerates every stored insight in place, one isolated
	// pipeline per key, and reports outcomes in catalog order.
	RefreshAll(ctx context.Context) ([]RefreshOutcome, error)
}

type Insight struct {
	repo    repository.InsightRepository
	gen     TextGenerator
	cache   ContentCache
	logger  *log.Logger
	workers int
	now     func() time.Time
}

func NewInsightUsecase(repo repository.InsightRepository, gen TextGenerator, cache ContentCache, logger *log.Logger, workers int) *Insight {
	if workers <= 0 {
		workers = 1
	}
	return &Insight{
		repo:    repo,
		gen:     gen,
		cache:   cache,
		logger:  logger,
		workers: workers,
		now:     time.Now,
	}
}

func (u *Insight) GetOrCreate(ctx context.Context, industry string) (repository.IndustryInsight, error) {
	industry = strings.TrimSpace(industry)
	if industry == "" {
		return repository.IndustryInsight{}, ErrInvalidInput
	}

	cacheKey := insightCachePrefix + industry
	if u.cache != nil {
		var cached repository.IndustryInsight
		if hit, err := u.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	existing, err := u.repo.FindByIndustry(ctx, industry)
	if err == nil {
		u.cacheInsight(ctx, existing)
		return existing, nil
	}
	if !errors.Is(err, repository.ErrInsightNotFound) {
		return repository.IndustryInsight{}, ErrInternal
	}

	// First request for this industry: generate, then commit exactly one
	// row even when concurrent callers race on the same key.
	generated, err := u.generate(ctx, industry)
	if err != nil {
		return repository.IndustryInsight{}, err
	}

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		inserted, err := u.repo.Insert(ctx, generated)
		if err != nil {
			return repository.IndustryInsight{}, ErrInternal
		}
		if inserted {
			u.cacheInsight(ctx, generated)
			return generated, nil
		}

		// A concurrent creator won; adopt its row.
		winner, err := u.repo.FindByIndustry(ctx, industry)
		if err == nil {
			u.cacheInsight(ctx, winner)
			return winner, nil
		}
		if !errors.Is(err, repository.ErrInsightNotFound) {
			return repository.IndustryInsight{}, ErrInternal
		}
	}

	return repository.IndustryInsight{}, ErrConflictRetryExhausted
}

func (u *Insight) RefreshAll(ctx context.Context) ([]RefreshOutcome, error) {
	industries, err := u.repo.ListIndustries(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	outcomes := make([]RefreshOutcome, len(industries))
	if len(industries) == 0 {
		return outcomes, nil
	}

	workers := u.workers
	if workers > len(industries) {
		workers = len(industries)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = RefreshOutcome{
					Industry: industries[i],
					Err:      u.refreshOne(ctx, industries[i]),
				}
			}
		}()
	}
	for i := range industries {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes, nil
}

// refreshOne runs the full generation pipeline for one existing key and
// updates the row in place. Failures leave the stored record untouched.
func (u *Insight) refreshOne(ctx context.Context, industry string) error {
	generated, err := u.generate(ctx, industry)
	if err != nil {
		return err
	}

	if err := u.repo.UpdateByIndustry(ctx, generated); err != nil {
		if errors.Is(err, repository.ErrInsightNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}

	u.cacheInsight(ctx, generated)
	return nil
}

// generate runs prompt -> model -> sanitizer and stamps the freshness
// window. Typed generation and validation failures pass through to the
// caller untouched.
func (u *Insight) generate(ctx context.Context, industry string) (repository.IndustryInsight, error) {
	raw, err := u.gen.Invoke(ctx, prompt.Insight(industry))
	if err != nil {
		return repository.IndustryInsight{}, err
	}

	payload, err := sanitize.Insight(raw)
	if err != nil {
		return repository.IndustryInsight{}, err
	}

	now := u.now().UTC()
	return insightFromPayload(industry, payload, now), nil
}

func (u *Insight) cacheInsight(ctx context.Context, ins repository.IndustryInsight) {
	if u.cache == nil {
		return
	}
	ttl := time.Until(ins.NextUpdate)
	if ttl <= 0 || ttl > insightCacheTTL {
		ttl = insightCacheTTL
	}
	if err := u.cache.SetJSON(ctx, insightCachePrefix+ins.Industry, ins, ttl); err != nil && u.logger != nil {
		u.logger.Printf("insight cache write failed | industry=%s error=%v", ins.Industry, err)
	}
}

func insightFromPayload(industry string, p sanitize.InsightPayload, now time.Time) repository.IndustryInsight {
	ranges := make([]repository.SalaryRange, 0, len(p.SalaryRanges))
	for _, sr := range p.SalaryRanges {
		ranges = append(ranges, repository.SalaryRange{
			Role:     sr.Role,
			Min:      sr.Min,
			Max:      sr.Max,
			Median:   sr.Median,
			Location: sr.Location,
		})
	}

	return repository.IndustryInsight{
		ID:                uuid.New(),
		Industry:          industry,
		SalaryRanges:      ranges,
		GrowthRate:        p.GrowthRate,
		DemandLevel:       p.DemandLevel,
		TopSkills:         p.TopSkills,
		MarketOutlook:     p.MarketOutlook,
		KeyTrends:         p.KeyTrends,
		RecommendedSkills: p.RecommendedSkills,
		LastUpdated:       now,
		NextUpdate:        now.Add(refreshInterval),
	}
}

package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
	"time"

	"careerpilot/internal/config"
	"careerpilot/internal/database"
	"careerpilot/internal/database/migration"
	dbpostgres "careerpilot/internal/database/postgres"
	"careerpilot/internal/repository"
	"careerpilot/internal/sanitize"

	"github.com/google/uuid"
)

const insightModelOutput = "```json\n" + `{
  "salaryRanges": [
    {"role": "Backend Engineer", "min": 90000, "max": 160000, "median": 120000, "location": "US"},
    {"role": "Data Engineer", "min": 95000, "max": 170000, "median": 130000, "location": "EU"}
  ],
  "growthRate": 4.5,
  "demandLevel": "High",
  "topSkills": ["Go", "PostgreSQL"],
  "marketOutlook": "Positive",
  "keyTrends": ["AI tooling", "Remote work"],
  "recommendedSkills": ["Kubernetes"]
}` + "\n```"

// The JSONB salary ranges and TEXT[] skill columns must survive a full
// sanitize -> insert -> re-read cycle without losing or reshaping fields.
func TestIntegration_InsightPersistRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() { _ = db.Close() }()

	runMigrations(t, ctx, db)

	payload, err := sanitize.Insight(insightModelOutput)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}

	industry := "it-roundtrip-" + uuid.NewString()
	// timestamptz keeps microseconds, so the expectation must too.
	now := time.Now().UTC().Truncate(time.Microsecond)
	want := insightFromSanitized(industry, payload, now)

	repo := repository.NewPostgresInsightRepository(db)
	defer cleanupInsight(t, db, industry)

	inserted, err := repo.Insert(ctx, want)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !inserted {
		t.Fatalf("first insert for a fresh industry must create the row")
	}

	got, err := repo.FindByIndustry(ctx, industry)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	assertInsightEqual(t, want, got)

	// A conflicting insert must lose without disturbing the stored row.
	loser := want
	loser.ID = uuid.New()
	inserted, err = repo.Insert(ctx, loser)
	if err != nil {
		t.Fatalf("conflicting insert: %v", err)
	}
	if inserted {
		t.Fatalf("conflicting insert must report the row as pre-existing")
	}
	got, err = repo.FindByIndustry(ctx, industry)
	if err != nil {
		t.Fatalf("re-read after conflict: %v", err)
	}
	assertInsightEqual(t, want, got)

	// An in-place refresh must replace content and round-trip the same way.
	refreshed := want
	refreshed.GrowthRate = 6.25
	refreshed.DemandLevel = "Medium"
	refreshed.TopSkills = []string{"Go", "Kafka", "Terraform"}
	refreshed.SalaryRanges = []repository.SalaryRange{
		{Role: "Platform Engineer", Min: 100000, Max: 180000, Median: 140000, Location: "US"},
	}
	refreshed.LastUpdated = now.Add(time.Hour)
	refreshed.NextUpdate = refreshed.LastUpdated.Add(7 * 24 * time.Hour)
	if err := repo.UpdateByIndustry(ctx, refreshed); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err = repo.FindByIndustry(ctx, industry)
	if err != nil {
		t.Fatalf("re-read after update: %v", err)
	}
	assertInsightEqual(t, refreshed, got)
}

func TestIntegration_InsightUpdateRequiresExistingRow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() { _ = db.Close() }()

	runMigrations(t, ctx, db)

	repo := repository.NewPostgresInsightRepository(db)
	ghost := repository.IndustryInsight{
		ID:          uuid.New(),
		Industry:    "it-roundtrip-ghost-" + uuid.NewString(),
		DemandLevel: "Low",
		LastUpdated: time.Now().UTC(),
		NextUpdate:  time.Now().UTC().Add(7 * 24 * time.Hour),
	}
	if err := repo.UpdateByIndustry(ctx, ghost); !errors.Is(err, repository.ErrInsightNotFound) {
		t.Fatalf("update of a missing industry must report ErrInsightNotFound, got %v", err)
	}
}

func insightFromSanitized(industry string, p sanitize.InsightPayload, now time.Time) repository.IndustryInsight {
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
		NextUpdate:        now.Add(7 * 24 * time.Hour),
	}
}

func assertInsightEqual(t *testing.T, want, got repository.IndustryInsight) {
	t.Helper()

	if got.ID != want.ID {
		t.Fatalf("id: want %s, got %s", want.ID, got.ID)
	}
	if got.Industry != want.Industry {
		t.Fatalf("industry: want %q, got %q", want.Industry, got.Industry)
	}
	if !reflect.DeepEqual(got.SalaryRanges, want.SalaryRanges) {
		t.Fatalf("salary ranges: want %+v, got %+v", want.SalaryRanges, got.SalaryRanges)
	}
	if got.GrowthRate != want.GrowthRate {
		t.Fatalf("growth rate: want %v, got %v", want.GrowthRate, got.GrowthRate)
	}
	if got.DemandLevel != want.DemandLevel {
		t.Fatalf("demand level: want %q, got %q", want.DemandLevel, got.DemandLevel)
	}
	if !reflect.DeepEqual(got.TopSkills, want.TopSkills) {
		t.Fatalf("top skills: want %v, got %v", want.TopSkills, got.TopSkills)
	}
	if got.MarketOutlook != want.MarketOutlook {
		t.Fatalf("market outlook: want %q, got %q", want.MarketOutlook, got.MarketOutlook)
	}
	if !reflect.DeepEqual(got.KeyTrends, want.KeyTrends) {
		t.Fatalf("key trends: want %v, got %v", want.KeyTrends, got.KeyTrends)
	}
	if !reflect.DeepEqual(got.RecommendedSkills, want.RecommendedSkills) {
		t.Fatalf("recommended skills: want %v, got %v", want.RecommendedSkills, got.RecommendedSkills)
	}
	if !got.LastUpdated.Equal(want.LastUpdated) {
		t.Fatalf("last updated: want %s, got %s", want.LastUpdated, got.LastUpdated)
	}
	if !got.NextUpdate.Equal(want.NextUpdate) {
		t.Fatalf("next update: want %s, got %s", want.NextUpdate, got.NextUpdate)
	}
}

func cleanupInsight(t *testing.T, db database.DB, industry string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := db.Exec(ctx, `DELETE FROM industry_insights WHERE industry = $1`, industry); err != nil {
		t.Logf("cleanup insight %s: %v", industry, err)
	}
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	host := stringsOrDefault(os.Getenv("CAREERPILOT_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("CAREERPILOT_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("CAREERPILOT_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := stringsOrDefault(os.Getenv("CAREERPILOT_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("CAREERPILOT_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("CAREERPILOT_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set CAREERPILOT_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}
	if ssl == "" {
		ssl = "disable"
	}

	db, err := dbpostgres.Connect(ctx, config.DatabaseConfig{
		DBHost:     host,
		DBPort:     port,
		DBName:     name,
		DBUser:     user,
		DBPassword: pass,
		DBSSLMode:  ssl,
	})
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, ctx context.Context, db database.DB) {
	t.Helper()

	r := migration.Runner{Dir: resolveMigrationsDir(t)}
	if err := r.Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
}

func resolveMigrationsDir(t *testing.T) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("resolve migrations dir: runtime.Caller failed")
	}

	// this file: internal/integration/insight_roundtrip_test.go
	root := filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
	migDir := filepath.Join(root, "migrations")

	if st, err := os.Stat(migDir); err != nil || !st.IsDir() {
		t.Fatalf("resolve migrations dir: not found or not a dir: %s", migDir)
	}
	return migDir
}

func stringsOrDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"careerpilot/internal/database"
)

var ErrInsightNotFound = errors.New("industry insight not found")

type SalaryRange struct {
	Role     string  `json:"role"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Location string  `json:"location"`
}

// IndustryInsight is the per-industry AI-generated market record. At most
// one row exists per industry key; NextUpdate is always LastUpdated plus
// one week.
type IndustryInsight struct {
	ID                uuid.UUID
	Industry          string
	SalaryRanges      []SalaryRange
	GrowthRate        float64
	DemandLevel       string
	TopSkills         []string
	MarketOutlook     string
	KeyTrends         []string
	RecommendedSkills []string
	LastUpdated       time.Time
	NextUpdate        time.Time
}

type InsightRepository interface {
	FindByIndustry(ctx context.Context, industry string) (IndustryInsight, error)
	// Insert creates the row unless one already exists for the industry.
	// It reports whether this call created the row; false with a nil error
	// means a concurrent creator won.
	Insert(ctx context.Context, ins IndustryInsight) (bool, error)
	// UpdateByIndustry replaces the generated content of an existing row.
	// It never inserts; ErrInsightNotFound is returned when no row matches.
	UpdateByIndustry(ctx context.Context, ins IndustryInsight) error
	ListIndustries(ctx context.Context) ([]string, error)
}

type PostgresInsightRepository struct {
	db database.DB
}

func NewPostgresInsightRepository(db database.DB) *PostgresInsightRepository {
	return &PostgresInsightRepository{db: db}
}

const insightColumns = `id, industry, salary_ranges, growth_rate, demand_level,
	 top_skills, market_outlook, key_trends, recommended_skills, last_updated, next_update`

func (r *PostgresInsightRepository) FindByIndustry(ctx context.Context, industry string) (IndustryInsight, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+insightColumns+`
		 FROM industry_insights
		 WHERE industry = $1`,
		industry,
	)
	return scanInsight(row)
}

func (r *PostgresInsightRepository) Insert(ctx context.Context, ins IndustryInsight) (bool, error) {
	ranges, err := json.Marshal(ins.SalaryRanges)
	if err != nil {
		return false, err
	}

	affected, err := r.db.Exec(ctx,
		`INSERT INTO industry_insights
		 (id, industry, salary_ranges, growth_rate, demand_level, top_skills,
		  market_outlook, key_trends, recommended_skills, last_updated, next_update)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (industry) DO NOTHING`,
		ins.ID, ins.Industry, ranges, ins.GrowthRate, ins.DemandLevel, ins.TopSkills,
		ins.MarketOutlook, ins.KeyTrends, ins.RecommendedSkills, ins.LastUpdated, ins.NextUpdate,
	)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PostgresInsightRepository) UpdateByIndustry(ctx context.Context, ins IndustryInsight) error {
	ranges, err := json.Marshal(ins.SalaryRanges)
	if err != nil {
		return err
	}

	affected, err := r.db.Exec(ctx,
		`UPDATE industry_insights
		 SET salary_ranges = $2, growth_rate = $3, demand_level = $4, top_skills = $5,
		     market_outlook = $6, key_trends = $7, recommended_skills = $8,
		     last_updated = $9, next_update = $10
		 WHERE industry = $1`,
		ins.Industry, ranges, ins.GrowthRate, ins.DemandLevel, ins.TopSkills,
		ins.MarketOutlook, ins.KeyTrends, ins.RecommendedSkills, ins.LastUpdated, ins.NextUpdate,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsightNotFound
	}
	return nil
}

func (r *PostgresInsightRepository) ListIndustries(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT industry FROM industry_insights ORDER BY industry ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var industry string
		if err := rows.Scan(&industry); err != nil {
			return nil, err
		}
		out = append(out, industry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanInsight(row database.Row) (IndustryInsight, error) {
	var ins IndustryInsight
	var ranges []byte
	err := row.Scan(
		&ins.ID, &ins.Industry, &ranges, &ins.GrowthRate, &ins.DemandLevel,
		&ins.TopSkills, &ins.MarketOutlook, &ins.KeyTrends, &ins.RecommendedSkills,
		&ins.LastUpdated, &ins.NextUpdate,
	)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return IndustryInsight{}, ErrInsightNotFound
		}
		return IndustryInsight{}, err
	}
	if len(ranges) > 0 {
		if err := json.Unmarshal(ranges, &ins.SalaryRanges); err != nil {
			return IndustryInsight{}, err
		}
	}
	return ins, nil
}

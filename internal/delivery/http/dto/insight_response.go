package dto

import (
	"time"

	"careerpilot/internal/repository"
)

type SalaryRangeResponse struct {
	Role     string  `json:"role"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Location string  `json:"location"`
}

type InsightResponse struct {
	Industry          string                `json:"industry"`
	SalaryRanges      []SalaryRangeResponse `json:"salary_ranges"`
	GrowthRate        float64               `json:"growth_rate"`
	DemandLevel       string                `json:"demand_level"`
	TopSkills         []string              `json:"top_skills"`
	MarketOutlook     string                `json:"market_outlook"`
	KeyTrends         []string              `json:"key_trends"`
	RecommendedSkills []string              `json:"recommended_skills"`
	LastUpdated       time.Time             `json:"last_updated"`
	NextUpdate        time.Time             `json:"next_update"`
}

func NewInsightResponse(ins repository.IndustryInsight) InsightResponse {
	ranges := make([]SalaryRangeResponse, 0, len(ins.SalaryRanges))
	for _, sr := range ins.SalaryRanges {
		ranges = append(ranges, SalaryRangeResponse{
			Role:     sr.Role,
			Min:      sr.Min,
			Max:      sr.Max,
			Median:   sr.Median,
			Location: sr.Location,
		})
	}
	return InsightResponse{
		Industry:          ins.Industry,
		SalaryRanges:      ranges,
		GrowthRate:        ins.GrowthRate,
		DemandLevel:       ins.DemandLevel,
		TopSkills:         ins.TopSkills,
		MarketOutlook:     ins.MarketOutlook,
		KeyTrends:         ins.KeyTrends,
		RecommendedSkills: ins.RecommendedSkills,
		LastUpdated:       ins.LastUpdated,
		NextUpdate:        ins.NextUpdate,
	}
}

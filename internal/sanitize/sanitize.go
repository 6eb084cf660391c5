// Package sanitize is the validation boundary between the generative
// model and persistence. Model output is treated as untrusted: it is
// fence-stripped, parsed, and structurally validated before any typed
// record leaves this package. Nothing may be persisted without passing
// through here first.
package sanitize

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedOutput indicates the model output was not valid JSON after
// fence stripping.
var ErrMalformedOutput = errors.New("model output is not valid JSON")

// SchemaError indicates parsed JSON that violates the expected structure,
// carrying the first offending field.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema validation failed: field %q: %s", e.Field, e.Reason)
}

// Enumerations fixed by the insight contract.
const (
	DemandHigh   = "High"
	DemandMedium = "Medium"
	DemandLow    = "Low"

	OutlookPositive = "Positive"
	OutlookNeutral  = "Neutral"
	OutlookNegative = "Negative"
)

// QuizLength is the fixed number of questions per generated quiz.
const QuizLength = 10

const optionsPerQuestion = 4

// SalaryRange is one role's salary band within an insight payload.
type SalaryRange struct {
	Role     string  `json:"role"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Location string  `json:"location"`
}

// InsightPayload is a validated industry-insight record as produced by
// the model, before persistence stamps timestamps onto it.
type InsightPayload struct {
	SalaryRanges      []SalaryRange `json:"salaryRanges"`
	GrowthRate        float64       `json:"growthRate"`
	DemandLevel       string        `json:"demandLevel"`
	TopSkills         []string      `json:"topSkills"`
	MarketOutlook     string        `json:"marketOutlook"`
	KeyTrends         []string      `json:"keyTrends"`
	RecommendedSkills []string      `json:"recommendedSkills"`
}

// Question is one validated multiple-choice quiz item.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// QuizPayload is a validated generated quiz.
type QuizPayload struct {
	Questions []Question `json:"questions"`
}

// StripFences removes a leading/trailing markdown code fence (optionally
// tagged json) and surrounding whitespace. Unfenced input passes through
// unchanged, so the function is idempotent.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// Insight sanitizes raw model output into an InsightPayload.
func Insight(raw string) (InsightPayload, error) {
	text := StripFences(raw)

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return InsightPayload{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	if err := validateStructure("industry-insight", insightSchemaDef, insightRequiredKeys, parsed); err != nil {
		return InsightPayload{}, err
	}

	var p InsightPayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return InsightPayload{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	switch p.DemandLevel {
	case DemandHigh, DemandMedium, DemandLow:
	default:
		return InsightPayload{}, &SchemaError{Field: "demandLevel", Reason: fmt.Sprintf("value %q is not one of High, Medium, Low", p.DemandLevel)}
	}
	switch p.MarketOutlook {
	case OutlookPositive, OutlookNeutral, OutlookNegative:
	default:
		return InsightPayload{}, &SchemaError{Field: "marketOutlook", Reason: fmt.Sprintf("value %q is not one of Positive, Neutral, Negative", p.MarketOutlook)}
	}

	return p, nil
}

// Quiz sanitizes raw model output into a QuizPayload of exactly ten
// four-option questions.
func Quiz(raw string) (QuizPayload, error) {
	text := StripFences(raw)

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return QuizPayload{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	if err := validateStructure("quiz", quizSchemaDef, quizRequiredKeys, parsed); err != nil {
		return QuizPayload{}, err
	}

	var p QuizPayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return QuizPayload{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	if len(p.Questions) != QuizLength {
		return QuizPayload{}, &SchemaError{Field: "questions", Reason: fmt.Sprintf("expected %d questions, got %d", QuizLength, len(p.Questions))}
	}
	for i, q := range p.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return QuizPayload{}, &SchemaError{Field: fmt.Sprintf("questions.%d.question", i), Reason: "question text is empty"}
		}
		if len(q.Options) != optionsPerQuestion {
			return QuizPayload{}, &SchemaError{Field: fmt.Sprintf("questions.%d.options", i), Reason: fmt.Sprintf("expected %d options, got %d", optionsPerQuestion, len(q.Options))}
		}
		if !containsString(q.Options, q.CorrectAnswer) {
			return QuizPayload{}, &SchemaError{Field: fmt.Sprintf("questions.%d.correctAnswer", i), Reason: "correct answer is not one of the options"}
		}
	}

	return p, nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

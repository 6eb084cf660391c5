package sanitize

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validInsightJSON = `{
  "salaryRanges": [
    {"role": "Backend Engineer", "min": 90000, "max": 160000, "median": 120000, "location": "US"}
  ],
  "growthRate": 4.5,
  "demandLevel": "High",
  "topSkills": ["Go", "PostgreSQL"],
  "marketOutlook": "Positive",
  "keyTrends": ["AI tooling"],
  "recommendedSkills": ["Kubernetes"]
}`

func validQuizJSON(t *testing.T, n int) string {
	t.Helper()
	questions := make([]Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, Question{
			Question:      fmt.Sprintf("What does option %d test?", i),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "B",
			Explanation:   "B is correct.",
		})
	}
	b, err := json.Marshal(QuizPayload{Questions: questions})
	require.NoError(t, err)
	return string(b)
}

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced json tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"leading whitespace", "  \n```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StripFences(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want, StripFences(got), "StripFences must be idempotent")
		})
	}
}

func TestInsight_FencedAndUnfencedAreEquivalent(t *testing.T) {
	plain, err := Insight(validInsightJSON)
	require.NoError(t, err)

	fenced, err := Insight("```json\n" + validInsightJSON + "\n```")
	require.NoError(t, err)

	assert.Equal(t, plain, fenced)
	assert.Equal(t, "High", plain.DemandLevel)
	assert.Equal(t, "Positive", plain.MarketOutlook)
	require.Len(t, plain.SalaryRanges, 1)
	assert.Equal(t, "Backend Engineer", plain.SalaryRanges[0].Role)
}

func TestInsight_MalformedJSON(t *testing.T) {
	_, err := Insight("I think the industry is doing great!")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedOutput)
}

func TestInsight_MissingField(t *testing.T) {
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(validInsightJSON), &m))
	delete(m, "marketOutlook")
	b, err := json.Marshal(m)
	require.NoError(t, err)

	_, err = Insight(string(b))
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "marketOutlook", schemaErr.Field)
}

func TestInsight_InvalidDemandLevel(t *testing.T) {
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(validInsightJSON), &m))
	m["demandLevel"] = "Extreme"
	b, err := json.Marshal(m)
	require.NoError(t, err)

	_, err = Insight(string(b))
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "demandLevel", schemaErr.Field)
}

func TestInsight_WrongFieldType(t *testing.T) {
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(validInsightJSON), &m))
	m["growthRate"] = "fast"
	b, err := json.Marshal(m)
	require.NoError(t, err)

	_, err = Insight(string(b))
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.NotErrorIs(t, err, ErrMalformedOutput)
}

func TestInsight_NonObjectTopLevel(t *testing.T) {
	_, err := Insight(`["not", "an", "object"]`)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestQuiz_Valid(t *testing.T) {
	p, err := Quiz(validQuizJSON(t, QuizLength))
	require.NoError(t, err)
	require.Len(t, p.Questions, QuizLength)
	assert.Equal(t, "B", p.Questions[0].CorrectAnswer)
}

func TestQuiz_WrongQuestionCount(t *testing.T) {
	_, err := Quiz(validQuizJSON(t, 7))
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "questions", schemaErr.Field)
}

func TestQuiz_WrongOptionCount(t *testing.T) {
	var p QuizPayload
	require.NoError(t, json.Unmarshal([]byte(validQuizJSON(t, QuizLength)), &p))
	p.Questions[3].Options = []string{"A", "B"}
	b, err := json.Marshal(p)
	require.NoError(t, err)

	_, err = Quiz(string(b))
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "questions.3.options", schemaErr.Field)
}

func TestQuiz_CorrectAnswerNotAnOption(t *testing.T) {
	var p QuizPayload
	require.NoError(t, json.Unmarshal([]byte(validQuizJSON(t, QuizLength)), &p))
	p.Questions[0].CorrectAnswer = "Z"
	b, err := json.Marshal(p)
	require.NoError(t, err)

	_, err = Quiz(string(b))
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "questions.0.correctAnswer", schemaErr.Field)
}

func TestQuiz_MalformedJSON(t *testing.T) {
	_, err := Quiz("```json\n{\"questions\": [truncated")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedOutput))
}

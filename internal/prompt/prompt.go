// Package prompt builds the text sent to the generative model. Every
// function is a pure transformation from domain parameters to a prompt
// string; the output contract (JSON-only, exact field set) is stated in
// the prompt itself so the sanitizer can hold the model to it.
package prompt

import (
	"fmt"
	"strings"
)

// WrongAnswer describes one incorrectly answered quiz question, used to
// build the improvement-tip prompt.
type WrongAnswer struct {
	Question      string
	CorrectAnswer string
	UserAnswer    string
}

// CoverLetterInput carries the job posting and applicant context for a
// cover-letter draft.
type CoverLetterInput struct {
	JobTitle        string
	CompanyName     string
	JobDescription  string
	Industry        string
	ExperienceYears int
	Skills          []string
	Bio             string
}

// Insight requests the full industry-insight record as strict JSON.
func Insight(industry string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze the current state of the %s industry and provide insights in ONLY the following JSON format without any additional notes or explanations:\n", industry)
	b.WriteString(`{
  "salaryRanges": [
    { "role": "string", "min": number, "max": number, "median": number, "location": "string" }
  ],
  "growthRate": number,
  "demandLevel": "High" | "Medium" | "Low",
  "topSkills": ["skill1", "skill2"],
  "marketOutlook": "Positive" | "Neutral" | "Negative",
  "keyTrends": ["trend1", "trend2"],
  "recommendedSkills": ["skill1", "skill2"]
}
`)
	b.WriteString("\nIMPORTANT: Return ONLY the JSON. No markdown formatting or additional text.\n")
	b.WriteString("Include at least 5 common roles for salary ranges. Growth rate should be a percentage. Include at least 5 skills and trends.")

	return b.String()
}

// Quiz requests exactly ten multiple-choice questions for the given
// industry, optionally narrowed to the user's skills.
func Quiz(industry string, skills []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate 10 technical interview questions for a %s professional", industry)
	if len(skills) > 0 {
		fmt.Fprintf(&b, " with expertise in %s", strings.Join(skills, ", "))
	}
	b.WriteString(".\n\n")
	b.WriteString("Each question should be multiple choice with 4 options.\n\n")
	b.WriteString(`Return the response in this JSON format only, no additional text:
{
  "questions": [
    {
      "question": "string",
      "options": ["string", "string", "string", "string"],
      "correctAnswer": "string",
      "explanation": "string"
    }
  ]
}`)

	return b.String()
}

// ImprovementTip asks for a short encouraging tip based on the questions
// the user got wrong. The response is plain text, not JSON.
func ImprovementTip(industry string, wrong []WrongAnswer) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The user got the following %s technical interview questions wrong:\n\n", industry)
	for _, w := range wrong {
		fmt.Fprintf(&b, "Question: %q\nCorrect Answer: %q\nUser Answer: %q\n\n", w.Question, w.CorrectAnswer, w.UserAnswer)
	}
	b.WriteString("Based on these mistakes, provide a concise, specific improvement tip.\n")
	b.WriteString("Focus on the knowledge gaps revealed by these wrong answers.\n")
	b.WriteString("Keep the response under 2 sentences and make it encouraging.\n")
	b.WriteString("Don't explicitly mention the mistakes, instead focus on what to learn/practice.")

	return b.String()
}

// ResumeImprove rewrites one resume section for the user's industry. The
// response is the improved text only.
func ResumeImprove(industry, current string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "As an expert resume writer, improve the following description for a %s professional.\n", industry)
	b.WriteString("Make it more impactful, quantifiable, and aligned with industry standards.\n")
	fmt.Fprintf(&b, "Current content: %q\n\n", current)
	b.WriteString(`Requirements:
1. Use action verbs
2. Include metrics and results where possible
3. Highlight relevant technical skills
4. Keep it concise but detailed
5. Focus on achievements over responsibilities
6. Use industry-specific keywords

Format the response as a single paragraph without any additional text or explanations.`)

	return b.String()
}

// CoverLetter drafts a complete cover letter in markdown. The response is
// the letter text only.
func CoverLetter(in CoverLetterInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a professional cover letter for a %s position at %s.\n\n", in.JobTitle, in.CompanyName)
	b.WriteString("About the candidate:\n")
	fmt.Fprintf(&b, "- Industry: %s\n", in.Industry)
	fmt.Fprintf(&b, "- Years of Experience: %d\n", in.ExperienceYears)
	fmt.Fprintf(&b, "- Skills: %s\n", strings.Join(in.Skills, ", "))
	fmt.Fprintf(&b, "- Professional Background: %s\n\n", in.Bio)
	fmt.Fprintf(&b, "Job Description:\n%s\n\n", in.JobDescription)
	b.WriteString(`Requirements:
1. Use a professional, enthusiastic tone
2. Highlight relevant skills and experience
3. Show understanding of the company's needs
4. Keep it concise (max 400 words)
5. Use proper business letter formatting in markdown
6. Include specific examples of achievements
7. Relate candidate's background to job requirements

Format the letter in markdown. Return the letter text only.`)

	return b.String()
}

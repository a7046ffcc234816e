package llm

import (
	"fmt"
	"strings"
)

// BuildEmailPrompt renders the email-drafting prompt. Missing optional
// contact fields are substituted with placeholder tokens the model is told to
// carry through verbatim.
func BuildEmailPrompt(input EmailInput) string {
	name := orPlaceholder(input.Name, "[Your Name]")
	email := orPlaceholder(input.Email, "[Your Email Address]")
	phone := orPlaceholder(input.Phone, "[Your Phone Number]")

	return fmt.Sprintf(`
Write a %s email using the following details:

- Topic: %s
- Description: %s

User details to be used in the email:
- Name: %s
- Email: %s
- Phone: %s

If any field is a placeholder like [Your Name], [Your Email Address], etc., include it as-is in the email.
Make sure the email looks professional and properly formatted.
`, input.Tone, input.Topic, input.Description, name, email, phone)
}

// BuildAnalysisPrompt renders the resume-review prompt demanding strict JSON
// per the Analysis schema.
func BuildAnalysisPrompt(resumeText, jobTitle string) string {
	return fmt.Sprintf(`
You are an expert resume screening assistant trained to evaluate resumes for job relevance and quality.

You must strictly analyze the resume provided below for a job application targeting the position: "%s".

Your output must be a **valid and parsable JSON** object with **no extra commentary**, **no markdown**, and **no text outside the JSON**. Invalid or malformed JSON is unacceptable.

Use the following JSON structure strictly:

{
  "score": "X/10",
  "key_skills": [list of strong, highly relevant skills for the job],
  "missing_skills": [list of important or expected skills missing or weak],
  "strengths": [2-4 strengths clearly demonstrated in the resume],
  "weaknesses": [2-4 weaknesses, gaps, or areas with poor presentation],
  "suggestions": [specific and actionable suggestions for improving this resume for the given job role],
  "summary": "2-3 lines summarizing the resume's overall suitability for the role."
}

Strict rules:
- If the "key_skills" array is empty or contains no relevant skills for the job, then the "score" must be "0/10".
- The "score" must reflect the overall relevance and quality of the resume specifically for the "%s" role.
- Avoid generic filler responses; focus strictly on the content of the resume.
- Do not invent information that is not clearly present in the resume.

Now analyze the following resume accordingly:

Resume Content:
"""
%s
"""
`, jobTitle, jobTitle, resumeText)
}

func orPlaceholder(value, placeholder string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return placeholder
}

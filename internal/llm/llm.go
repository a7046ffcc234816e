package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// Client abstracts the generative-text gateway. Every call is a single
// best-effort attempt: no retries, no backoff.
type Client interface {
	GenerateEmail(ctx context.Context, input EmailInput) (string, error)
	AnalyzeResume(ctx context.Context, resumeText, jobTitle string) (string, error)
}

// EmailInput carries the fields embedded in the email-drafting prompt.
// Optional contact fields are replaced by placeholder tokens when empty.
type EmailInput struct {
	Topic       string
	Tone        string
	Description string
	Name        string
	Email       string
	Phone       string
}

// Analysis is the fixed schema the model is instructed to return for a
// resume review.
type Analysis struct {
	Score         string   `json:"score"`
	KeySkills     []string `json:"key_skills"`
	MissingSkills []string `json:"missing_skills"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Suggestions   []string `json:"suggestions"`
	Summary       string   `json:"summary"`
}

// ErrBadResponse means the model output was not valid JSON per the analysis
// schema. The model's conformance is never guaranteed, so callers must treat
// this as a distinct failure, not a generic one.
var ErrBadResponse = errors.New("AI response parsing failed")

// ParseAnalysis strips any Markdown code-fence wrapping from raw model output
// and decodes it into the analysis schema.
func ParseAnalysis(raw string) (Analysis, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var parsed Analysis
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return Analysis{}, ErrBadResponse
	}
	return parsed, nil
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("AI gateway not configured")

// PlaceholderClient is a stub implementation used when no API key is set.
type PlaceholderClient struct{}

func (PlaceholderClient) GenerateEmail(ctx context.Context, input EmailInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotConfigured
}

func (PlaceholderClient) AnalyzeResume(ctx context.Context, resumeText, jobTitle string) (string, error) {
	_ = ctx
	_ = resumeText
	_ = jobTitle
	return "", ErrNotConfigured
}

package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"pitchmate-backend/internal/emails"
	"pitchmate-backend/internal/resumes"
)

// Metrics is the per-user usage summary. Scores are stored as "N/10"
// strings, so the average is computed over their numeric prefixes.
type Metrics struct {
	TotalEmails         int               `json:"totalEmails"`
	TotalWordsGenerated int               `json:"totalWordsGenerated"`
	TotalResumes        int               `json:"totalResumes"`
	AvgResumeScore      string            `json:"avgResumeScore"`
	EmailChartData      []emails.DayStat  `json:"emailChartData"`
	ResumeChartData     []resumes.DayStat `json:"resumeChartData"`
}

// Service aggregates usage metrics across the email and resume stores.
type Service struct {
	Emails  emails.Repo
	Resumes resumes.Repo
}

// NewService constructs a Service.
func NewService(emailRepo emails.Repo, resumeRepo resumes.Repo) *Service {
	return &Service{Emails: emailRepo, Resumes: resumeRepo}
}

// Metrics computes the caller's dashboard summary. Chart series are grouped
// by calendar day in ascending order.
func (s *Service) Metrics(ctx context.Context, userID string) (Metrics, error) {
	totals, err := s.Emails.TotalsByUser(ctx, userID)
	if err != nil {
		return Metrics{}, fmt.Errorf("email totals: %w", err)
	}

	scores, err := s.Resumes.ScoresByUser(ctx, userID)
	if err != nil {
		return Metrics{}, fmt.Errorf("resume scores: %w", err)
	}

	emailChart, err := s.Emails.DailyStats(ctx, userID)
	if err != nil {
		return Metrics{}, fmt.Errorf("email chart: %w", err)
	}

	resumeChart, err := s.Resumes.DailyStats(ctx, userID)
	if err != nil {
		return Metrics{}, fmt.Errorf("resume chart: %w", err)
	}

	return Metrics{
		TotalEmails:         totals.Emails,
		TotalWordsGenerated: totals.Words,
		TotalResumes:        len(scores),
		AvgResumeScore:      averageScore(scores),
		EmailChartData:      emailChart,
		ResumeChartData:     resumeChart,
	}, nil
}

// averageScore means the numeric prefixes of the stored scores; entries
// without a parseable prefix are skipped. An empty set renders as "0.00".
func averageScore(scores []string) string {
	var sum float64
	var count int
	for _, score := range scores {
		value, ok := numericPrefix(score)
		if !ok {
			continue
		}
		sum += value
		count++
	}
	if count == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", sum/float64(count))
}

// numericPrefix parses the leading float of a string such as "8.5/10".
func numericPrefix(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		ch := s[end]
		if ch >= '0' && ch <= '9' || ch == '.' || (end == 0 && (ch == '+' || ch == '-')) {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0, false
	}
	value, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

package resumes

import "context"

// Repo persists resume analyses and serves the dashboard aggregations over
// them.
type Repo interface {
	Create(ctx context.Context, resume Resume) (Resume, error)
	// ListByUser returns the caller's analyses newest-first with ResumeText
	// stripped.
	ListByUser(ctx context.Context, userID string) ([]Resume, error)
	// ScoresByUser returns every stored score for the caller; the dashboard
	// derives both the total count and the average from it.
	ScoresByUser(ctx context.Context, userID string) ([]string, error)
	// DailyStats groups the caller's analyses by calendar day, ascending.
	DailyStats(ctx context.Context, userID string) ([]DayStat, error)
}

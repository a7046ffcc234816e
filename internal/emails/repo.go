package emails

import "context"

// Repo persists generated-email records and serves the dashboard
// aggregations over them.
type Repo interface {
	Create(ctx context.Context, email Email) (Email, error)
	// ListByUser returns the caller's records newest-first.
	ListByUser(ctx context.Context, userID string) ([]Email, error)
	TotalsByUser(ctx context.Context, userID string) (Totals, error)
	// DailyStats groups the caller's records by calendar day, ascending.
	DailyStats(ctx context.Context, userID string) ([]DayStat, error)
}

package emails

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is the in-memory fallback used when no database is configured.
type MemoryRepo struct {
	mu      sync.RWMutex
	records []Email
}

// NewMemoryRepo constructs an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Create(ctx context.Context, email Email) (Email, error) {
	if err := ctx.Err(); err != nil {
		return Email{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if email.CreatedAt.IsZero() {
		email.CreatedAt = now
	}
	email.UpdatedAt = now
	r.records = append(r.records, email)
	return email, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Email, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Email, 0)
	for _, record := range r.records {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) TotalsByUser(ctx context.Context, userID string) (Totals, error) {
	if err := ctx.Err(); err != nil {
		return Totals{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var totals Totals
	for _, record := range r.records {
		if record.UserID != userID {
			continue
		}
		totals.Emails++
		totals.Words += len(strings.Fields(record.GeneratedEmail))
	}
	return totals, nil
}

func (r *MemoryRepo) DailyStats(ctx context.Context, userID string) ([]DayStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	byDay := make(map[string]*DayStat)
	for _, record := range r.records {
		if record.UserID != userID {
			continue
		}
		day := record.CreatedAt.UTC().Format("2006-01-02")
		stat, ok := byDay[day]
		if !ok {
			stat = &DayStat{Date: day}
			byDay[day] = stat
		}
		stat.Emails++
		stat.Words += len(strings.Fields(record.GeneratedEmail))
	}

	stats := make([]DayStat, 0, len(byDay))
	for _, stat := range byDay {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	return stats, nil
}

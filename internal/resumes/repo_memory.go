package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is the in-memory fallback used when no database is configured.
type MemoryRepo struct {
	mu      sync.RWMutex
	records []Resume
}

// NewMemoryRepo constructs an empty in-memory repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Create(ctx context.Context, resume Resume) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if resume.CreatedAt.IsZero() {
		resume.CreatedAt = now
	}
	resume.UpdatedAt = now
	r.records = append(r.records, resume)
	return resume, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Resume, 0)
	for _, record := range r.records {
		if record.UserID != userID {
			continue
		}
		record.ResumeText = ""
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) ScoresByUser(ctx context.Context, userID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	scores := make([]string, 0)
	for _, record := range r.records {
		if record.UserID == userID {
			scores = append(scores, record.Score)
		}
	}
	return scores, nil
}

func (r *MemoryRepo) DailyStats(ctx context.Context, userID string) ([]DayStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	byDay := make(map[string]int)
	for _, record := range r.records {
		if record.UserID == userID {
			byDay[record.CreatedAt.UTC().Format("2006-01-02")]++
		}
	}

	stats := make([]DayStat, 0, len(byDay))
	for day, count := range byDay {
		stats = append(stats, DayStat{Date: day, Resumes: count})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Date < stats[j].Date })
	return stats, nil
}

package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mahek9015/community-learning-hub/internal/models"
)

type contentsRepo struct {
	mu       sync.RWMutex
	items    map[string]models.Content
	order    []string // insertion order, oldest first
	saved    map[string][]string
	unlocked map[string]map[string]struct{}
	reports  map[string][]models.ContentReport
}

func newContentsRepo() *contentsRepo {
	return &contentsRepo{
		items:    map[string]models.Content{},
		saved:    map[string][]string{},
		unlocked: map[string]map[string]struct{}{},
		reports:  map[string][]models.ContentReport{},
	}
}

func (r *contentsRepo) Create(ctx context.Context, c models.Content) (models.Content, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.items[c.ID] = c
	r.order = append(r.order, c.ID)
	return c, nil
}

func (r *contentsRepo) GetByID(ctx context.Context, id string) (models.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return models.Content{}, models.ErrNotFound
	}
	c.ReportCount = len(r.reports[id])
	return c, nil
}

func (r *contentsRepo) ExistsBySourceURL(ctx context.Context, url string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.items {
		if c.SourceURL == url {
			return true, nil
		}
	}
	return false, nil
}

func matches(c models.Content, f models.ContentFilter) bool {
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.Source != "" && c.Source != f.Source {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(c.Title), q) &&
			!strings.Contains(strings.ToLower(c.Description), q) {
			return false
		}
	}
	return true
}

func (r *contentsRepo) List(ctx context.Context, f models.ContentFilter, limit, offset int) ([]models.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Content
	skipped := 0
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		c, ok := r.items[r.order[i]]
		if !ok || !matches(c, f) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *contentsRepo) Count(ctx context.Context, f models.ContentFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, c := range r.items {
		if matches(c, f) {
			n++
		}
	}
	return n, nil
}

func (r *contentsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.items, id)
	delete(r.reports, id)
	return nil
}

func (r *contentsRepo) Save(ctx context.Context, userID, contentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.saved[userID] {
		if id == contentID {
			return false, nil
		}
	}
	r.saved[userID] = append(r.saved[userID], contentID)
	return true, nil
}

func (r *contentsRepo) SavedByUser(ctx context.Context, userID string) ([]models.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Content
	for _, id := range r.saved[userID] {
		if c, ok := r.items[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *contentsRepo) Report(ctx context.Context, contentID, userID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[contentID]; !ok {
		return models.ErrNotFound
	}
	r.reports[contentID] = append(r.reports[contentID], models.ContentReport{
		ID:        uuid.NewString(),
		ContentID: contentID,
		UserID:    userID,
		Reason:    reason,
		CreatedAt: time.Now(),
	})
	return nil
}

func (r *contentsRepo) Reported(ctx context.Context, limit, offset int) ([]models.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Content
	skipped := 0
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		id := r.order[i]
		reps := r.reports[id]
		if len(reps) == 0 {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		c := r.items[id]
		c.ReportCount = len(reps)
		out = append(out, c)
	}
	return out, nil
}

func (r *contentsRepo) CountReported(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for id := range r.reports {
		if len(r.reports[id]) > 0 {
			n++
		}
	}
	return n, nil
}

func (r *contentsRepo) ClearReports(ctx context.Context, contentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reports, contentID)
	return nil
}

func (r *contentsRepo) MarkUnlocked(ctx context.Context, userID, contentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.unlocked[userID]
	if !ok {
		m = map[string]struct{}{}
		r.unlocked[userID] = m
	}
	m[contentID] = struct{}{}
	return nil
}

func (r *contentsRepo) IsUnlocked(ctx context.Context, userID, contentID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.unlocked[userID][contentID]
	return ok, nil
}

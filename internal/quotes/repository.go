package quotes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for quote request storage
type Repository interface {
	// Create stores q and fills in ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, q *QuoteRequest) error
	GetByID(ctx context.Context, id string) (*QuoteRequest, error)
	List(ctx context.Context, filter ListFilter) ([]*QuoteRequest, int, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository keeps quote requests in process memory.
type InMemoryRepository struct {
	mu     sync.RWMutex
	quotes map[string]*QuoteRequest
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		quotes: make(map[string]*QuoteRequest),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, q *QuoteRequest) error {
	now := time.Now().UTC()
	q.ID = uuid.New().String()
	q.CreatedAt = now
	q.UpdatedAt = now

	stored := *q
	r.mu.Lock()
	r.quotes[q.ID] = &stored
	r.mu.Unlock()
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*QuoteRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.quotes[id]
	if !ok {
		return nil, ErrQuoteNotFound
	}
	out := *q
	return &out, nil
}

func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*QuoteRequest, int, error) {
	r.mu.RLock()
	var matched []*QuoteRequest
	for _, q := range r.quotes {
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		out := *q
		matched = append(matched, &out)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	return paginate(matched, filter.Offset, filter.Limit), total, nil
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.quotes[id]
	if !ok {
		return ErrQuoteNotFound
	}
	q.Status = status
	q.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.quotes[id]; !ok {
		return ErrQuoteNotFound
	}
	delete(r.quotes, id)
	return nil
}

func paginate(items []*QuoteRequest, offset, limit int) []*QuoteRequest {
	if offset >= len(items) {
		return []*QuoteRequest{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

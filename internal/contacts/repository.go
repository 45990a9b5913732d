package contacts

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for contact message storage
type Repository interface {
	// Create stores msg and fills in ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, msg *ContactMessage) error
	GetByID(ctx context.Context, id string) (*ContactMessage, error)
	List(ctx context.Context, filter ListFilter) ([]*ContactMessage, int, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository keeps contact messages in process memory.
type InMemoryRepository struct {
	mu       sync.RWMutex
	messages map[string]*ContactMessage
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		messages: make(map[string]*ContactMessage),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, msg *ContactMessage) error {
	now := time.Now().UTC()
	msg.ID = uuid.New().String()
	msg.CreatedAt = now
	msg.UpdatedAt = now

	stored := *msg
	r.mu.Lock()
	r.messages[msg.ID] = &stored
	r.mu.Unlock()
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*ContactMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msg, ok := r.messages[id]
	if !ok {
		return nil, ErrContactNotFound
	}
	out := *msg
	return &out, nil
}

func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*ContactMessage, int, error) {
	r.mu.RLock()
	var matched []*ContactMessage
	for _, msg := range r.messages {
		if filter.Status != "" && msg.Status != filter.Status {
			continue
		}
		out := *msg
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

	msg, ok := r.messages[id]
	if !ok {
		return ErrContactNotFound
	}
	msg.Status = status
	msg.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.messages[id]; !ok {
		return ErrContactNotFound
	}
	delete(r.messages, id)
	return nil
}

func paginate(items []*ContactMessage, offset, limit int) []*ContactMessage {
	if offset >= len(items) {
		return []*ContactMessage{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

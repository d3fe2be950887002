package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/Alijeyrad/ticketcreator_backend/internal/model"
)

// Memory keeps tickets in process. Values are deep-copied on the way in and
// out so callers can never alias stored documents.
type Memory struct {
	mu      sync.RWMutex
	tickets map[string]*model.Ticket
}

func NewMemory() *Memory {
	return &Memory{tickets: make(map[string]*model.Ticket)}
}

var _ Tickets = (*Memory)(nil)

func (m *Memory) Insert(_ context.Context, t *model.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tickets[t.ID]; exists {
		return ErrDuplicate
	}
	m.tickets[t.ID] = t.Clone()
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*model.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t.Clone(), nil
}

func (m *Memory) Find(_ context.Context, q Query) ([]*model.Ticket, int64, error) {
	m.mu.RLock()
	matched := lo.Filter(lo.Values(m.tickets), func(t *model.Ticket, _ int) bool {
		return matches(t, q)
	})
	matched = lo.Map(matched, func(t *model.Ticket, _ int) *model.Ticket { return t.Clone() })
	m.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	total := int64(len(matched))
	start := min(max(q.Skip, 0), total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}
	return matched[start:end], total, nil
}

func (m *Memory) Replace(_ context.Context, t *model.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tickets[t.ID]; !ok {
		return ErrNotFound
	}
	m.tickets[t.ID] = t.Clone()
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tickets[id]; !ok {
		return ErrNotFound
	}
	delete(m.tickets, id)
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func matches(t *model.Ticket, q Query) bool {
	if q.Status != "" && t.Status != q.Status {
		return false
	}
	if q.Priority != "" && t.Priority != q.Priority {
		return false
	}
	if q.Project != "" && model.NormalizeProject(t.Project) != q.Project {
		return false
	}
	if q.Title != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(q.Title)) {
		return false
	}
	return true
}

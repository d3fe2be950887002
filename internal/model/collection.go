package model

import "github.com/samber/lo"

// Steps and Notes are ordered collections owned by a ticket. Ids are only
// unique inside one collection; lookups never leave the owning ticket.
// Removing an entry keeps the relative order of the others.

type Steps []Step

type Notes []Note

func (s Step) key() string { return s.ID }
func (n Note) key() string { return n.ID }

type keyed interface {
	key() string
}

func indexOf[T keyed](items []T, id string) int {
	if id == "" {
		return -1
	}
	_, idx, ok := lo.FindIndexOf(items, func(item T) bool { return item.key() == id })
	if !ok {
		return -1
	}
	return idx
}

func removeAt[T any](items []T, idx int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...)
}

// Get returns a pointer into the collection so callers can mutate in place.
func (s Steps) Get(id string) (*Step, bool) {
	idx := indexOf(s, id)
	if idx < 0 {
		return nil, false
	}
	return &s[idx], true
}

func (s *Steps) Append(step Step) {
	*s = append(*s, step)
}

// Remove deletes the step with id and reports whether it existed.
func (s *Steps) Remove(id string) bool {
	idx := indexOf(*s, id)
	if idx < 0 {
		return false
	}
	*s = removeAt(*s, idx)
	return true
}

func (s Steps) clone() Steps {
	if s == nil {
		return nil
	}
	out := make(Steps, len(s))
	copy(out, s)
	return out
}

func (n Notes) Get(id string) (*Note, bool) {
	idx := indexOf(n, id)
	if idx < 0 {
		return nil, false
	}
	return &n[idx], true
}

func (n *Notes) Append(note Note) {
	*n = append(*n, note)
}

func (n *Notes) Remove(id string) bool {
	idx := indexOf(*n, id)
	if idx < 0 {
		return false
	}
	*n = removeAt(*n, idx)
	return true
}

func (n Notes) clone() Notes {
	if n == nil {
		return nil
	}
	out := make(Notes, len(n))
	copy(out, n)
	return out
}

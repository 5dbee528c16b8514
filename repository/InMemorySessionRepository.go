package repository

import (
	"errors"
	"sync"
	"time"
)

var ErrWorkflowNotFound = errors.New("workflow not found")

// Session is anything the registry can hold and tear down on eviction
type Session interface {
	ID() string
	Close()
}

type sessionItem[T Session] struct {
	session  T
	lastSeen time.Time
}

// MemSessionRepo keeps live workflows keyed by id. A workflow that has not been
// touched for idleTTL is closed and dropped by PurgeIdle.
type MemSessionRepo[T Session] struct {
	mu      sync.Mutex
	items   map[string]*sessionItem[T]
	idleTTL time.Duration
	now     func() time.Time
}

func NewInMemorySessionRepo[T Session](idleTTL time.Duration) *MemSessionRepo[T] {
	return &MemSessionRepo[T]{
		items:   make(map[string]*sessionItem[T]),
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

func (r *MemSessionRepo[T]) Put(s T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.ID()] = &sessionItem[T]{session: s, lastSeen: r.now()}
}

// Get returns the session and refreshes its idle clock
func (r *MemSessionRepo[T]) Get(id string) (T, error) {
	var zero T

	r.mu.Lock()
	item, ok := r.items[id]
	if !ok {
		r.mu.Unlock()
		return zero, ErrWorkflowNotFound
	}
	if r.now().Sub(item.lastSeen) > r.idleTTL {
		delete(r.items, id)
		r.mu.Unlock()
		item.session.Close()
		return zero, ErrWorkflowNotFound
	}
	item.lastSeen = r.now()
	r.mu.Unlock()

	return item.session, nil
}

// Delete closes and removes the session; unknown ids are ignored
func (r *MemSessionRepo[T]) Delete(id string) {
	r.mu.Lock()
	item, ok := r.items[id]
	delete(r.items, id)
	r.mu.Unlock()

	if ok {
		item.session.Close()
	}
}

func (r *MemSessionRepo[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// PurgeIdle closes every session idle past the TTL and reports how many went
func (r *MemSessionRepo[T]) PurgeIdle() int {
	r.mu.Lock()
	var idle []T
	now := r.now()
	for id, item := range r.items {
		if now.Sub(item.lastSeen) > r.idleTTL {
			idle = append(idle, item.session)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	return len(idle)
}

package memcache

import (
	"context"
	"sync"
	"time"
)

// PlanStore keeps the last AI-generated trip plan per user so the itinerary
// builder can pick it up again. Values are the plan's JSON encoding.
type PlanStore interface {
	Set(ctx context.Context, userID string, plan []byte, ttl time.Duration) error

	// Get returns the plan for userID when present and not expired.
	Get(ctx context.Context, userID string) ([]byte, bool, error)

	Delete(ctx context.Context, userID string) error
}

type entry struct {
	plan      []byte
	expiresAt time.Time
}

type LastPlans struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func NewLastPlans() *LastPlans {
	return &LastPlans{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *LastPlans) Set(_ context.Context, userID string, plan []byte, ttl time.Duration) error {
	cp := make([]byte, len(plan))
	copy(cp, plan)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = entry{
		plan:      cp,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *LastPlans) Get(_ context.Context, userID string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.data[userID]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		// re-check, a concurrent Set may have refreshed it
		if cur, still := s.data[userID]; still && !s.now().Before(cur.expiresAt) {
			delete(s.data, userID)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return e.plan, true, nil
}

func (s *LastPlans) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, userID)
	return nil
}

// Purge drops every expired entry and reports how many were removed.
func (s *LastPlans) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.data {
		if !now.Before(e.expiresAt) {
			delete(s.data, k)
			removed++
		}
	}
	return removed
}

package credits

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu       sync.Mutex
	balances map[string]Balance
	scans    map[string][]Scan
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		balances: make(map[string]Balance),
		scans:    make(map[string][]Scan),
	}
}

func (s *memoryStore) Get(ctx context.Context, userID string) (Balance, error) {
	if err := ctx.Err(); err != nil {
		return Balance{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(userID), nil
}

func (s *memoryStore) ensureLocked(userID string) Balance {
	b, ok := s.balances[userID]
	if !ok {
		b = Balance{UserID: userID, Credits: StartingCredits, UpdatedAt: time.Now().UTC()}
		s.balances[userID] = b
	}
	return b
}

func (s *memoryStore) Deduct(ctx context.Context, userID string, amount int) (Balance, error) {
	if err := ctx.Err(); err != nil {
		return Balance{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.ensureLocked(userID)
	if b.Credits < amount {
		return Balance{}, ErrInsufficientCredits
	}
	b.Credits -= amount
	b.UpdatedAt = time.Now().UTC()
	s.balances[userID] = b
	return b, nil
}

func (s *memoryStore) RecordScan(ctx context.Context, scan Scan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans[scan.UserID] = append(s.scans[scan.UserID], scan)
	return nil
}

func (s *memoryStore) RecentScans(ctx context.Context, userID string, limit int) ([]Scan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.scans[userID]

	out := []Scan{}
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

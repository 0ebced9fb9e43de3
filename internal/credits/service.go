package credits

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type store interface {
	Get(ctx context.Context, userID string) (Balance, error)
	Deduct(ctx context.Context, userID string, amount int) (Balance, error)
	RecordScan(ctx context.Context, scan Scan) error
	RecentScans(ctx context.Context, userID string, limit int) ([]Scan, error)
}

// Service manages credit balances and scan history via an underlying store.
type Service struct {
	store store
}

// NewService constructs a Service with an in-memory store.
func NewService() *Service {
	return &Service{store: newMemoryStore()}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore store) *Service {
	return &Service{store: pgStore}
}

// Get returns the user's balance, granting the starting allowance on first
// contact.
func (s *Service) Get(ctx context.Context, userID string) (Balance, error) {
	return s.store.Get(ctx, userID)
}

// HasSufficient reports whether the user can cover amount. Fails closed: a
// store error reads as not-sufficient.
func (s *Service) HasSufficient(ctx context.Context, userID string, amount int) (bool, Balance, error) {
	b, err := s.store.Get(ctx, userID)
	if err != nil {
		return false, Balance{}, err
	}
	return b.Credits >= amount, b, nil
}

// Deduct atomically subtracts amount from the user's balance. It returns
// ErrInsufficientCredits, leaving the balance unchanged, when the balance
// cannot cover the amount. Two concurrent deductions against a balance that
// covers only one will succeed exactly once.
func (s *Service) Deduct(ctx context.Context, userID string, amount int) (Balance, error) {
	if amount <= 0 {
		return s.store.Get(ctx, userID)
	}
	return s.store.Deduct(ctx, userID, amount)
}

// RecordScan appends one scan to the user's history.
func (s *Service) RecordScan(ctx context.Context, userID, filename, fileType string, at time.Time) error {
	return s.store.RecordScan(ctx, Scan{
		ID:       uuid.NewString(),
		UserID:   userID,
		Filename: filename,
		FileType: fileType,
		ScanDate: at.UTC(),
	})
}

// RecentScans returns the user's newest scans, newest first.
func (s *Service) RecentScans(ctx context.Context, userID string, limit int) ([]Scan, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.RecentScans(ctx, userID, limit)
}

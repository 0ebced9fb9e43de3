package credits

import (
	"context"
	"database/sql"
	"errors"
)

type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed credits store.
func NewPGStore(db *sql.DB) *pgStore {
	return &pgStore{DB: db}
}

// Get returns the user's balance, inserting the starting allowance first if
// the row does not exist. The insert is idempotent so concurrent first
// contacts cannot double-grant.
func (s *pgStore) Get(ctx context.Context, userID string) (Balance, error) {
	if _, err := s.DB.ExecContext(ctx, `
INSERT INTO user_credits (user_id, credits, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (user_id) DO NOTHING`, userID, StartingCredits); err != nil {
		return Balance{}, err
	}

	var b Balance
	row := s.DB.QueryRowContext(ctx, `
SELECT user_id, credits, updated_at FROM user_credits WHERE user_id = $1`, userID)
	if err := row.Scan(&b.UserID, &b.Credits, &b.UpdatedAt); err != nil {
		return Balance{}, err
	}
	return b, nil
}

// Deduct performs a single conditional decrement. The WHERE clause carries
// the sufficiency check, so concurrent deductions serialize on the row and
// the balance can never go negative.
func (s *pgStore) Deduct(ctx context.Context, userID string, amount int) (Balance, error) {
	var b Balance
	row := s.DB.QueryRowContext(ctx, `
UPDATE user_credits
SET credits = credits - $2, updated_at = NOW()
WHERE user_id = $1 AND credits >= $2
RETURNING user_id, credits, updated_at`, userID, amount)
	err := row.Scan(&b.UserID, &b.Credits, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Balance{}, ErrInsufficientCredits
		}
		return Balance{}, err
	}
	return b, nil
}

func (s *pgStore) RecordScan(ctx context.Context, scan Scan) error {
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO user_scans (id, user_id, filename, file_type, scan_date)
VALUES ($1, $2, $3, $4, $5)`, scan.ID, scan.UserID, scan.Filename, scan.FileType, scan.ScanDate)
	return err
}

func (s *pgStore) RecentScans(ctx context.Context, userID string, limit int) ([]Scan, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, user_id, filename, file_type, scan_date
FROM user_scans
WHERE user_id = $1
ORDER BY scan_date DESC
LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scans := []Scan{}
	for rows.Next() {
		var sc Scan
		if err := rows.Scan(&sc.ID, &sc.UserID, &sc.Filename, &sc.FileType, &sc.ScanDate); err != nil {
			return nil, err
		}
		scans = append(scans, sc)
	}
	return scans, rows.Err()
}

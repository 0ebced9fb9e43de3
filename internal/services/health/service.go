package health

import (
	"context"
	"database/sql"
	"time"
)

// Service encapsulates health-related checks.
type Service struct {
	db *sql.DB
}

// NewService constructs a new health service. db may be nil when the server
// runs on in-memory stores.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Status reports process liveness and, when a database is wired, its
// reachability.
func (s *Service) Status(ctx context.Context) map[string]any {
	status := map[string]any{"ok": true, "storage": "memory"}
	if s.db == nil {
		return status
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	status["storage"] = "postgres"
	if err := s.db.PingContext(pingCtx); err != nil {
		status["ok"] = false
		status["storage_error"] = err.Error()
	}
	return status
}

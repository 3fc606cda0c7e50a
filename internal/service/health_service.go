package service

import (
	"context"
	"time"
)

const healthTimeout = 2 * time.Second

type healthService struct {
	db Pinger
}

func newHealthService(db Pinger) *healthService {
	return &healthService{db: db}
}

// Check pings the database with a short timeout
func (s *healthService) Check(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	return s.db.HealthCheck(ctx)
}

package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/yigit/erpconsole/internal/app/models"
	"github.com/yigit/erpconsole/internal/app/repositories"
	"github.com/yigit/erpconsole/internal/pkg/apperrors"
	"github.com/yigit/erpconsole/internal/pkg/logger"
)

// DatabaseStore covers the backend maintenance endpoints
type DatabaseStore interface {
	Init(ctx context.Context) (*repositories.InitResult, error)
	Health(ctx context.Context) (string, error)
}

// DatabaseService runs the "Create Tables" recovery action
type DatabaseService struct {
	db         DatabaseStore
	domains    DomainReader
	retryDelay time.Duration
	limiter    *rate.Limiter
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewDatabaseService creates a new database service. Init requests closer
// together than minInterval are refused.
func NewDatabaseService(db DatabaseStore, domains DomainReader, retryDelay, minInterval time.Duration) *DatabaseService {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &DatabaseService{
		db:         db,
		domains:    domains,
		retryDelay: retryDelay,
		limiter:    rate.NewLimiter(limit, 1),
		sleep:      sleepContext,
	}
}

// InitAndReload creates missing backend tables, waits the retry delay and
// fetches the domain list once.
func (s *DatabaseService) InitAndReload(ctx context.Context) ([]models.Domain, error) {
	if !s.limiter.Allow() {
		return nil, apperrors.ErrInitThrottled
	}

	result, err := s.db.Init(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialise database: %w", err)
	}
	logger.FromContext(ctx).Info().
		Str("status", result.Status).
		Str("message", result.Message).
		Msg("Backend database initialised")

	if err := s.sleep(ctx, s.retryDelay); err != nil {
		return nil, err
	}

	domains, err := s.domains.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list domains after init: %w", err)
	}
	return domains, nil
}

// Health reports whether the backend answers its health endpoint
func (s *DatabaseService) Health(ctx context.Context) (string, error) {
	return s.db.Health(ctx)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

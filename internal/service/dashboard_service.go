package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/campuslink/alumni-hub-api/internal/models"
	appErrors "github.com/campuslink/alumni-hub-api/pkg/errors"
)

const adminStatsCacheKey = "dashboard:admin_stats"

type dashboardUserRepository interface {
	CountByRole(ctx context.Context, role models.UserRole, verified *bool) (int, error)
	ListPendingVerification(ctx context.Context, limit int) ([]models.PendingAlumnus, error)
}

type dashboardEventRepository interface {
	CountAll(ctx context.Context) (int, error)
}

type dashboardForumRepository interface {
	CountPosts(ctx context.Context) (int, error)
}

// DashboardConfig tunes dashboard composition.
type DashboardConfig struct {
	CacheTTL     time.Duration
	PendingLimit int
}

// AdminDashboard is the composed admin landing payload.
type AdminDashboard struct {
	Stats   models.AdminStats      `json:"stats"`
	Pending []models.PendingAlumnus `json:"pending_verification"`
}

// DashboardService composes the admin dashboard, caching the counters.
type DashboardService struct {
	users  dashboardUserRepository
	events dashboardEventRepository
	forum  dashboardForumRepository
	cache  *CacheService
	logger *zap.Logger
	config DashboardConfig
}

// NewDashboardService constructs the service. The cache may be nil.
func NewDashboardService(users dashboardUserRepository, events dashboardEventRepository, forum dashboardForumRepository, cache *CacheService, logger *zap.Logger, config DashboardConfig) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 5 * time.Minute
	}
	if config.PendingLimit <= 0 {
		config.PendingLimit = 10
	}
	return &DashboardService{users: users, events: events, forum: forum, cache: cache, logger: logger, config: config}
}

// AdminStats aggregates dashboard counters, served from cache when fresh.
// The second return reports whether the cache answered.
func (s *DashboardService) AdminStats(ctx context.Context) (*models.AdminStats, bool, error) {
	var stats models.AdminStats
	if s.cache.Enabled() {
		if hit, err := s.cache.Get(ctx, adminStatsCacheKey, &stats); err == nil && hit {
			return &stats, true, nil
		}
	}

	verified := true
	totalAlumni, err := s.users.CountByRole(ctx, models.RoleAlumni, nil)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count alumni")
	}
	verifiedAlumni, err := s.users.CountByRole(ctx, models.RoleAlumni, &verified)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count verified alumni")
	}
	totalEvents, err := s.events.CountAll(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count events")
	}
	totalPosts, err := s.forum.CountPosts(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count forum posts")
	}

	stats = models.AdminStats{
		TotalAlumni:         totalAlumni,
		VerifiedAlumni:      verifiedAlumni,
		PendingVerification: totalAlumni - verifiedAlumni,
		TotalEvents:         totalEvents,
		TotalPosts:          totalPosts,
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, adminStatsCacheKey, stats, s.config.CacheTTL); err != nil {
			s.logger.Warn("failed to cache admin stats", zap.Error(err))
		}
	}
	return &stats, false, nil
}

// Overview composes the full admin landing payload.
func (s *DashboardService) Overview(ctx context.Context) (*AdminDashboard, bool, error) {
	stats, cacheHit, err := s.AdminStats(ctx)
	if err != nil {
		return nil, false, err
	}
	pending, err := s.users.ListPendingVerification(ctx, s.config.PendingLimit)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending accounts")
	}
	return &AdminDashboard{Stats: *stats, Pending: pending}, cacheHit, nil
}

// InvalidateStats drops the cached counters. Mutating admin flows call this
// after writes.
func (s *DashboardService) InvalidateStats(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, adminStatsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

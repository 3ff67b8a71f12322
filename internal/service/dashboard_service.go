package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/clubatlas/club-adm-api/internal/access"
	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
)

type cacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AdminDashboard is the club-wide summary shown to admins and coaches.
type AdminDashboard struct {
	TotalPlayers         int                        `json:"total_players"`
	Dues                 models.DueStats            `json:"dues"`
	PendingDues          []models.DueDetail         `json:"pending_dues"`
	UpcomingTrainings    []models.TrainingSession   `json:"upcoming_trainings"`
	UpcomingEvents       []models.Event             `json:"upcoming_events"`
	ExpiringCertificates []models.CertificateDetail `json:"expiring_certificates"`
	GeneratedAt          time.Time                  `json:"generated_at"`
}

// PlayerDashboard is the personal summary shown to players and guardians.
type PlayerDashboard struct {
	Player            models.PlayerDetail      `json:"player"`
	Dues              models.DueStats          `json:"dues"`
	Attendance        models.AttendanceSummary `json:"attendance"`
	UpcomingTrainings []models.TrainingSession `json:"upcoming_trainings"`
	UpcomingEvents    []models.Event           `json:"upcoming_events"`
	GeneratedAt       time.Time                `json:"generated_at"`
}

// DashboardService aggregates cross-module summaries. Results are cached in
// Redis for a short TTL since every role lands on a dashboard first.
type DashboardService struct {
	players      *PlayerService
	dues         *DueService
	attendance   *AttendanceService
	trainings    *TrainingService
	events       *EventService
	certificates *CertificateService
	cache        cacheRepository
	cacheTTL     time.Duration
	metrics      *MetricsService
	logger       *zap.Logger
	now          func() time.Time
}

// NewDashboardService constructs a DashboardService. A nil cache disables
// caching without changing behaviour.
func NewDashboardService(
	players *PlayerService,
	dues *DueService,
	attendance *AttendanceService,
	trainings *TrainingService,
	events *EventService,
	certificates *CertificateService,
	cache cacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DashboardService{
		players:      players,
		dues:         dues,
		attendance:   attendance,
		trainings:    trainings,
		events:       events,
		certificates: certificates,
		cache:        cache,
		cacheTTL:     cacheTTL,
		logger:       logger,
		now:          time.Now,
	}
}

// WithMetrics attaches cache hit/miss instrumentation.
func (s *DashboardService) WithMetrics(metrics *MetricsService) *DashboardService {
	s.metrics = metrics
	return s
}

// AdminSummary builds the club-wide dashboard. Requires a view-all scope.
func (s *DashboardService) AdminSummary(ctx context.Context, scope access.Scope) (*AdminDashboard, error) {
	if !scope.ViewAll {
		return nil, appErrors.ErrForbidden
	}

	const cacheKey = "dashboard:admin"
	var cached AdminDashboard
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return &cached, nil
		}
		s.metrics.RecordCacheOperation(false)
	}

	players, err := s.players.List(ctx, scope, models.PlayerFilter{})
	if err != nil {
		return nil, err
	}
	stats, err := s.dues.Stats(ctx, scope, models.DueFilter{})
	if err != nil {
		return nil, err
	}
	pending, err := s.dues.Pending(ctx)
	if err != nil {
		return nil, err
	}
	trainings, err := s.trainings.Upcoming(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.events.Upcoming(ctx)
	if err != nil {
		return nil, err
	}
	expiring, err := s.certificates.Expiring(ctx)
	if err != nil {
		return nil, err
	}

	dashboard := &AdminDashboard{
		TotalPlayers:         len(players),
		Dues:                 *stats,
		PendingDues:          pending,
		UpcomingTrainings:    trainings,
		UpcomingEvents:       events,
		ExpiringCertificates: expiring,
		GeneratedAt:          s.now().UTC(),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, dashboard, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache admin dashboard", zap.Error(err))
		}
	}
	return dashboard, nil
}

// PlayerSummary builds the personal dashboard for the scope's player.
func (s *DashboardService) PlayerSummary(ctx context.Context, scope access.Scope, playerID string) (*PlayerDashboard, error) {
	if !scope.AllowsPlayer(playerID) {
		return nil, appErrors.ErrForbidden
	}

	cacheKey := fmt.Sprintf("dashboard:player:%s", playerID)
	var cached PlayerDashboard
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return &cached, nil
		}
		s.metrics.RecordCacheOperation(false)
	}

	player, err := s.players.Get(ctx, scope, playerID)
	if err != nil {
		return nil, err
	}
	stats, err := s.dues.Stats(ctx, scope, models.DueFilter{PlayerID: playerID})
	if err != nil {
		return nil, err
	}
	attendance, err := s.attendance.Summary(ctx, scope, playerID)
	if err != nil {
		return nil, err
	}
	trainings, err := s.trainings.Upcoming(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.events.Upcoming(ctx)
	if err != nil {
		return nil, err
	}

	dashboard := &PlayerDashboard{
		Player:            *player,
		Dues:              *stats,
		Attendance:        *attendance,
		UpcomingTrainings: trainings,
		UpcomingEvents:    events,
		GeneratedAt:       s.now().UTC(),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, dashboard, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache player dashboard", zap.Error(err))
		}
	}
	return dashboard, nil
}

// Invalidate drops all cached dashboards. Write paths call it after any
// mutation that feeds a summary.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

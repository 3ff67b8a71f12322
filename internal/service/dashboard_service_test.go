package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
	"github.com/clubatlas/club-adm-api/pkg/export"
)

type mockCache struct {
	entries         map[string][]byte
	getErr          error
	setKeys         []string
	deletedPatterns []string
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	data, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = data
	m.setKeys = append(m.setKeys, key)
	return nil
}

func (m *mockCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deletedPatterns = append(m.deletedPatterns, pattern)
	m.entries = make(map[string][]byte)
	return nil
}

func newDashboardFixture(players *mockPlayerRepo, dues *mockDueRepo, cache cacheRepository) *DashboardService {
	attendance := NewAttendanceService(&mockAttendanceRepo{}, &mockTrainingRepo{}, &mockEventRepo{}, players, validator.New(), zap.NewNop())
	trainings := NewTrainingService(&mockTrainingRepo{upcomingResp: []models.TrainingSession{{ID: "t1"}}}, &mockUserRepo{}, validator.New(), zap.NewNop())
	events := NewEventService(&mockEventRepo{upcomingResp: []models.Event{{ID: "e1"}}}, validator.New(), zap.NewNop())
	certificates := NewCertificateService(&mockCertificateRepo{}, players, export.NewPDFExporter("Club Atlas"), 30, validator.New(), zap.NewNop())
	return NewDashboardService(
		NewPlayerService(players, &mockUserRepo{}, validator.New(), zap.NewNop()),
		NewDueService(dues, players, validator.New(), zap.NewNop()),
		attendance,
		trainings,
		events,
		certificates,
		cache,
		time.Minute,
		zap.NewNop(),
	)
}

func TestDashboardServiceAdminSummary(t *testing.T) {
	players := &mockPlayerRepo{listResp: []models.PlayerDetail{
		{PlayerProfile: models.PlayerProfile{ID: "player-1"}},
		{PlayerProfile: models.PlayerProfile{ID: "player-2"}},
	}}
	dues := &mockDueRepo{listResp: []models.DueDetail{
		dueFor("due-1", "3", 2025, models.DueStatusPaid, 100),
	}}
	cache := &mockCache{}
	svc := newDashboardFixture(players, dues, cache)

	dashboard, err := svc.AdminSummary(context.Background(), adminScope())
	require.NoError(t, err)
	assert.Equal(t, 2, dashboard.TotalPlayers)
	assert.Equal(t, 1, dashboard.Dues.Paid)
	assert.Len(t, dashboard.UpcomingTrainings, 1)
	assert.Len(t, dashboard.UpcomingEvents, 1)
	assert.Equal(t, []string{"dashboard:admin"}, cache.setKeys)
}

func TestDashboardServiceAdminSummaryServedFromCache(t *testing.T) {
	players := &mockPlayerRepo{listResp: []models.PlayerDetail{
		{PlayerProfile: models.PlayerProfile{ID: "player-1"}},
	}}
	cache := &mockCache{}
	svc := newDashboardFixture(players, &mockDueRepo{}, cache)

	first, err := svc.AdminSummary(context.Background(), adminScope())
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalPlayers)

	players.listResp = append(players.listResp, models.PlayerDetail{PlayerProfile: models.PlayerProfile{ID: "player-2"}})
	second, err := svc.AdminSummary(context.Background(), adminScope())
	require.NoError(t, err)
	assert.Equal(t, 1, second.TotalPlayers)
}

func TestDashboardServiceAdminSummaryForbidden(t *testing.T) {
	svc := newDashboardFixture(&mockPlayerRepo{}, &mockDueRepo{}, &mockCache{})

	_, err := svc.AdminSummary(context.Background(), playerScope("player-1"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestDashboardServicePlayerSummary(t *testing.T) {
	players := &mockPlayerRepo{players: map[string]*models.PlayerDetail{
		"player-1": {PlayerProfile: models.PlayerProfile{ID: "player-1"}, Nombre: "Lucía"},
	}}
	dues := &mockDueRepo{listResp: []models.DueDetail{
		dueFor("due-1", "4", 2025, models.DueStatusPending, 150),
	}}
	cache := &mockCache{}
	svc := newDashboardFixture(players, dues, cache)

	dashboard, err := svc.PlayerSummary(context.Background(), playerScope("player-1"), "player-1")
	require.NoError(t, err)
	assert.Equal(t, "Lucía", dashboard.Player.Nombre)
	assert.Equal(t, 1, dashboard.Dues.Total)
	assert.Equal(t, []string{"dashboard:player:player-1"}, cache.setKeys)
}

func TestDashboardServicePlayerSummaryForbidden(t *testing.T) {
	svc := newDashboardFixture(&mockPlayerRepo{}, &mockDueRepo{}, &mockCache{})

	_, err := svc.PlayerSummary(context.Background(), playerScope("player-1"), "player-2")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestDashboardServiceInvalidate(t *testing.T) {
	cache := &mockCache{entries: map[string][]byte{"dashboard:admin": []byte("{}")}}
	svc := newDashboardFixture(&mockPlayerRepo{}, &mockDueRepo{}, cache)

	svc.Invalidate(context.Background())
	assert.Equal(t, []string{"dashboard:*"}, cache.deletedPatterns)
	assert.Empty(t, cache.entries)
}

package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clubatlas/club-adm-api/internal/access"
	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
)

type mockGuardianRepo struct {
	guardians map[string]*models.GuardianDetail
	byUser    map[string]*models.GuardianDetail
	listResp  []models.GuardianDetail
	listErr   error
	createErr error
	updated   *models.GuardianProfile
}

func (m *mockGuardianRepo) List(ctx context.Context) ([]models.GuardianDetail, error) {
	return m.listResp, m.listErr
}

func (m *mockGuardianRepo) FindByID(ctx context.Context, id string) (*models.GuardianDetail, error) {
	detail, ok := m.guardians[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return detail, nil
}

func (m *mockGuardianRepo) FindByUserID(ctx context.Context, userID string) (*models.GuardianDetail, error) {
	detail, ok := m.byUser[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return detail, nil
}

func (m *mockGuardianRepo) CreateWithUser(ctx context.Context, user *models.User, profile *models.GuardianProfile) error {
	if m.createErr != nil {
		return m.createErr
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	profile.UserID = user.ID
	if m.guardians == nil {
		m.guardians = make(map[string]*models.GuardianDetail)
	}
	m.guardians[profile.ID] = &models.GuardianDetail{
		GuardianProfile: *profile,
		Nombre:          user.Nombre,
		Apellido:        user.Apellido,
		Email:           user.Email,
	}
	return nil
}

func (m *mockGuardianRepo) Update(ctx context.Context, profile *models.GuardianProfile) error {
	m.updated = profile
	m.guardians[profile.ID] = &models.GuardianDetail{GuardianProfile: *profile}
	return nil
}

func TestGuardianServiceRegister(t *testing.T) {
	repo := &mockGuardianRepo{}
	players := &mockPlayerRepo{players: map[string]*models.PlayerDetail{
		testPlayerID: {PlayerProfile: models.PlayerProfile{ID: testPlayerID}},
	}}
	svc := NewGuardianService(repo, players, &mockUserRepo{}, validator.New(), zap.NewNop())

	detail, err := svc.Register(context.Background(), RegisterGuardianRequest{
		Email:      "tutor@club.test",
		Password:   "secret123",
		Nombre:     "Marta",
		Apellido:   "Pérez",
		Parentesco: "Madre",
		PlayerID:   testPlayerID,
	})
	require.NoError(t, err)
	assert.Equal(t, testPlayerID, detail.PlayerID)
	assert.Equal(t, "Madre", detail.Parentesco)
}

func TestGuardianServiceRegisterUnknownPlayer(t *testing.T) {
	repo := &mockGuardianRepo{}
	svc := NewGuardianService(repo, &mockPlayerRepo{}, &mockUserRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterGuardianRequest{
		Email:      "tutor@club.test",
		Password:   "secret123",
		Nombre:     "Marta",
		Apellido:   "Pérez",
		Parentesco: "Madre",
		PlayerID:   testPlayerID,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Empty(t, repo.guardians)
}

func TestGuardianServiceGetSelfOnly(t *testing.T) {
	repo := &mockGuardianRepo{guardians: map[string]*models.GuardianDetail{
		"g1": {GuardianProfile: models.GuardianProfile{ID: "g1", UserID: "user-1", PlayerID: testPlayerID}},
	}}
	svc := NewGuardianService(repo, &mockPlayerRepo{}, &mockUserRepo{}, validator.New(), zap.NewNop())

	own := access.Scope{Role: models.RoleGuardian, UserID: "user-1", PlayerID: testPlayerID}
	detail, err := svc.Get(context.Background(), own, "g1")
	require.NoError(t, err)
	assert.Equal(t, "g1", detail.ID)

	other := access.Scope{Role: models.RoleGuardian, UserID: "user-2"}
	_, err = svc.Get(context.Background(), other, "g1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestGuardianServiceUpdateRetargetsPlayer(t *testing.T) {
	repo := &mockGuardianRepo{guardians: map[string]*models.GuardianDetail{
		"g1": {GuardianProfile: models.GuardianProfile{ID: "g1", UserID: "user-1", PlayerID: testPlayerID, Parentesco: "Madre"}},
	}}
	newPlayerID := "66666666-6666-6666-6666-666666666666"
	players := &mockPlayerRepo{players: map[string]*models.PlayerDetail{
		newPlayerID: {PlayerProfile: models.PlayerProfile{ID: newPlayerID}},
	}}
	svc := NewGuardianService(repo, players, &mockUserRepo{}, validator.New(), zap.NewNop())

	detail, err := svc.Update(context.Background(), "g1", UpdateGuardianRequest{
		Parentesco: "Padre",
		PlayerID:   newPlayerID,
	})
	require.NoError(t, err)
	assert.Equal(t, newPlayerID, detail.PlayerID)
	assert.Equal(t, "Padre", detail.Parentesco)
}

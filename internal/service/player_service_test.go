package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clubatlas/club-adm-api/internal/access"
	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
)

type mockPlayerRepo struct {
	players        map[string]*models.PlayerDetail
	byUser         map[string]*models.PlayerDetail
	listResp       []models.PlayerDetail
	listErr        error
	documentoTaken bool
	createErr      error
	updateErr      error
	updated        *models.PlayerProfile
	lastFilter     models.PlayerFilter
}

func (m *mockPlayerRepo) List(ctx context.Context, filter models.PlayerFilter) ([]models.PlayerDetail, error) {
	m.lastFilter = filter
	return m.listResp, m.listErr
}

func (m *mockPlayerRepo) FindByID(ctx context.Context, id string) (*models.PlayerDetail, error) {
	detail, ok := m.players[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return detail, nil
}

func (m *mockPlayerRepo) FindByUserID(ctx context.Context, userID string) (*models.PlayerDetail, error) {
	detail, ok := m.byUser[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return detail, nil
}

func (m *mockPlayerRepo) ExistsByDocumento(ctx context.Context, documento string, excludeID string) (bool, error) {
	return m.documentoTaken, nil
}

func (m *mockPlayerRepo) CreateWithUser(ctx context.Context, user *models.User, profile *models.PlayerProfile) error {
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
	if m.players == nil {
		m.players = make(map[string]*models.PlayerDetail)
	}
	m.players[profile.ID] = &models.PlayerDetail{
		PlayerProfile: *profile,
		Nombre:        user.Nombre,
		Apellido:      user.Apellido,
		Email:         user.Email,
		Telefono:      user.Telefono,
		Active:        user.Active,
	}
	return nil
}

func (m *mockPlayerRepo) Update(ctx context.Context, profile *models.PlayerProfile) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = profile
	return nil
}

func adminScope() access.Scope {
	return access.Scope{Role: models.RoleAdmin, UserID: "admin-1", ViewAll: true}
}

func playerScope(playerID string) access.Scope {
	return access.Scope{Role: models.RolePlayer, UserID: "user-" + playerID, PlayerID: playerID}
}

func TestPlayerServiceRegister(t *testing.T) {
	repo := &mockPlayerRepo{}
	users := &mockUserRepo{}
	svc := NewPlayerService(repo, users, validator.New(), zap.NewNop())

	detail, err := svc.Register(context.Background(), RegisterPlayerRequest{
		Email:           "Lucia@Club.Test",
		Password:        "secret123",
		Nombre:          "Lucía",
		Apellido:        "Pérez",
		Documento:       "12345678",
		FechaNacimiento: "2010-03-01",
		Categoria:       "Sub-15",
		Posicion:        "Delantero",
	})
	require.NoError(t, err)
	assert.Equal(t, "lucia@club.test", detail.Email)
	assert.Equal(t, "Sub-15", detail.Categoria)
	assert.NotEmpty(t, detail.ID)
	assert.Equal(t, time.Date(2010, 3, 1, 0, 0, 0, 0, time.UTC), detail.FechaNacimiento)
}

func TestPlayerServiceRegisterDuplicateEmail(t *testing.T) {
	repo := &mockPlayerRepo{}
	users := &mockUserRepo{byEmail: map[string]*models.User{
		"lucia@club.test": {ID: "u1", Email: "lucia@club.test"},
	}}
	svc := NewPlayerService(repo, users, validator.New(), zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterPlayerRequest{
		Email:           "lucia@club.test",
		Password:        "secret123",
		Nombre:          "Lucía",
		Apellido:        "Pérez",
		Documento:       "12345678",
		FechaNacimiento: "2010-03-01",
		Categoria:       "Sub-15",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Empty(t, repo.players)
}

func TestPlayerServiceRegisterDuplicateDocumento(t *testing.T) {
	repo := &mockPlayerRepo{documentoTaken: true}
	svc := NewPlayerService(repo, &mockUserRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Register(context.Background(), RegisterPlayerRequest{
		Email:           "lucia@club.test",
		Password:        "secret123",
		Nombre:          "Lucía",
		Apellido:        "Pérez",
		Documento:       "12345678",
		FechaNacimiento: "2010-03-01",
		Categoria:       "Sub-15",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestPlayerServiceListCollapsesToOwnPlayer(t *testing.T) {
	repo := &mockPlayerRepo{players: map[string]*models.PlayerDetail{
		"player-1": {PlayerProfile: models.PlayerProfile{ID: "player-1"}, Nombre: "Lucía"},
	}}
	svc := NewPlayerService(repo, &mockUserRepo{}, validator.New(), zap.NewNop())

	players, err := svc.List(context.Background(), playerScope("player-1"), models.PlayerFilter{})
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "player-1", players[0].ID)
}

func TestPlayerServiceGetForbidden(t *testing.T) {
	repo := &mockPlayerRepo{players: map[string]*models.PlayerDetail{
		"player-2": {PlayerProfile: models.PlayerProfile{ID: "player-2"}},
	}}
	svc := NewPlayerService(repo, &mockUserRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Get(context.Background(), playerScope("player-1"), "player-2")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestPlayerServiceUpdate(t *testing.T) {
	repo := &mockPlayerRepo{players: map[string]*models.PlayerDetail{
		"player-1": {PlayerProfile: models.PlayerProfile{ID: "player-1", Documento: "12345678", Categoria: "Sub-15"}},
	}}
	svc := NewPlayerService(repo, &mockUserRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), adminScope(), "player-1", UpdatePlayerRequest{
		Documento:       "87654321",
		FechaNacimiento: "2010-03-01",
		Categoria:       "Sub-17",
		Posicion:        "Arquero",
	})
	require.NoError(t, err)
	require.NotNil(t, repo.updated)
	assert.Equal(t, "87654321", repo.updated.Documento)
	assert.Equal(t, "Sub-17", repo.updated.Categoria)
}

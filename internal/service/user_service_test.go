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

	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
)

type mockUserRepo struct {
	users      map[string]*models.User
	byEmail    map[string]*models.User
	listResp   []models.User
	listErr    error
	createErr  error
	updateErr  error
	deleteErr  error
	auditLogs  []*models.AuditLog
	deletedIDs []string
	lastFilter models.UserFilter
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	m.lastFilter = filter
	return m.listResp, m.listErr
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func (m *mockUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func TestUserServiceCreate(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Email:    "Coach@Club.Test",
		Password: "secret123",
		Nombre:   "Diego",
		Apellido: "Martín",
		Role:     models.RoleCoach,
		Active:   true,
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "coach@club.test", user.Email)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionUserCreate, repo.auditLogs[0].Action)
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{byEmail: map[string]*models.User{
		"coach@club.test": {ID: "u1", Email: "coach@club.test"},
	}}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Email:    "coach@club.test",
		Password: "secret123",
		Nombre:   "Diego",
		Apellido: "Martín",
		Role:     models.RoleCoach,
	}, "admin-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestUserServiceCreateInvalidRole(t *testing.T) {
	repo := &mockUserRepo{}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Email:    "coach@club.test",
		Password: "secret123",
		Nombre:   "Diego",
		Apellido: "Martín",
		Role:     "SUPERUSER",
	}, "admin-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Empty(t, repo.users)
}

func TestUserServiceUpdateNotFound(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{}}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), "missing", UpdateUserRequest{
		Nombre:   "Diego",
		Apellido: "Martín",
		Role:     models.RoleCoach,
	}, "admin-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestUserServiceDelete(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "coach@club.test"},
	}}
	svc := NewUserService(repo, validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "u1", "admin-1"))
	assert.Equal(t, []string{"u1"}, repo.deletedIDs)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionUserDelete, repo.auditLogs[0].Action)
}

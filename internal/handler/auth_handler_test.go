package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/clubatlas/club-adm-api/internal/models"
	"github.com/clubatlas/club-adm-api/internal/service"
)

// authRepoStub backs both the auth and the user service in handler tests.
type authRepoStub struct {
	users     map[string]*models.User
	tokens    map[string]*models.RefreshToken
	auditLogs []models.AuditLog
}

func newAuthRepoStub() *authRepoStub {
	return &authRepoStub{
		users:  make(map[string]*models.User),
		tokens: make(map[string]*models.RefreshToken),
	}
}

func (m *authRepoStub) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	return nil, nil
}

func (m *authRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *authRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *authRepoStub) Create(ctx context.Context, user *models.User) error {
	m.users[user.Email] = user
	return nil
}

func (m *authRepoStub) Update(ctx context.Context, user *models.User) error {
	m.users[user.Email] = user
	return nil
}

func (m *authRepoStub) Delete(ctx context.Context, id string) error { return nil }

func (m *authRepoStub) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (m *authRepoStub) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	return nil
}

func (m *authRepoStub) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	return nil
}

func (m *authRepoStub) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *authRepoStub) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	stored, ok := m.tokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return stored, nil
}

func (m *authRepoStub) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	return nil
}

func (m *authRepoStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, *log)
	return nil
}

func newAuthHandlerFixture(t *testing.T) (*AuthHandler, *authRepoStub) {
	t.Helper()
	repo := newAuthRepoStub()
	authSvc := service.NewAuthService(repo, nil, nil, service.AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
	})
	userSvc := service.NewUserService(repo, nil, nil)
	return NewAuthHandler(authSvc, userSvc), repo
}

func seedUser(t *testing.T, repo *authRepoStub, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		ID:           "user-1",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Active:       true,
	}
	repo.users[email] = user
	return user
}

func TestAuthHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newAuthHandlerFixture(t)
	seedUser(t, repo, "admin@club.test", "secret123")

	body, _ := json.Marshal(map[string]string{"email": "admin@club.test", "password": "secret123"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Login(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.RefreshToken)
	assert.Equal(t, "admin@club.test", envelope.Data.User.Email)
}

func TestAuthHandlerLoginWrongPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newAuthHandlerFixture(t)
	seedUser(t, repo, "admin@club.test", "secret123")

	body, _ := json.Marshal(map[string]string{"email": "admin@club.test", "password": "nope"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Login(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerLoginInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newAuthHandlerFixture(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Login(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

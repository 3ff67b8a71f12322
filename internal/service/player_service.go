package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/clubatlas/club-adm-api/internal/access"
	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
)

type playerRepository interface {
	List(ctx context.Context, filter models.PlayerFilter) ([]models.PlayerDetail, error)
	FindByID(ctx context.Context, id string) (*models.PlayerDetail, error)
	FindByUserID(ctx context.Context, userID string) (*models.PlayerDetail, error)
	ExistsByDocumento(ctx context.Context, documento string, excludeID string) (bool, error)
	CreateWithUser(ctx context.Context, user *models.User, profile *models.PlayerProfile) error
	Update(ctx context.Context, profile *models.PlayerProfile) error
}

// PlayerService implements player roster use cases.
type PlayerService struct {
	repo      playerRepository
	users     userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPlayerService constructs a PlayerService.
func NewPlayerService(repo playerRepository, users userRepository, validate *validator.Validate, logger *zap.Logger) *PlayerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlayerService{repo: repo, users: users, validator: validate, logger: logger}
}

// RegisterPlayerRequest creates the user account and its profile together.
type RegisterPlayerRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	Nombre          string `json:"nombre" validate:"required"`
	Apellido        string `json:"apellido" validate:"required"`
	Telefono        string `json:"telefono"`
	Documento       string `json:"documento" validate:"required"`
	FechaNacimiento string `json:"fecha_nacimiento" validate:"required"`
	Categoria       string `json:"categoria" validate:"required"`
	Posicion        string `json:"posicion"`
}

// UpdatePlayerRequest carries the mutable profile fields.
type UpdatePlayerRequest struct {
	Documento       string `json:"documento" validate:"required"`
	FechaNacimiento string `json:"fecha_nacimiento" validate:"required"`
	Categoria       string `json:"categoria" validate:"required"`
	Posicion        string `json:"posicion"`
}

// List returns players visible to the scope. Non-viewAll scopes collapse to
// their single player.
func (s *PlayerService) List(ctx context.Context, scope access.Scope, filter models.PlayerFilter) ([]models.PlayerDetail, error) {
	if !scope.ViewAll {
		detail, err := s.Get(ctx, scope, scope.PlayerID)
		if err != nil {
			return nil, err
		}
		return []models.PlayerDetail{*detail}, nil
	}

	players, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list players")
	}
	return players, nil
}

// Get returns a single player, enforcing the scope.
func (s *PlayerService) Get(ctx context.Context, scope access.Scope, id string) (*models.PlayerDetail, error) {
	if !scope.AllowsPlayer(id) {
		return nil, appErrors.ErrForbidden
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "player not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load player")
	}
	return detail, nil
}

// Register creates the user account and player profile atomically.
func (s *PlayerService) Register(ctx context.Context, req RegisterPlayerRequest) (*models.PlayerDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid player payload")
	}

	birthDate, err := time.Parse("2006-01-02", req.FechaNacimiento)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid fecha_nacimiento, expected YYYY-MM-DD")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}

	taken, err := s.repo.ExistsByDocumento(ctx, req.Documento, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check documento")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "documento already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Nombre:       req.Nombre,
		Apellido:     req.Apellido,
		Telefono:     req.Telefono,
		Role:         models.RolePlayer,
		Active:       true,
	}
	profile := &models.PlayerProfile{
		Documento:       req.Documento,
		FechaNacimiento: birthDate,
		Categoria:       req.Categoria,
		Posicion:        req.Posicion,
	}

	if err := s.repo.CreateWithUser(ctx, user, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register player")
	}

	return s.repo.FindByID(ctx, profile.ID)
}

// Update modifies a player profile, enforcing the scope.
func (s *PlayerService) Update(ctx context.Context, scope access.Scope, id string, req UpdatePlayerRequest) (*models.PlayerDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid player payload")
	}
	if !scope.AllowsPlayer(id) {
		return nil, appErrors.ErrForbidden
	}

	birthDate, err := time.Parse("2006-01-02", req.FechaNacimiento)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid fecha_nacimiento, expected YYYY-MM-DD")
	}

	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "player not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load player")
	}

	taken, err := s.repo.ExistsByDocumento(ctx, req.Documento, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check documento")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "documento already registered")
	}

	profile := detail.PlayerProfile
	profile.Documento = req.Documento
	profile.FechaNacimiento = birthDate
	profile.Categoria = req.Categoria
	profile.Posicion = req.Posicion

	if err := s.repo.Update(ctx, &profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update player")
	}

	return s.repo.FindByID(ctx, id)
}

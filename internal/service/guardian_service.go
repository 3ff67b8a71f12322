package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/clubatlas/club-adm-api/internal/access"
	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
)

type guardianRepository interface {
	List(ctx context.Context) ([]models.GuardianDetail, error)
	FindByID(ctx context.Context, id string) (*models.GuardianDetail, error)
	FindByUserID(ctx context.Context, userID string) (*models.GuardianDetail, error)
	CreateWithUser(ctx context.Context, user *models.User, profile *models.GuardianProfile) error
	Update(ctx context.Context, profile *models.GuardianProfile) error
}

// GuardianService implements guardian management use cases.
type GuardianService struct {
	repo      guardianRepository
	players   playerRepository
	users     userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGuardianService constructs a GuardianService.
func NewGuardianService(repo guardianRepository, players playerRepository, users userRepository, validate *validator.Validate, logger *zap.Logger) *GuardianService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GuardianService{repo: repo, players: players, users: users, validator: validate, logger: logger}
}

// RegisterGuardianRequest creates the user account and its guardian profile
// linked to an existing player.
type RegisterGuardianRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Nombre     string `json:"nombre" validate:"required"`
	Apellido   string `json:"apellido" validate:"required"`
	Telefono   string `json:"telefono"`
	Parentesco string `json:"parentesco" validate:"required"`
	PlayerID   string `json:"player_id" validate:"required,uuid"`
}

// UpdateGuardianRequest carries the mutable guardian fields.
type UpdateGuardianRequest struct {
	Parentesco string `json:"parentesco" validate:"required"`
	PlayerID   string `json:"player_id" validate:"required,uuid"`
}

// List returns registered guardians.
func (s *GuardianService) List(ctx context.Context) ([]models.GuardianDetail, error) {
	guardians, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list guardians")
	}
	return guardians, nil
}

// Get returns a guardian by ID. Guardian principals may only see themselves.
func (s *GuardianService) Get(ctx context.Context, scope access.Scope, id string) (*models.GuardianDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "guardian not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load guardian")
	}
	if !scope.ViewAll && detail.UserID != scope.UserID {
		return nil, appErrors.ErrForbidden
	}
	return detail, nil
}

// Register creates the user account and guardian profile atomically. The
// tutored player must already exist.
func (s *GuardianService) Register(ctx context.Context, req RegisterGuardianRequest) (*models.GuardianDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid guardian payload")
	}

	if _, err := s.players.FindByID(ctx, req.PlayerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tutored player not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load player")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
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
		Role:         models.RoleGuardian,
		Active:       true,
	}
	profile := &models.GuardianProfile{
		Parentesco: req.Parentesco,
		PlayerID:   req.PlayerID,
	}

	if err := s.repo.CreateWithUser(ctx, user, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register guardian")
	}

	return s.repo.FindByID(ctx, profile.ID)
}

// Update modifies a guardian profile.
func (s *GuardianService) Update(ctx context.Context, id string, req UpdateGuardianRequest) (*models.GuardianDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid guardian payload")
	}

	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "guardian not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load guardian")
	}

	if _, err := s.players.FindByID(ctx, req.PlayerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tutored player not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load player")
	}

	profile := detail.GuardianProfile
	profile.Parentesco = req.Parentesco
	profile.PlayerID = req.PlayerID

	if err := s.repo.Update(ctx, &profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update guardian")
	}

	return s.repo.FindByID(ctx, id)
}

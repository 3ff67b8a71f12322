package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clubatlas/club-adm-api/internal/models"
)

const guardianDetailColumns = `g.id, g.user_id, g.parentesco, g.player_id, g.created_at, g.updated_at,
        u.nombre, u.apellido, u.email, u.telefono,
        pu.nombre AS player_nombre, pu.apellido AS player_apellido`

const guardianDetailBase = `FROM guardian_profiles g
        JOIN users u ON u.id = g.user_id
        JOIN player_profiles p ON p.id = g.player_id
        JOIN users pu ON pu.id = p.user_id`

// GuardianRepository manages persistence for guardian profiles.
type GuardianRepository struct {
	db *sqlx.DB
}

// NewGuardianRepository constructs a GuardianRepository.
func NewGuardianRepository(db *sqlx.DB) *GuardianRepository {
	return &GuardianRepository{db: db}
}

// List returns every guardian joined with its user and tutored player.
func (r *GuardianRepository) List(ctx context.Context) ([]models.GuardianDetail, error) {
	query := fmt.Sprintf("SELECT %s %s ORDER BY u.apellido ASC", guardianDetailColumns, guardianDetailBase)
	var guardians []models.GuardianDetail
	if err := r.db.SelectContext(ctx, &guardians, query); err != nil {
		return nil, fmt.Errorf("list guardians: %w", err)
	}
	return guardians, nil
}

// FindByID fetches a guardian detail by profile ID.
func (r *GuardianRepository) FindByID(ctx context.Context, id string) (*models.GuardianDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE g.id = $1", guardianDetailColumns, guardianDetailBase)
	var detail models.GuardianDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindByUserID fetches the guardian profile owned by a user account.
func (r *GuardianRepository) FindByUserID(ctx context.Context, userID string) (*models.GuardianDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE g.user_id = $1", guardianDetailColumns, guardianDetailBase)
	var detail models.GuardianDetail
	if err := r.db.GetContext(ctx, &detail, query, userID); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreateWithUser inserts the user account and its guardian profile in one
// transaction.
func (r *GuardianRepository) CreateWithUser(ctx context.Context, user *models.User, profile *models.GuardianProfile) error {
	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	profile.UserID = user.ID
	profile.CreatedAt = now
	profile.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin register guardian: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const userQuery = `INSERT INTO users (id, email, password_hash, nombre, apellido, telefono, role, active, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :nombre, :apellido, :telefono, :role, :active, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, userQuery, user); err != nil {
		return fmt.Errorf("create guardian user: %w", err)
	}

	const profileQuery = `INSERT INTO guardian_profiles (id, user_id, parentesco, player_id, created_at, updated_at)
        VALUES (:id, :user_id, :parentesco, :player_id, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, profileQuery, profile); err != nil {
		return fmt.Errorf("create guardian profile: %w", err)
	}

	return tx.Commit()
}

// Update modifies the mutable fields of a guardian profile.
func (r *GuardianRepository) Update(ctx context.Context, profile *models.GuardianProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	const query = `UPDATE guardian_profiles SET parentesco = :parentesco, player_id = :player_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("update guardian profile: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clubatlas/club-adm-api/internal/models"
)

const playerDetailColumns = `p.id, p.user_id, p.documento, p.fecha_nacimiento, p.categoria, p.posicion, p.created_at, p.updated_at,
        u.nombre, u.apellido, u.email, u.telefono, u.active`

// PlayerRepository manages persistence for player profiles.
type PlayerRepository struct {
	db *sqlx.DB
}

// NewPlayerRepository constructs a PlayerRepository.
func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// List returns player details matching the provided filters.
func (r *PlayerRepository) List(ctx context.Context, filter models.PlayerFilter) ([]models.PlayerDetail, error) {
	base := "FROM player_profiles p JOIN users u ON u.id = p.user_id"
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Categoria != "" {
		conditions = append(conditions, fmt.Sprintf("p.categoria = $%d", len(args)+1))
		args = append(args, filter.Categoria)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("u.active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(u.nombre) LIKE $%d OR LOWER(u.apellido) LIKE $%d OR LOWER(p.documento) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"apellido":   "u.apellido",
		"categoria":  "p.categoria",
		"created_at": "p.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "u.apellido"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s", playerDetailColumns, base, column, order)

	var players []models.PlayerDetail
	if err := r.db.SelectContext(ctx, &players, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

// FindByID fetches a player detail by profile ID.
func (r *PlayerRepository) FindByID(ctx context.Context, id string) (*models.PlayerDetail, error) {
	query := fmt.Sprintf("SELECT %s FROM player_profiles p JOIN users u ON u.id = p.user_id WHERE p.id = $1", playerDetailColumns)
	var detail models.PlayerDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindByUserID fetches the profile owned by a user account.
func (r *PlayerRepository) FindByUserID(ctx context.Context, userID string) (*models.PlayerDetail, error) {
	query := fmt.Sprintf("SELECT %s FROM player_profiles p JOIN users u ON u.id = p.user_id WHERE p.user_id = $1", playerDetailColumns)
	var detail models.PlayerDetail
	if err := r.db.GetContext(ctx, &detail, query, userID); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsByDocumento checks whether a profile with the national ID exists,
// optionally excluding one profile.
func (r *PlayerRepository) ExistsByDocumento(ctx context.Context, documento string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM player_profiles WHERE documento = $1"
	args := []interface{}{documento}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check documento: %w", err)
	}
	return true, nil
}

// CreateWithUser inserts the user account and its player profile in one
// transaction so registration never leaves a half-created player.
func (r *PlayerRepository) CreateWithUser(ctx context.Context, user *models.User, profile *models.PlayerProfile) error {
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
		return fmt.Errorf("begin register player: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const userQuery = `INSERT INTO users (id, email, password_hash, nombre, apellido, telefono, role, active, created_at, updated_at)
        VALUES (:id, :email, :password_hash, :nombre, :apellido, :telefono, :role, :active, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, userQuery, user); err != nil {
		return fmt.Errorf("create player user: %w", err)
	}

	const profileQuery = `INSERT INTO player_profiles (id, user_id, documento, fecha_nacimiento, categoria, posicion, created_at, updated_at)
        VALUES (:id, :user_id, :documento, :fecha_nacimiento, :categoria, :posicion, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, profileQuery, profile); err != nil {
		return fmt.Errorf("create player profile: %w", err)
	}

	return tx.Commit()
}

// Update modifies the mutable fields of a player profile.
func (r *PlayerRepository) Update(ctx context.Context, profile *models.PlayerProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	const query = `UPDATE player_profiles SET documento = :documento, fecha_nacimiento = :fecha_nacimiento, categoria = :categoria, posicion = :posicion, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("update player profile: %w", err)
	}
	return nil
}

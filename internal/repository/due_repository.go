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

const dueDetailColumns = `m.id, m.player_id, m.monto, m.fecha_vencimiento, m.fecha_pago, m.metodo_pago, m.estado_pago, m.mes_referencia, m.anio_referencia, m.created_at, m.updated_at,
        u.nombre AS player_nombre, u.apellido AS player_apellido`

const dueDetailBase = `FROM mensualidades m
        JOIN player_profiles p ON p.id = m.player_id
        JOIN users u ON u.id = p.user_id`

// DueRepository manages persistence for monthly dues.
type DueRepository struct {
	db *sqlx.DB
}

// NewDueRepository constructs a DueRepository.
func NewDueRepository(db *sqlx.DB) *DueRepository {
	return &DueRepository{db: db}
}

// List returns dues matching the provided filters.
func (r *DueRepository) List(ctx context.Context, filter models.DueFilter) ([]models.DueDetail, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.PlayerID != "" {
		conditions = append(conditions, fmt.Sprintf("m.player_id = $%d", len(args)+1))
		args = append(args, filter.PlayerID)
	}
	if filter.EstadoPago != nil {
		conditions = append(conditions, fmt.Sprintf("m.estado_pago = $%d", len(args)+1))
		args = append(args, *filter.EstadoPago)
	}
	if filter.AnioReferencia > 0 {
		conditions = append(conditions, fmt.Sprintf("m.anio_referencia = $%d", len(args)+1))
		args = append(args, filter.AnioReferencia)
	}

	allowedSorts := map[string]string{
		"fecha_vencimiento": "m.fecha_vencimiento",
		"monto":             "m.monto",
		"created_at":        "m.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "m.anio_referencia, m.mes_referencia"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY %s %s", dueDetailColumns, dueDetailBase, strings.Join(conditions, " AND "), column, order)

	var dues []models.DueDetail
	if err := r.db.SelectContext(ctx, &dues, query, args...); err != nil {
		return nil, fmt.Errorf("list dues: %w", err)
	}
	return dues, nil
}

// ListPending returns all unpaid dues, oldest first. The month is stored as
// a string, so it is cast for ordering rather than sorted lexicographically.
func (r *DueRepository) ListPending(ctx context.Context) ([]models.DueDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE m.estado_pago = $1 ORDER BY m.anio_referencia ASC, m.mes_referencia::int ASC", dueDetailColumns, dueDetailBase)
	var dues []models.DueDetail
	if err := r.db.SelectContext(ctx, &dues, query, models.DueStatusPending); err != nil {
		return nil, fmt.Errorf("list pending dues: %w", err)
	}
	return dues, nil
}

// FindByID fetches a due by identifier.
func (r *DueRepository) FindByID(ctx context.Context, id string) (*models.DueDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE m.id = $1", dueDetailColumns, dueDetailBase)
	var due models.DueDetail
	if err := r.db.GetContext(ctx, &due, query, id); err != nil {
		return nil, err
	}
	return &due, nil
}

// ExistsForPeriod reports whether a due already exists for the player's
// reference month and year. The uniqueness invariant lives here, checked
// before insert rather than relying on a database constraint.
func (r *DueRepository) ExistsForPeriod(ctx context.Context, playerID, mes string, anio int) (bool, error) {
	const query = `SELECT 1 FROM mensualidades WHERE player_id = $1 AND mes_referencia = $2 AND anio_referencia = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, playerID, mes, anio); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check due period: %w", err)
	}
	return true, nil
}

// Create inserts a new due.
func (r *DueRepository) Create(ctx context.Context, due *models.Due) error {
	if due.ID == "" {
		due.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	due.CreatedAt = now
	due.UpdatedAt = now
	const query = `INSERT INTO mensualidades (id, player_id, monto, fecha_vencimiento, fecha_pago, metodo_pago, estado_pago, mes_referencia, anio_referencia, created_at, updated_at)
        VALUES (:id, :player_id, :monto, :fecha_vencimiento, :fecha_pago, :metodo_pago, :estado_pago, :mes_referencia, :anio_referencia, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, due); err != nil {
		return fmt.Errorf("create due: %w", err)
	}
	return nil
}

// Update modifies the mutable fields of a due.
func (r *DueRepository) Update(ctx context.Context, due *models.Due) error {
	due.UpdatedAt = time.Now().UTC()
	const query = `UPDATE mensualidades SET monto = :monto, fecha_vencimiento = :fecha_vencimiento, fecha_pago = :fecha_pago, metodo_pago = :metodo_pago, estado_pago = :estado_pago, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, due); err != nil {
		return fmt.Errorf("update due: %w", err)
	}
	return nil
}

// Delete removes a due.
func (r *DueRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM mensualidades WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete due: %w", err)
	}
	return nil
}

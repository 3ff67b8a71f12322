package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clubatlas/club-adm-api/internal/models"
)

const paymentDetailColumns = `pg.id, pg.mensualidad_id, pg.player_id, pg.monto, pg.fecha_pago, pg.metodo_pago, pg.estado, pg.notas, pg.created_at,
        u.nombre AS player_nombre, u.apellido AS player_apellido`

const paymentDetailBase = `FROM pagos pg
        JOIN player_profiles p ON p.id = pg.player_id
        JOIN users u ON u.id = p.user_id`

// PaymentRepository manages persistence for settlement records.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// List returns payments matching the provided filters.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.PlayerID != "" {
		conditions = append(conditions, fmt.Sprintf("pg.player_id = $%d", len(args)+1))
		args = append(args, filter.PlayerID)
	}
	if filter.Metodo != "" {
		conditions = append(conditions, fmt.Sprintf("pg.metodo_pago = $%d", len(args)+1))
		args = append(args, filter.Metodo)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("pg.fecha_pago >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("pg.fecha_pago <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	allowedSorts := map[string]string{
		"fecha_pago": "pg.fecha_pago",
		"monto":      "pg.monto",
		"created_at": "pg.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "pg.fecha_pago"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY %s %s", paymentDetailColumns, paymentDetailBase, strings.Join(conditions, " AND "), column, order)

	var payments []models.PaymentDetail
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// FindByID fetches a payment by identifier.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.PaymentDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE pg.id = $1", paymentDetailColumns, paymentDetailBase)
	var payment models.PaymentDetail
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}
	return &payment, nil
}

// Create inserts a payment and, when it settles a due, marks the due paid in
// the same transaction so the two rows never disagree.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create payment: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertQuery = `INSERT INTO pagos (id, mensualidad_id, player_id, monto, fecha_pago, metodo_pago, estado, notas, created_at)
        VALUES (:id, :mensualidad_id, :player_id, :monto, :fecha_pago, :metodo_pago, :estado, :notas, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insertQuery, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}

	if payment.DueID != nil {
		const settleQuery = `UPDATE mensualidades SET estado_pago = $2, fecha_pago = $3, metodo_pago = $4, updated_at = $5 WHERE id = $1`
		if _, err := tx.ExecContext(ctx, settleQuery, *payment.DueID, models.DueStatusPaid, payment.FechaPago, payment.MetodoPago, time.Now().UTC()); err != nil {
			return fmt.Errorf("settle due: %w", err)
		}
	}

	return tx.Commit()
}

// Delete removes a payment and resets its linked due back to pending with a
// cleared payment date, in one transaction.
func (r *PaymentRepository) Delete(ctx context.Context, payment *models.Payment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete payment: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const deleteQuery = `DELETE FROM pagos WHERE id = $1`
	if _, err := tx.ExecContext(ctx, deleteQuery, payment.ID); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}

	if payment.DueID != nil {
		const resetQuery = `UPDATE mensualidades SET estado_pago = $2, fecha_pago = NULL, metodo_pago = NULL, updated_at = $3 WHERE id = $1`
		if _, err := tx.ExecContext(ctx, resetQuery, *payment.DueID, models.DueStatusPending, time.Now().UTC()); err != nil {
			return fmt.Errorf("reset due: %w", err)
		}
	}

	return tx.Commit()
}

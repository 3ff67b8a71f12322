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

const attendanceDetailColumns = `a.id, a.player_id, a.estado, a.fecha, a.entrenamiento_id, a.evento_id, a.created_at, a.updated_at,
        u.nombre AS player_nombre, u.apellido AS player_apellido, e.categoria`

const attendanceDetailBase = `FROM asistencias a
        JOIN player_profiles p ON p.id = a.player_id
        JOIN users u ON u.id = p.user_id
        LEFT JOIN eventos e ON e.id = a.evento_id`

// AttendanceRepository manages persistence for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// List returns attendance details matching the provided filters.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.PlayerID != "" {
		conditions = append(conditions, fmt.Sprintf("a.player_id = $%d", len(args)+1))
		args = append(args, filter.PlayerID)
	}
	if filter.EntrenamientoID != "" {
		conditions = append(conditions, fmt.Sprintf("a.entrenamiento_id = $%d", len(args)+1))
		args = append(args, filter.EntrenamientoID)
	}
	if filter.EventoID != "" {
		conditions = append(conditions, fmt.Sprintf("a.evento_id = $%d", len(args)+1))
		args = append(args, filter.EventoID)
	}
	if filter.Estado != nil {
		conditions = append(conditions, fmt.Sprintf("a.estado = $%d", len(args)+1))
		args = append(args, *filter.Estado)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("a.fecha >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("a.fecha <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	allowedSorts := map[string]string{
		"fecha":      "a.fecha",
		"created_at": "a.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "a.fecha"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY %s %s", attendanceDetailColumns, attendanceDetailBase, strings.Join(conditions, " AND "), column, order)

	var records []models.AttendanceDetail
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// FindByID fetches an attendance detail by identifier.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.AttendanceDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE a.id = $1", attendanceDetailColumns, attendanceDetailBase)
	var record models.AttendanceDetail
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert inserts or replaces the player's record for the session. The
// (player, session) pair is the natural key, backed by one partial unique
// index per session kind since the other session column is always NULL.
// The conflict target must name the matching partial index, so the query is
// chosen per record. RETURNING surfaces the surviving row's id on overwrite.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	const trainingQuery = `INSERT INTO asistencias (id, player_id, estado, fecha, entrenamiento_id, evento_id, created_at, updated_at)
        VALUES (:id, :player_id, :estado, :fecha, :entrenamiento_id, :evento_id, :created_at, :updated_at)
        ON CONFLICT (player_id, entrenamiento_id) WHERE entrenamiento_id IS NOT NULL
        DO UPDATE SET estado = EXCLUDED.estado, fecha = EXCLUDED.fecha, updated_at = EXCLUDED.updated_at
        RETURNING id`
	const eventQuery = `INSERT INTO asistencias (id, player_id, estado, fecha, entrenamiento_id, evento_id, created_at, updated_at)
        VALUES (:id, :player_id, :estado, :fecha, :entrenamiento_id, :evento_id, :created_at, :updated_at)
        ON CONFLICT (player_id, evento_id) WHERE evento_id IS NOT NULL
        DO UPDATE SET estado = EXCLUDED.estado, fecha = EXCLUDED.fecha, updated_at = EXCLUDED.updated_at
        RETURNING id`

	query := trainingQuery
	if record.EventoID != nil {
		query = eventQuery
	}
	rows, err := r.db.NamedQueryContext(ctx, query, record)
	if err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&record.ID); err != nil {
			return nil, fmt.Errorf("upsert attendance: %w", err)
		}
	}
	return record, nil
}

// Delete removes an attendance record.
func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM asistencias WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	return nil
}

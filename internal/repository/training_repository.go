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

const trainingColumns = "id, fecha, hora, lugar, descripcion, coach_id, created_at, updated_at"

// TrainingRepository manages persistence for training sessions.
type TrainingRepository struct {
	db *sqlx.DB
}

// NewTrainingRepository constructs a TrainingRepository.
func NewTrainingRepository(db *sqlx.DB) *TrainingRepository {
	return &TrainingRepository{db: db}
}

// List returns trainings matching the provided filters.
func (r *TrainingRepository) List(ctx context.Context, filter models.TrainingFilter) ([]models.TrainingSession, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.CoachID != "" {
		conditions = append(conditions, fmt.Sprintf("coach_id = $%d", len(args)+1))
		args = append(args, filter.CoachID)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("fecha >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("fecha <= $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	query := fmt.Sprintf("SELECT %s FROM entrenamientos WHERE %s ORDER BY fecha %s", trainingColumns, strings.Join(conditions, " AND "), order)

	var trainings []models.TrainingSession
	if err := r.db.SelectContext(ctx, &trainings, query, args...); err != nil {
		return nil, fmt.Errorf("list trainings: %w", err)
	}
	return trainings, nil
}

// Upcoming returns trainings within the next windowDays from the given date.
func (r *TrainingRepository) Upcoming(ctx context.Context, from time.Time, windowDays int) ([]models.TrainingSession, error) {
	to := from.AddDate(0, 0, windowDays)
	query := fmt.Sprintf("SELECT %s FROM entrenamientos WHERE fecha >= $1 AND fecha <= $2 ORDER BY fecha ASC", trainingColumns)
	var trainings []models.TrainingSession
	if err := r.db.SelectContext(ctx, &trainings, query, from, to); err != nil {
		return nil, fmt.Errorf("upcoming trainings: %w", err)
	}
	return trainings, nil
}

// FindByID fetches a training session by identifier.
func (r *TrainingRepository) FindByID(ctx context.Context, id string) (*models.TrainingSession, error) {
	query := fmt.Sprintf("SELECT %s FROM entrenamientos WHERE id = $1", trainingColumns)
	var training models.TrainingSession
	if err := r.db.GetContext(ctx, &training, query, id); err != nil {
		return nil, err
	}
	return &training, nil
}

// Create inserts a new training session.
func (r *TrainingRepository) Create(ctx context.Context, training *models.TrainingSession) error {
	if training.ID == "" {
		training.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	training.CreatedAt = now
	training.UpdatedAt = now
	const query = `INSERT INTO entrenamientos (id, fecha, hora, lugar, descripcion, coach_id, created_at, updated_at)
        VALUES (:id, :fecha, :hora, :lugar, :descripcion, :coach_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, training); err != nil {
		return fmt.Errorf("create training: %w", err)
	}
	return nil
}

// Update modifies the mutable fields of a training session.
func (r *TrainingRepository) Update(ctx context.Context, training *models.TrainingSession) error {
	training.UpdatedAt = time.Now().UTC()
	const query = `UPDATE entrenamientos SET fecha = :fecha, hora = :hora, lugar = :lugar, descripcion = :descripcion, coach_id = :coach_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, training); err != nil {
		return fmt.Errorf("update training: %w", err)
	}
	return nil
}

// Delete removes a training session.
func (r *TrainingRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM entrenamientos WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete training: %w", err)
	}
	return nil
}

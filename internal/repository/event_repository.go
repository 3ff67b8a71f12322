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

const eventColumns = "id, nombre, fecha, lugar, categoria, created_at, updated_at"

// EventRepository manages persistence for club events.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List returns events matching the provided filters.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Categoria != nil {
		conditions = append(conditions, fmt.Sprintf("categoria = $%d", len(args)+1))
		args = append(args, *filter.Categoria)
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

	query := fmt.Sprintf("SELECT %s FROM eventos WHERE %s ORDER BY fecha %s", eventColumns, strings.Join(conditions, " AND "), order)

	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Upcoming returns events within the next windowDays from the given date.
func (r *EventRepository) Upcoming(ctx context.Context, from time.Time, windowDays int) ([]models.Event, error) {
	to := from.AddDate(0, 0, windowDays)
	query := fmt.Sprintf("SELECT %s FROM eventos WHERE fecha >= $1 AND fecha <= $2 ORDER BY fecha ASC", eventColumns)
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, from, to); err != nil {
		return nil, fmt.Errorf("upcoming events: %w", err)
	}
	return events, nil
}

// FindByID fetches an event by identifier.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	query := fmt.Sprintf("SELECT %s FROM eventos WHERE id = $1", eventColumns)
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	const query = `INSERT INTO eventos (id, nombre, fecha, lugar, categoria, created_at, updated_at)
        VALUES (:id, :nombre, :fecha, :lugar, :categoria, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// Update modifies the mutable fields of an event.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()
	const query = `UPDATE eventos SET nombre = :nombre, fecha = :fecha, lugar = :lugar, categoria = :categoria, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// Delete removes an event.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM eventos WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

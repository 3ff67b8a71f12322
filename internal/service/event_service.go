package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
)

// EventService implements club fixture use cases.
type EventService struct {
	repo      eventRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEventService constructs an EventService.
func NewEventService(repo eventRepository, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// EventRequest carries payload to create or update an event.
type EventRequest struct {
	Nombre    string `json:"nombre" validate:"required"`
	Fecha     string `json:"fecha" validate:"required"`
	Lugar     string `json:"lugar" validate:"required"`
	Categoria string `json:"categoria" validate:"required"`
}

// List returns events matching a filter.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	events, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	return events, nil
}

// Upcoming returns events in the next two weeks.
func (s *EventService) Upcoming(ctx context.Context) ([]models.Event, error) {
	events, err := s.repo.Upcoming(ctx, s.now().UTC().Truncate(24*time.Hour), upcomingWindowDays)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list upcoming events")
	}
	return events, nil
}

// Get returns an event by ID.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}
	return event, nil
}

// Create schedules a new event.
func (s *EventService) Create(ctx context.Context, req EventRequest) (*models.Event, error) {
	event, err := s.buildEvent(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	return s.repo.FindByID(ctx, event.ID)
}

// Update modifies an event.
func (s *EventService) Update(ctx context.Context, id string, req EventRequest) (*models.Event, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	event, err := s.buildEvent(req)
	if err != nil {
		return nil, err
	}
	event.ID = id
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}
	return s.repo.FindByID(ctx, id)
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	return nil
}

func (s *EventService) buildEvent(req EventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}

	date, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid fecha, expected YYYY-MM-DD")
	}
	categoria := models.EventCategory(req.Categoria)
	if !categoria.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "categoria must be one of Partido, Torneo, Amistoso")
	}

	return &models.Event{
		Nombre:    req.Nombre,
		Fecha:     date,
		Lugar:     req.Lugar,
		Categoria: categoria,
	}, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clubatlas/club-adm-api/internal/access"
	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
)

type dueRepository interface {
	List(ctx context.Context, filter models.DueFilter) ([]models.DueDetail, error)
	ListPending(ctx context.Context) ([]models.DueDetail, error)
	FindByID(ctx context.Context, id string) (*models.DueDetail, error)
	ExistsForPeriod(ctx context.Context, playerID, mes string, anio int) (bool, error)
	Create(ctx context.Context, due *models.Due) error
	Update(ctx context.Context, due *models.Due) error
	Delete(ctx context.Context, id string) error
}

// DueService implements monthly due use cases, including the bucket
// classification that drives the dues screens.
type DueService struct {
	repo      dueRepository
	players   playerRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewDueService constructs a DueService.
func NewDueService(repo dueRepository, players playerRepository, validate *validator.Validate, logger *zap.Logger) *DueService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DueService{repo: repo, players: players, validator: validate, logger: logger, now: time.Now}
}

// CreateDueRequest carries payload to create a monthly due.
type CreateDueRequest struct {
	PlayerID         string  `json:"player_id" validate:"required,uuid"`
	Monto            float64 `json:"monto" validate:"required,gt=0"`
	FechaVencimiento string  `json:"fecha_vencimiento" validate:"required"`
	MesReferencia    string  `json:"mes_referencia" validate:"required"`
	AnioReferencia   int     `json:"anio_referencia" validate:"required,gte=2000"`
}

// UpdateDueRequest carries the mutable due fields.
type UpdateDueRequest struct {
	Monto            float64 `json:"monto" validate:"required,gt=0"`
	FechaVencimiento string  `json:"fecha_vencimiento" validate:"required"`
}

// ClassifiedDues groups dues into the three mutually exclusive buckets the
// dues screens render.
type ClassifiedDues struct {
	Upcoming []models.DueDetail `json:"upcoming"`
	Pending  []models.DueDetail `json:"pending"`
	Paid     []models.DueDetail `json:"paid"`
}

// List returns dues visible to the scope, optionally filtered.
func (s *DueService) List(ctx context.Context, scope access.Scope, filter models.DueFilter) ([]models.DueDetail, error) {
	if !scope.ViewAll {
		if filter.PlayerID != "" && filter.PlayerID != scope.PlayerID {
			return nil, appErrors.ErrForbidden
		}
		filter.PlayerID = scope.PlayerID
	}
	dues, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list dues")
	}
	return dues, nil
}

// Pending returns every unpaid due across the club, oldest period first.
// Feeds the admin dashboard.
func (s *DueService) Pending(ctx context.Context) ([]models.DueDetail, error) {
	dues, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending dues")
	}
	return dues, nil
}

// Classify returns the scope's dues split into upcoming, pending and paid
// relative to today. Every due lands in exactly one bucket.
func (s *DueService) Classify(ctx context.Context, scope access.Scope, filter models.DueFilter) (*ClassifiedDues, error) {
	dues, err := s.List(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	result := &ClassifiedDues{
		Upcoming: []models.DueDetail{},
		Pending:  []models.DueDetail{},
		Paid:     []models.DueDetail{},
	}
	now := s.now()
	for _, due := range dues {
		switch due.Bucket(now) {
		case models.DueBucketUpcoming:
			result.Upcoming = append(result.Upcoming, due)
		case models.DueBucketPending:
			result.Pending = append(result.Pending, due)
		case models.DueBucketPaid:
			result.Paid = append(result.Paid, due)
		}
	}
	return result, nil
}

// Stats aggregates the scope's dues into counters and outstanding amounts.
func (s *DueService) Stats(ctx context.Context, scope access.Scope, filter models.DueFilter) (*models.DueStats, error) {
	dues, err := s.List(ctx, scope, filter)
	if err != nil {
		return nil, err
	}

	stats := &models.DueStats{Total: len(dues)}
	now := s.now()
	for _, due := range dues {
		switch due.Bucket(now) {
		case models.DueBucketUpcoming:
			stats.Upcoming++
			stats.MontoPendiente += due.Monto
		case models.DueBucketPending:
			stats.Pending++
			stats.MontoPendiente += due.Monto
		case models.DueBucketPaid:
			stats.Paid++
			stats.MontoPagado += due.Monto
		}
	}
	return stats, nil
}

// Get returns a single due, enforcing the scope.
func (s *DueService) Get(ctx context.Context, scope access.Scope, id string) (*models.DueDetail, error) {
	due, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "due not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load due")
	}
	if !scope.AllowsPlayer(due.PlayerID) {
		return nil, appErrors.ErrForbidden
	}
	return due, nil
}

// canonicalMonth normalizes a reference month to its two-digit form so that
// "3" and "03" name the same period in the uniqueness check and the stored
// row. Out-of-range months are rejected.
func canonicalMonth(raw string) (string, error) {
	month, err := strconv.Atoi(raw)
	if err != nil || month < 1 || month > 12 {
		return "", appErrors.Clone(appErrors.ErrValidation, "mes_referencia must be a month between 01 and 12")
	}
	return fmt.Sprintf("%02d", month), nil
}

// Create registers a new due. At most one due may exist per player and
// reference month, so a duplicate period is rejected before insert.
func (s *DueService) Create(ctx context.Context, actorID string, req CreateDueRequest) (*models.DueDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid due payload")
	}

	dueDate, err := time.Parse("2006-01-02", req.FechaVencimiento)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid fecha_vencimiento, expected YYYY-MM-DD")
	}

	mes, err := canonicalMonth(req.MesReferencia)
	if err != nil {
		return nil, err
	}

	if _, err := s.players.FindByID(ctx, req.PlayerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "player not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load player")
	}

	exists, err := s.repo.ExistsForPeriod(ctx, req.PlayerID, mes, req.AnioReferencia)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check due period")
	}
	if exists {
		return nil, appErrors.ErrDuplicateDue
	}

	due := &models.Due{
		PlayerID:         req.PlayerID,
		Monto:            req.Monto,
		FechaVencimiento: dueDate,
		EstadoPago:       models.DueStatusPending,
		MesReferencia:    mes,
		AnioReferencia:   req.AnioReferencia,
	}
	if err := s.repo.Create(ctx, due); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create due")
	}

	s.logger.Info("due created",
		zap.String("due_id", due.ID),
		zap.String("player_id", due.PlayerID),
		zap.String("actor_id", actorID))

	return s.repo.FindByID(ctx, due.ID)
}

// Update modifies the amount and deadline of a due. The payment state is
// owned by the payment flow and cannot be edited here.
func (s *DueService) Update(ctx context.Context, id string, req UpdateDueRequest) (*models.DueDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid due payload")
	}

	dueDate, err := time.Parse("2006-01-02", req.FechaVencimiento)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid fecha_vencimiento, expected YYYY-MM-DD")
	}

	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "due not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load due")
	}

	due := detail.Due
	due.Monto = req.Monto
	due.FechaVencimiento = dueDate

	if err := s.repo.Update(ctx, &due); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update due")
	}
	return s.repo.FindByID(ctx, id)
}

// Delete removes a due. Paid dues cannot be removed while their payment
// record exists.
func (s *DueService) Delete(ctx context.Context, id string) error {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "due not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load due")
	}
	if detail.EstadoPago == models.DueStatusPaid {
		return appErrors.Clone(appErrors.ErrConflict, "due is paid, delete its payment first")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete due")
	}
	return nil
}

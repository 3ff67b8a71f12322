package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/clubatlas/club-adm-api/internal/access"
	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
)

type attendanceRepository interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error)
	FindByID(ctx context.Context, id string) (*models.AttendanceDetail, error)
	Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	Delete(ctx context.Context, id string) error
}

type trainingRepository interface {
	List(ctx context.Context, filter models.TrainingFilter) ([]models.TrainingSession, error)
	Upcoming(ctx context.Context, from time.Time, windowDays int) ([]models.TrainingSession, error)
	FindByID(ctx context.Context, id string) (*models.TrainingSession, error)
	Create(ctx context.Context, training *models.TrainingSession) error
	Update(ctx context.Context, training *models.TrainingSession) error
	Delete(ctx context.Context, id string) error
}

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	Upcoming(ctx context.Context, from time.Time, windowDays int) ([]models.Event, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}

// AttendanceService implements attendance tracking use cases. A record is
// always tied to exactly one session, either a training or an event.
type AttendanceService struct {
	repo      attendanceRepository
	trainings trainingRepository
	events    eventRepository
	players   playerRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceRepository, trainings trainingRepository, events eventRepository, players playerRepository, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, trainings: trainings, events: events, players: players, validator: validate, logger: logger}
}

// MarkAttendanceRequest carries payload to record or overwrite a player's
// attendance for one session.
type MarkAttendanceRequest struct {
	PlayerID        string `json:"player_id" validate:"required,uuid"`
	Estado          string `json:"estado" validate:"required"`
	EntrenamientoID string `json:"entrenamiento_id" validate:"omitempty,uuid"`
	EventoID        string `json:"evento_id" validate:"omitempty,uuid"`
}

// BulkMarkAttendanceRequest records outcomes for several players against one
// session in a single call.
type BulkMarkAttendanceRequest struct {
	EntrenamientoID string          `json:"entrenamiento_id" validate:"omitempty,uuid"`
	EventoID        string          `json:"evento_id" validate:"omitempty,uuid"`
	Records         []BulkMarkEntry `json:"records" validate:"required,min=1,dive"`
}

// BulkMarkEntry is one player's outcome inside a bulk payload.
type BulkMarkEntry struct {
	PlayerID string `json:"player_id" validate:"required,uuid"`
	Estado   string `json:"estado" validate:"required"`
}

// List returns attendance records visible to the scope.
func (s *AttendanceService) List(ctx context.Context, scope access.Scope, filter models.AttendanceFilter) ([]models.AttendanceDetail, error) {
	if !scope.ViewAll {
		if filter.PlayerID != "" && filter.PlayerID != scope.PlayerID {
			return nil, appErrors.ErrForbidden
		}
		filter.PlayerID = scope.PlayerID
	}
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return records, nil
}

// Mark records the player's outcome for a session. Exactly one of
// entrenamiento_id and evento_id must be set; marking again for the same
// session overwrites the previous outcome. The record's date comes from the
// session, not the caller.
func (s *AttendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) (*models.AttendanceDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	estado := models.AttendanceStatus(req.Estado)
	if !estado.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "estado must be one of Presente, Ausente, Justificado, Sin registro")
	}

	hasTraining := req.EntrenamientoID != ""
	hasEvent := req.EventoID != ""
	if hasTraining == hasEvent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "exactly one of entrenamiento_id and evento_id is required")
	}

	if _, err := s.players.FindByID(ctx, req.PlayerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "player not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load player")
	}

	record := &models.AttendanceRecord{
		PlayerID: req.PlayerID,
		Estado:   estado,
	}

	if hasTraining {
		training, err := s.trainings.FindByID(ctx, req.EntrenamientoID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "training not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load training")
		}
		record.EntrenamientoID = &req.EntrenamientoID
		record.Fecha = training.Fecha
	} else {
		event, err := s.events.FindByID(ctx, req.EventoID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
		}
		record.EventoID = &req.EventoID
		record.Fecha = event.Fecha
	}

	stored, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}

	return s.repo.FindByID(ctx, stored.ID)
}

// BulkMark records outcomes for every listed player against one session. The
// session and every entry are validated before any write, so a bad entry
// rejects the whole payload.
func (s *AttendanceService) BulkMark(ctx context.Context, req BulkMarkAttendanceRequest) ([]models.AttendanceDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	hasTraining := req.EntrenamientoID != ""
	hasEvent := req.EventoID != ""
	if hasTraining == hasEvent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "exactly one of entrenamiento_id and evento_id is required")
	}

	base := models.AttendanceRecord{}
	if hasTraining {
		training, err := s.trainings.FindByID(ctx, req.EntrenamientoID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "training not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load training")
		}
		base.EntrenamientoID = &req.EntrenamientoID
		base.Fecha = training.Fecha
	} else {
		event, err := s.events.FindByID(ctx, req.EventoID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
		}
		base.EventoID = &req.EventoID
		base.Fecha = event.Fecha
	}

	for _, entry := range req.Records {
		if !models.AttendanceStatus(entry.Estado).Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "estado must be one of Presente, Ausente, Justificado, Sin registro")
		}
		if _, err := s.players.FindByID(ctx, entry.PlayerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "player not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load player")
		}
	}

	details := make([]models.AttendanceDetail, 0, len(req.Records))
	for _, entry := range req.Records {
		record := base
		record.PlayerID = entry.PlayerID
		record.Estado = models.AttendanceStatus(entry.Estado)
		stored, err := s.repo.Upsert(ctx, &record)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
		}
		detail, err := s.repo.FindByID(ctx, stored.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance record")
		}
		details = append(details, *detail)
	}

	s.logger.Info("attendance recorded in bulk", zap.Int("count", len(details)))
	return details, nil
}

// Delete removes an attendance record.
func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance record")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete attendance record")
	}
	return nil
}

// Summary computes per-category and overall attendance rates for a player.
// Unrecorded entries never count toward a total, so rates always reflect
// sessions that were actually marked.
func (s *AttendanceService) Summary(ctx context.Context, scope access.Scope, playerID string) (*models.AttendanceSummary, error) {
	if !scope.AllowsPlayer(playerID) {
		return nil, appErrors.ErrForbidden
	}

	records, err := s.repo.List(ctx, models.AttendanceFilter{PlayerID: playerID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}

	summary := &models.AttendanceSummary{
		PlayerID: playerID,
		PerKind:  make(map[models.SessionCategory]models.CategoryRate),
	}

	for _, record := range records {
		if record.Estado == models.AttendanceUnrecorded {
			continue
		}

		category := record.SessionKind()
		rate := summary.PerKind[category]
		tally(&rate, record.Estado)
		summary.PerKind[category] = rate
		tally(&summary.Overall, record.Estado)
	}

	for category, rate := range summary.PerKind {
		rate.Rate = percentage(rate.Presentes, rate.Total)
		summary.PerKind[category] = rate
	}
	summary.Overall.Rate = percentage(summary.Overall.Presentes, summary.Overall.Total)

	return summary, nil
}

func tally(rate *models.CategoryRate, estado models.AttendanceStatus) {
	switch estado {
	case models.AttendancePresent:
		rate.Presentes++
	case models.AttendanceAbsent:
		rate.Ausentes++
	case models.AttendanceJustified:
		rate.Justificados++
	}
	rate.Total++
}

func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
